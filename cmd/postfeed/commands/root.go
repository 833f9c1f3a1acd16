// Package commands holds the postfeed command tree.
package commands

import (
	"fmt"

	"github.com/ncobase/postfeed/config"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/ncobase/postfeed/version"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/postfeed/feed/data/repository/all"
)

type rootOptions struct {
	configFile string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "postfeed",
		Short:         "A chronological feed of short posts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "conf", "c", "", "config file path")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newPostsCommand(opts),
		newTokenCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

// setup loads the configuration and initializes the global logger.
func (o *rootOptions) setup() (*config.Config, func(), error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetVersion(version.GetVersionInfo().Version)
	cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, cleanup, nil
}
