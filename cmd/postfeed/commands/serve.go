package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncobase/postfeed/config"
	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/internal/server"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var store string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the feed server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.setup()
			if err != nil {
				return err
			}
			defer cleanup()
			if store != "" {
				cfg.Data.Store = store
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log := logger.StdLogger()
			repo, closeRepo, err := repository.New(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to open post store: %w", err)
			}
			defer closeRepo()
			log.Info(ctx, "post store opened", "store", cfg.Data.Store, "collection", cfg.Feed.Collection)

			config.Watch(func(next *config.Config, err error) {
				if err != nil {
					log.Warn(ctx, "config reload failed", "error", err)
					return
				}
				if next.Logger != nil {
					log.SetLevel(logrus.Level(next.Logger.Level))
					log.Info(ctx, "log level updated", "level", log.GetLevel().String())
				}
			})

			return server.New(cfg, repo, log).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&store, "store", "", fmt.Sprintf("post store driver, one of %v", repository.Drivers()))
	return cmd
}
