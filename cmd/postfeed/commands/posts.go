package commands

import (
	"encoding/json"
	"fmt"

	"github.com/ncobase/postfeed/feed/data/repository"
	"github.com/ncobase/postfeed/logging/logger"
	"github.com/spf13/cobra"
)

func newPostsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Post store commands",
	}
	cmd.AddCommand(newPostsListCommand(opts))
	return cmd
}

func newPostsListCommand(opts *rootOptions) *cobra.Command {
	var store string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every post as a JSON line, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.setup()
			if err != nil {
				return err
			}
			defer cleanup()
			if store != "" {
				cfg.Data.Store = store
			}

			ctx := cmd.Context()
			repo, closeRepo, err := repository.New(ctx, cfg, logger.StdLogger())
			if err != nil {
				return fmt.Errorf("failed to open post store: %w", err)
			}
			defer closeRepo()

			posts, err := repo.ListAll(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, p := range posts {
				if err := enc.Encode(p); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "post store driver")
	return cmd
}
