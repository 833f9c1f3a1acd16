package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/postfeed/nanoid"
	"github.com/ncobase/postfeed/security/jwt"
	"github.com/spf13/cobra"
)

// ErrNoSecret is returned when no signing secret is configured.
var ErrNoSecret = errors.New("auth.jwt.secret is not set")

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var (
		uid    string
		name   string
		expire time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.setup()
			if err != nil {
				return err
			}
			defer cleanup()

			if cfg.Auth.JWT.Secret == "" {
				return ErrNoSecret
			}
			if expire == 0 {
				expire = cfg.Auth.JWT.Expire
			}

			token, err := jwt.NewTokenManager(cfg.Auth.JWT.Secret).GenerateAccessToken(nanoid.Must(), uid, name, expire)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "user id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().DurationVar(&expire, "expire", 0, "token lifetime, defaults to auth.jwt.expire")
	_ = cmd.MarkFlagRequired("uid")
	return cmd
}
