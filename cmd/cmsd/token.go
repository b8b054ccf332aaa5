package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cms/middlewares"
)

func newTokenCmd(load func() (config, error)) *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for article writes",
		Long: `Mint an HS256 token signed with jwt.secret. Send it as
"Authorization: Bearer <token>" or set it as the cms_token cookie
for the admin UI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWT.TTL
			}
			tok, err := mintToken(cfg.JWT, args[0], role, ttl, time.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&role, "role", "editor", "role claim (admin may delete)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default jwt.ttl)")
	return cmd
}

func mintToken(cfg jwtConfig, subject, role string, ttl time.Duration, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", errNoSecret
	}
	return middlewares.SignToken([]byte(cfg.Secret), &middlewares.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})
}
