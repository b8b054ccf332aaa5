package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/cms"
	"github.com/dmitrymomot/cms/middlewares"
	"github.com/dmitrymomot/cms/pkg/db"
	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/storage"
	"github.com/dmitrymomot/cms/pkg/store"
)

func newServeCmd(v *viper.Viper, load func() (config, error)) *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.logger(), middlewares.RequestIDExtractor())

			st, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if autoMigrate {
				if err := migrate(cmd.Context(), st, cfg, log); err != nil {
					return err
				}
			}

			app, err := newApp(cfg, st, log)
			if err != nil {
				return err
			}

			log.Info("starting cmsd", "addr", cfg.Addr, "driver", st.Dialect().Name())
			return app.Run(cfg.Addr,
				cms.Logger(log),
				cms.ShutdownTimeout(cfg.ShutdownTimeout),
				cms.WithContext(cmd.Context()),
			)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	bindFlag(v, "addr", cmd, "addr")
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply migrations before serving")
	return cmd
}

// newApp wires the demo entities with the configured storage backend.
func newApp(cfg config, st *store.Store, log *slog.Logger) (*cms.App, error) {
	if cfg.JWT.Secret == "" {
		return nil, errNoSecret
	}
	cookies, err := cfg.cookies()
	if err != nil {
		return nil, err
	}
	auth := authenticator(cfg.JWT, cookies)
	entities, err := registrations(auth)
	if err != nil {
		return nil, err
	}

	opts := []cms.Option{
		cms.WithCustomLogger(log),
		cms.WithStore(st),
		cms.WithEntities(entities...),
		cms.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.CORS(middlewares.WithExposeHeaders(cms.RequestIDHeader)),
		),
		cms.WithHealthChecks(cms.WithReadinessCheck("db", db.Healthcheck(st))),
	}
	if cookies != nil {
		opts = append(opts,
			cms.WithCookies(cookies),
			cms.WithHandlers(&sessionHandler{cookies: cookies, auth: auth, ttl: cfg.JWT.TTL}),
		)
	} else {
		log.Warn("cookie.secret not set; browser login and flash notices are disabled")
	}
	if cfg.useS3() {
		s3, err := storage.NewS3(cfg.S3)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cms.WithStorage(s3))
	} else {
		opts = append(opts, cms.WithUploadsDir(cfg.Uploads.Dir))
	}

	return cms.New(opts...)
}
