package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dmitrymomot/cms/pkg/cookie"
	"github.com/dmitrymomot/cms/pkg/db"
	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/storage"
)

const envPrefix = "CMS"

var errNoSecret = errors.New("cmsd: jwt.secret is required")

type config struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	Database databaseConfig   `mapstructure:"database"`
	Uploads  uploadsConfig    `mapstructure:"uploads"`
	S3       storage.S3Config `mapstructure:"s3"`
	JWT      jwtConfig        `mapstructure:"jwt"`
	Cookie   cookieConfig     `mapstructure:"cookie"`
	Log      logConfig        `mapstructure:"log"`
	Sentry   sentryConfig     `mapstructure:"sentry"`
}

type databaseConfig struct {
	// "sqlite" or "postgres".
	Driver          string `mapstructure:"driver"`
	URL             string `mapstructure:"url"`
	MigrationsTable string `mapstructure:"migrations_table"`
}

type uploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

type jwtConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// cookieConfig enables the browser login and UI flash notices when Secret
// is set.
type cookieConfig struct {
	Secret string `mapstructure:"secret"`
	Secure bool   `mapstructure:"secure"`
}

type logConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

type sentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// newViper returns a viper instance with every key defaulted, so that
// CMS_* variables reach Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("shutdown_timeout", 30*time.Second)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "cms.db")
	v.SetDefault("database.migrations_table", "cms_migrations")
	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "cmsd")
	v.SetDefault("jwt.ttl", 24*time.Hour)
	v.SetDefault("cookie.secret", "")
	v.SetDefault("cookie.secure", false)
	v.SetDefault("log.format", "json")
	v.SetDefault("log.level", "info")
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the optional config file and decodes v.
func loadConfig(v *viper.Viper, file string) (config, error) {
	var cfg config
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c config) logger() logger.Config {
	return logger.Config{
		Format: c.Log.Format,
		Level:  c.Log.Level,
		Sentry: logger.SentryConfig{
			DSN:         c.Sentry.DSN,
			Environment: c.Sentry.Environment,
		},
	}
}

func (c config) postgres() db.Config {
	cfg := db.DefaultConfig(c.Database.URL)
	cfg.MigrationsTable = c.Database.MigrationsTable
	return cfg
}

func (c config) useS3() bool { return c.S3.Bucket != "" }

// cookies returns nil when no cookie secret is configured.
func (c config) cookies() (*cookie.Manager, error) {
	if c.Cookie.Secret == "" {
		return nil, nil
	}
	return cookie.New(c.Cookie.Secret, cookie.WithSecure(c.Cookie.Secure))
}
