package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := newViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "cmsd",
		Short: "cmsd serves a content management API and admin UI",
		Long: `cmsd manages articles and authors through a JSON API under /api/v1
and an admin UI. Configuration comes from flags, CMS_* environment
variables (CMS_DATABASE_URL, CMS_JWT_SECRET, ...) and an optional
YAML config file.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("driver", "", "database driver: sqlite or postgres")
	flags.String("database-url", "", "database DSN or URL")
	bindFlag(v, "database.driver", cmd, "driver")
	bindFlag(v, "database.url", cmd, "database-url")

	load := func() (config, error) { return loadConfig(v, cfgFile) }

	cmd.AddCommand(
		newServeCmd(v, load),
		newMigrateCmd(load),
		newTokenCmd(load),
		newSeedCmd(load),
	)
	return cmd
}

// bindFlag makes a flag override the config key when set.
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	f := cmd.PersistentFlags().Lookup(name)
	if f == nil {
		f = cmd.Flags().Lookup(name)
	}
	_ = v.BindPFlag(key, f)
}
