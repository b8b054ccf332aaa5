package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/cms"
	"github.com/dmitrymomot/cms/pkg/logger"
	"github.com/dmitrymomot/cms/pkg/store"
)

// fixtures is the seed file layout:
//
//	authors:
//	  - id: 1
//	    name: Ada
//	articles:
//	  - title: Hello
//	    author_id: 1
type fixtures struct {
	Authors  []map[string]any `yaml:"authors"`
	Articles []map[string]any `yaml:"articles"`
}

func newSeedCmd(load func() (config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Insert fixtures from a YAML file",
		Long:  "Insert authors, then articles, from a YAML file. Hooks and rules do not run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.logger())

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			fx, err := readFixtures(f)
			if err != nil {
				return err
			}

			st, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			authors, articles, err := seed(cmd.Context(), st, fx)
			if err != nil {
				return err
			}
			log.Info("fixtures inserted", "authors", authors, "articles", articles)
			return nil
		},
	}
}

func readFixtures(r io.Reader) (fixtures, error) {
	var fx fixtures
	if err := yaml.NewDecoder(r).Decode(&fx); err != nil && err != io.EOF {
		return fx, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

// seed inserts authors before articles so article foreign keys resolve.
func seed(ctx context.Context, st *store.Store, fx fixtures) (authors, articles int, err error) {
	authorObjs, err := toJSON(fx.Authors)
	if err != nil {
		return 0, 0, err
	}
	articleObjs, err := toJSON(fx.Articles)
	if err != nil {
		return 0, 0, err
	}

	as := authorSchema()
	if authors, err = cms.Import(ctx, st, &as, authorObjs); err != nil {
		return authors, 0, err
	}
	// Explicit ids do not advance a postgres identity column.
	if authors > 0 && st.Dialect().Name() == "postgres" {
		if _, err := st.Exec(ctx, `SELECT setval(pg_get_serial_sequence('authors', 'id'), (SELECT MAX(id) FROM authors))`); err != nil {
			return authors, 0, fmt.Errorf("sync author ids: %w", err)
		}
	}
	ar := articleSchema()
	articles, err = cms.Import(ctx, st, &ar, articleObjs)
	return authors, articles, err
}

func toJSON(items []map[string]any) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}
