package db

import (
	"context"
	"errors"
)

// Pinger is satisfied by *pgxpool.Pool and *store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a check function for health.Check.
func Healthcheck(p Pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
