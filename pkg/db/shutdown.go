package db

import (
	"context"
	"io"
)

// Shutdown returns a shutdown hook closing c. Use with cms.WithShutdownHook.
func Shutdown(c io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}
