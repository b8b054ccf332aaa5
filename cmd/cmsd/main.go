// Command cmsd serves the cms demo: articles and authors over a JSON API
// and an admin UI, backed by SQLite or PostgreSQL.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
