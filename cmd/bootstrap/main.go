// Command bootstrap creates the four authentication tables (user, session,
// account, verification) in the configured SQLite file. It is safe to run
// any number of times; existing tables are left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/scholarbridge/assistant-api/internal/infrastructure/db/sqlite"
)

func main() {
	path := flag.String("db", envOr("SQLITE_PATH", "./scholarship.db"), "path to the SQLite database file")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlite.Open(ctx, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := sqlite.EnsureSchema(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("auth schema ready in %s\n", *path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
