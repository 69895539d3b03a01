// migrate applies the users and session audit schema; go run ./cmd/migrate -direction=up.
package main

import (
	"flag"
	"fmt"
	"os"

	"session-auth/internal/config"
	"session-auth/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.PostgresURL(), *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
