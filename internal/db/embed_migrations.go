package db

import "embed"

// MigrationFS embeds the SQL migrations for the users directory and the
// session audit log. Applied by internal/db/migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
