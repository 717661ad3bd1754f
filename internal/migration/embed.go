package migration

import "embed"

const migrationsDir = "migrations"

// Up-only migrations: the dispute schema never rolls back in place, a bad
// migration ships a corrective follow-up instead.
//
//go:embed migrations/*.up.sql
var embeddedMigrations embed.FS
