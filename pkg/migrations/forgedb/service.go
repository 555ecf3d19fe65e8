// Package forgedb holds all the migrations for the Forge database
package forgedb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the Forge database
var Migrations = migrate.NewMigrations()
