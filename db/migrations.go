// Package db embeds the relational schema for each supported dialect.
package db

import (
	"embed"
	"fmt"

	"entgo.io/ent/dialect"
)

//go:embed migrations/*.sql
var migrations embed.FS

var files = map[string]string{
	dialect.SQLite:   "migrations/sqlite.sql",
	dialect.Postgres: "migrations/postgres.sql",
}

// Schema returns the DDL script for an ent dialect name.
func Schema(name string) (string, error) {
	path, ok := files[name]
	if !ok {
		return "", fmt.Errorf("unsupported dialect %q", name)
	}
	b, err := migrations.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
