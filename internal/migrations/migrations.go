// Package migrations holds the goose schema migrations.
package migrations

import (
	"database/sql"
	"embed"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Up applies every pending migration to the database at dsn.
func Up(dsn string) error {
	return withDB(dsn, func(db *sql.DB) error {
		return goose.Up(db, ".")
	})
}

// Run executes a goose command such as "up", "down", "status" or "reset".
func Run(dsn, command string, args ...string) error {
	return withDB(dsn, func(db *sql.DB) error {
		return goose.Run(command, db, ".", args...)
	})
}

func withDB(dsn string, fn func(db *sql.DB) error) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
