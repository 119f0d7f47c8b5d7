// Package database materializes the loaded catalog into an in-memory SQLite
// index so the portal reads reference data through the same repository
// surface a real backend would offer. Nothing is written to disk and nothing
// survives the process.
package database

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens a fresh private in-memory database. The pool is pinned to a
// single connection; sqlite :memory: databases live and die with their
// connection.
func Open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	return db, nil
}
