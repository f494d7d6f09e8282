package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"devup/settings"
)

type Database struct {
	wrapped *sql.DB
}

func CreateConnection(cfg *settings.Config) (*Database, error) {
	return Open(cfg.DbConnectionString())
}

func Open(connStr string) (*Database, error) {
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open database %s", connStr)
	}

	err = db.Ping()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to ping database %s", connStr)
	}

	return &Database{db}, nil
}

func (db *Database) Close() error {
	return db.wrapped.Close()
}

func (db *Database) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.wrapped.ExecContext(ctx, query, args...)
}

func (db *Database) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.wrapped.Exec(query, args...)
}

func (db *Database) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.wrapped.QueryRow(query, args...)
}

func (db *Database) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.wrapped.QueryRowContext(ctx, query, args...)
}
