// Package repositories persists players, their progress snapshots and theory reviews in SQLite.
package repositories

import (
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/sqlite"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.NewSentinel("not found")

// dbs wraps the connection pools of [sqlite.Database] for sqlx.
type dbs struct {
	readWrite *sqlx.DB
	readOnly  *sqlx.DB
}

func newDBs(db *sqlite.Database) dbs {
	return dbs{
		readWrite: sqlx.NewDb(db.ReadWrite, "sqlite3"),
		readOnly:  sqlx.NewDb(db.ReadOnly, "sqlite3"),
	}
}
