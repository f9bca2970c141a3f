package store

import (
	"database/sql"

	"github.com/MKhiriev/go-study-platform/internal/logger"
	"github.com/MKhiriev/go-study-platform/migrations"
)

// DB wraps a *sql.DB with the logger and error classifier shared by all
// repositories built on top of it.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the server (PostgreSQL) schema.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// MigrateClient applies the client (SQLite) schema.
func (db *DB) MigrateClient() error {
	return migrations.MigrateClient(db.DB)
}

// classify returns the retry classification for err, treating a missing
// classifier as NonRetryable.
func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}
