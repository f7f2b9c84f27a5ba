// Package sqlite implements the repositories on an embedded SQLite database
// for single-node deployments and tests.
package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
)

// NewStore wires every repository over db. The schema must already be migrated.
func NewStore(db *sql.DB) *repositories.Store {
	return &repositories.Store{
		Events:       &eventRepository{db: db},
		Segments:     &segmentRepository{db: db},
		Translations: &translationRepository{db: db},
		Languages:    &languageRepository{db: db},
		DispatchRuns: &dispatchRunRepository{db: db},
	}
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY failure
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
