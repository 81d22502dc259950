package postgres

import (
	"context"
	"fmt"
)

// schema creates the calendar tables when they are missing. Natural key
// indexes are not unique: events imported with importAll may share a key.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS materials (
		id          BIGSERIAL PRIMARY KEY,
		school      TEXT NOT NULL,
		date        DATE NOT NULL,
		grade_level INTEGER NOT NULL,
		title       TEXT NOT NULL,
		link        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		password    TEXT NOT NULL DEFAULT '',
		batch_id    UUID,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS materials_natural_key_idx ON materials (school, grade_level, link)`,
	`CREATE INDEX IF NOT EXISTS materials_batch_id_idx ON materials (batch_id)`,

	`CREATE TABLE IF NOT EXISTS events (
		id          BIGSERIAL PRIMARY KEY,
		school      TEXT NOT NULL,
		date        DATE NOT NULL,
		title       TEXT NOT NULL,
		department  TEXT NOT NULL DEFAULT '',
		"time"      TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		batch_id    UUID,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS events_natural_key_idx ON events (school, date, title)`,
	`CREATE INDEX IF NOT EXISTS events_batch_id_idx ON events (batch_id)`,

	`CREATE TABLE IF NOT EXISTS import_batches (
		id              UUID PRIMARY KEY,
		kind            TEXT NOT NULL CHECK (kind IN ('materials', 'events')),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		actor           TEXT,
		total_rows      INTEGER NOT NULL DEFAULT 0,
		success_count   INTEGER NOT NULL DEFAULT 0,
		error_count     INTEGER NOT NULL DEFAULT 0,
		duplicate_count INTEGER NOT NULL DEFAULT 0,
		status          TEXT NOT NULL DEFAULT 'completed',
		summary         JSONB NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS import_batches_kind_created_idx ON import_batches (kind, created_at DESC)`,
}

// Migrate applies the schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
