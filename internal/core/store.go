package core

import (
	"context"
	"time"
)

// Store is the persistent state the import pipeline reads and writes.
// Implementations live under internal/store. Every method is a single
// statement; the pipeline never asks for multi-statement atomicity.
type Store interface {
	// FindMaterial returns the material with the natural key
	// (school, gradeLevel, link), or nil if there is none.
	FindMaterial(ctx context.Context, school string, gradeLevel int, link string) (*Existing, error)

	// InsertMaterial stores m tagged with batchID and returns its id.
	InsertMaterial(ctx context.Context, m Material, batchID string) (int64, error)

	// FindEvent returns the event with the natural key (school, date, title),
	// or nil if there is none.
	FindEvent(ctx context.Context, school, date, title string) (*Existing, error)

	// InsertEvent stores e tagged with batchID and returns its id.
	InsertEvent(ctx context.Context, e Event, batchID string) (int64, error)

	// ReplaceEvent overwrites the mutable fields (title, department, time,
	// description) of event id, bumps its updated timestamp and re-tags it
	// with batchID.
	ReplaceEvent(ctx context.Context, id int64, e Event, batchID string) error

	// CreateBatch records a completed commit.
	CreateBatch(ctx context.Context, b ImportBatch) error

	// GetBatch returns the batch, or nil if no batch of that kind has the id.
	GetBatch(ctx context.Context, kind EntityKind, id string) (*ImportBatch, error)

	// MarkBatchUndone flips a batch's status to undone.
	MarkBatchUndone(ctx context.Context, kind EntityKind, id string) error

	// DeleteByBatch removes every entity of kind tagged with batchID and
	// returns how many rows were removed.
	DeleteByBatch(ctx context.Context, kind EntityKind, batchID string) (int64, error)

	// ListBatches returns batches of kind created at or after since, newest
	// first, at most limit entries.
	ListBatches(ctx context.Context, kind EntityKind, since time.Time, limit int) ([]ImportBatch, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}
