// Package core provides the business logic for calendar bulk imports.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"fmt"
	"strings"
	"time"
)

// EntityKind identifies which calendar entity an import or batch targets.
type EntityKind string

const (
	KindMaterials EntityKind = "materials"
	KindEvents    EntityKind = "events"
)

// Mode selects between the dry-run and persisting halves of an import.
type Mode int

const (
	ModePreview Mode = iota
	ModeCommit
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	if m == ModeCommit {
		return "commit"
	}
	return "preview"
}

// ParseMode converts a caller-supplied mode string. An empty string means
// preview; anything other than "preview" or "commit" is rejected.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preview":
		return ModePreview, nil
	case "commit":
		return ModeCommit, nil
	default:
		return ModePreview, fmt.Errorf("%w: %q (use preview or commit)", ErrInvalidMode, s)
	}
}

// DuplicateAction is the caller's policy for event rows that match an
// existing event at commit time.
type DuplicateAction string

const (
	DuplicateSkip      DuplicateAction = "skip"
	DuplicateReplace   DuplicateAction = "replace"
	DuplicateImportAll DuplicateAction = "importAll"
)

// ParseDuplicateAction converts a caller-supplied action. Empty means skip.
func ParseDuplicateAction(s string) (DuplicateAction, error) {
	switch strings.TrimSpace(s) {
	case "", string(DuplicateSkip):
		return DuplicateSkip, nil
	case string(DuplicateReplace):
		return DuplicateReplace, nil
	case string(DuplicateImportAll), "importall", "import_all":
		return DuplicateImportAll, nil
	default:
		return DuplicateSkip, fmt.Errorf("%w: %q (use skip, replace or importAll)", ErrInvalidDuplicateAction, s)
	}
}

// Material is a downloadable class material. As a validated projection the
// ID, BatchID and timestamps are zero.
type Material struct {
	ID          int64     `json:"id,omitempty"`
	School      string    `json:"school"`
	Date        string    `json:"date"`
	GradeLevel  int       `json:"grade_level"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Password    string    `json:"password"`
	BatchID     string    `json:"batch_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Event is a calendar event.
type Event struct {
	ID          int64     `json:"id,omitempty"`
	School      string    `json:"school"`
	Date        string    `json:"date"`
	Title       string    `json:"title"`
	Department  string    `json:"department"`
	Time        string    `json:"time"`
	Description string    `json:"description"`
	BatchID     string    `json:"batch_id,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Existing identifies a persisted entity that shares a natural key with an
// incoming row.
type Existing struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Date       string `json:"date,omitempty"`
	Department string `json:"department,omitempty"`
}

// BatchStatus is the lifecycle state of an import batch.
type BatchStatus string

const (
	BatchCompleted BatchStatus = "completed"
	BatchUndone    BatchStatus = "undone"
)

// DateRange is an inclusive YYYY-MM-DD range.
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// BatchSummary is the aggregate statistics blob stored with a batch.
type BatchSummary struct {
	Schools   []string   `json:"schools"`
	Grades    []int      `json:"grades,omitempty"`
	DateRange *DateRange `json:"dateRange,omitempty"`
	Inserted  int        `json:"inserted"`
	Replaced  int        `json:"replaced,omitempty"`
	Skipped   int        `json:"skipped,omitempty"`
}

// ImportBatch is the durable audit record of one commit.
type ImportBatch struct {
	ID             string       `json:"id"`
	Kind           EntityKind   `json:"kind"`
	CreatedAt      time.Time    `json:"created_at"`
	Actor          string       `json:"actor,omitempty"`
	TotalRows      int          `json:"total_rows"`
	SuccessCount   int          `json:"success_count"`
	ErrorCount     int          `json:"error_count"`
	DuplicateCount int          `json:"duplicate_count"`
	Status         BatchStatus  `json:"status"`
	Summary        BatchSummary `json:"summary"`
}

// RowError reports why a row did not make it into the store.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
	Data   Row      `json:"data,omitempty"`
}

// RowOutcome is what happened to one row during a commit.
type RowOutcome string

const (
	OutcomeInserted     RowOutcome = "inserted"
	OutcomeReplaced     RowOutcome = "replaced"
	OutcomeSkipped      RowOutcome = "skipped"
	OutcomeInsertFailed RowOutcome = "insert_failed"
)

// RowResult records the outcome for a single source row.
type RowResult struct {
	Row     int        `json:"row"`
	Outcome RowOutcome `json:"outcome"`
	ID      int64      `json:"id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// UndoResult is returned by a successful undo.
type UndoResult struct {
	BatchID     string     `json:"batchId"`
	Kind        EntityKind `json:"kind"`
	RowsDeleted int64      `json:"deleted"`
	Success     bool       `json:"success"`
}
