// Package postgres implements core.Store on PostgreSQL using pgx.
//
// Every method issues exactly one statement. The import pipeline never asks
// for multi-statement atomicity, so no transactions are opened here.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/schoolcal/internal/core"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Store is a core.Store backed by PostgreSQL.
type Store struct {
	db DBTX
}

var _ core.Store = (*Store)(nil)

// New wraps an existing pool, connection or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Connect opens and pings a connection pool.
func Connect(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Ping checks the database answers.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "SELECT 1")
	return err
}

// ----------------------------------------------------------------------------
// Materials
// ----------------------------------------------------------------------------

// FindMaterial returns the oldest material with the natural key, or nil.
func (s *Store) FindMaterial(ctx context.Context, school string, gradeLevel int, link string) (*core.Existing, error) {
	const q = `
		SELECT id, title, date
		FROM materials
		WHERE school = $1 AND grade_level = $2 AND link = $3
		ORDER BY id
		LIMIT 1`

	var (
		ex   core.Existing
		date pgtype.Date
	)
	err := s.db.QueryRow(ctx, q, school, gradeLevel, link).Scan(&ex.ID, &ex.Title, &date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find material: %w", err)
	}
	ex.Date = fromPgDate(date)
	return &ex, nil
}

// InsertMaterial stores m tagged with batchID.
func (s *Store) InsertMaterial(ctx context.Context, m core.Material, batchID string) (int64, error) {
	const q = `
		INSERT INTO materials (school, date, grade_level, title, link, description, password, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	date, err := toPgDate(m.Date)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRow(ctx, q,
		m.School, date, m.GradeLevel, m.Title, m.Link, m.Description, m.Password, toPgUUID(batchID),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}
	return id, nil
}

// ----------------------------------------------------------------------------
// Events
// ----------------------------------------------------------------------------

// FindEvent returns the oldest event with the natural key, or nil.
func (s *Store) FindEvent(ctx context.Context, school, date, title string) (*core.Existing, error) {
	const q = `
		SELECT id, title, date, department
		FROM events
		WHERE school = $1 AND date = $2 AND title = $3
		ORDER BY id
		LIMIT 1`

	pgDate, err := toPgDate(date)
	if err != nil {
		return nil, err
	}

	var (
		ex     core.Existing
		stored pgtype.Date
	)
	err = s.db.QueryRow(ctx, q, school, pgDate, title).Scan(&ex.ID, &ex.Title, &stored, &ex.Department)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	ex.Date = fromPgDate(stored)
	return &ex, nil
}

// InsertEvent stores e tagged with batchID.
func (s *Store) InsertEvent(ctx context.Context, e core.Event, batchID string) (int64, error) {
	const q = `
		INSERT INTO events (school, date, title, department, "time", description, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	date, err := toPgDate(e.Date)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRow(ctx, q,
		e.School, date, e.Title, e.Department, e.Time, e.Description, toPgUUID(batchID),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// ReplaceEvent overwrites the mutable fields of event id and re-tags it.
func (s *Store) ReplaceEvent(ctx context.Context, id int64, e core.Event, batchID string) error {
	const q = `
		UPDATE events
		SET title = $2, department = $3, "time" = $4, description = $5,
		    batch_id = $6, updated_at = now()
		WHERE id = $1`

	tag, err := s.db.Exec(ctx, q, id, e.Title, e.Department, e.Time, e.Description, toPgUUID(batchID))
	if err != nil {
		return fmt.Errorf("replace event %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("replace event %d: no such event", id)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Batches
// ----------------------------------------------------------------------------

// CreateBatch records a completed commit.
func (s *Store) CreateBatch(ctx context.Context, b core.ImportBatch) error {
	const q = `
		INSERT INTO import_batches
			(id, kind, created_at, actor, total_rows, success_count, error_count, duplicate_count, status, summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	id := toPgUUID(b.ID)
	if !id.Valid {
		return fmt.Errorf("create batch: invalid id %q", b.ID)
	}

	summary, err := json.Marshal(b.Summary)
	if err != nil {
		return fmt.Errorf("encode batch summary: %w", err)
	}

	_, err = s.db.Exec(ctx, q,
		id, string(b.Kind), pgtype.Timestamptz{Time: b.CreatedAt, Valid: true}, b.Actor,
		b.TotalRows, b.SuccessCount, b.ErrorCount, b.DuplicateCount, string(b.Status), summary,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

const batchColumns = `id, kind, created_at, actor, total_rows, success_count, error_count, duplicate_count, status, summary`

// GetBatch returns the batch or nil. Ids that are not UUIDs cannot exist.
func (s *Store) GetBatch(ctx context.Context, kind core.EntityKind, id string) (*core.ImportBatch, error) {
	pgID := toPgUUID(id)
	if !pgID.Valid {
		return nil, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+batchColumns+` FROM import_batches WHERE id = $1 AND kind = $2`,
		pgID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	batch, err := scanBatch(rows)
	if err != nil {
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return batch, nil
}

// MarkBatchUndone flips the batch status.
func (s *Store) MarkBatchUndone(ctx context.Context, kind core.EntityKind, id string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE import_batches SET status = $3 WHERE id = $1 AND kind = $2`,
		toPgUUID(id), string(kind), string(core.BatchUndone),
	)
	if err != nil {
		return fmt.Errorf("mark batch undone: %w", err)
	}
	return nil
}

// DeleteByBatch removes every entity of kind tagged with batchID.
func (s *Store) DeleteByBatch(ctx context.Context, kind core.EntityKind, batchID string) (int64, error) {
	table, err := entityTable(kind)
	if err != nil {
		return 0, err
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE batch_id = $1`, toPgUUID(batchID))
	if err != nil {
		return 0, fmt.Errorf("delete %s by batch: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// ListBatches returns batches of kind created at or after since, newest first.
func (s *Store) ListBatches(ctx context.Context, kind core.EntityKind, since time.Time, limit int) ([]core.ImportBatch, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+batchColumns+`
		FROM import_batches
		WHERE kind = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT $3`,
		string(kind), pgtype.Timestamptz{Time: since, Valid: true}, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	batches := []core.ImportBatch{}
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, *b)
	}
	return batches, rows.Err()
}

// ----------------------------------------------------------------------------
// Internal helper functions
// ----------------------------------------------------------------------------

func scanBatch(rows pgx.Rows) (*core.ImportBatch, error) {
	var (
		id        pgtype.UUID
		kind      string
		createdAt pgtype.Timestamptz
		actor     pgtype.Text
		status    string
		summary   []byte
		b         core.ImportBatch
	)

	err := rows.Scan(
		&id, &kind, &createdAt, &actor,
		&b.TotalRows, &b.SuccessCount, &b.ErrorCount, &b.DuplicateCount,
		&status, &summary,
	)
	if err != nil {
		return nil, err
	}

	b.ID = uuidToString(id)
	b.Kind = core.EntityKind(kind)
	b.CreatedAt = createdAt.Time
	b.Status = core.BatchStatus(status)
	if actor.Valid {
		b.Actor = actor.String
	}
	if len(summary) > 0 {
		if err := json.Unmarshal(summary, &b.Summary); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	}
	return &b, nil
}

func entityTable(kind core.EntityKind) (string, error) {
	switch kind {
	case core.KindMaterials:
		return "materials", nil
	case core.KindEvents:
		return "events", nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}
}

func toPgDate(s string) (pgtype.Date, error) {
	t, err := time.Parse(core.DateLayout, s)
	if err != nil {
		return pgtype.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return pgtype.Date{Time: t, Valid: true}, nil
}

func fromPgDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(core.DateLayout)
}

func toPgUUID(s string) pgtype.UUID {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
