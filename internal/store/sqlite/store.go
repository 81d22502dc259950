// Package sqlite implements core.Store on an embedded SQLite database via
// gorm. It backs local runs without a Postgres server and the store tests.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JonMunkholm/schoolcal/internal/core"
)

// Store is a core.Store backed by gorm.
type Store struct {
	db *gorm.DB
}

var _ core.Store = (*Store)(nil)

// Open opens the database file at path. With migrate set, missing tables
// are created.
func Open(path string, migrate bool) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	s := &Store{db: db}
	if migrate {
		if err := s.Migrate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Migrate creates or updates the tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&materialRow{}, &eventRow{}, &batchRow{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// FindMaterial returns the oldest material with the natural key, or nil.
func (s *Store) FindMaterial(ctx context.Context, school string, gradeLevel int, link string) (*core.Existing, error) {
	var row materialRow
	err := s.db.WithContext(ctx).
		Where("school = ? AND grade_level = ? AND link = ?", school, gradeLevel, link).
		Order("id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find material: %w", err)
	}
	return &core.Existing{ID: row.ID, Title: row.Title, Date: row.Date}, nil
}

// InsertMaterial stores m tagged with batchID.
func (s *Store) InsertMaterial(ctx context.Context, m core.Material, batchID string) (int64, error) {
	row := materialFromCore(m, batchID)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert material: %w", err)
	}
	return row.ID, nil
}

// FindEvent returns the oldest event with the natural key, or nil.
func (s *Store) FindEvent(ctx context.Context, school, date, title string) (*core.Existing, error) {
	var row eventRow
	err := s.db.WithContext(ctx).
		Where("school = ? AND date = ? AND title = ?", school, date, title).
		Order("id").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &core.Existing{ID: row.ID, Title: row.Title, Date: row.Date, Department: row.Department}, nil
}

// InsertEvent stores e tagged with batchID.
func (s *Store) InsertEvent(ctx context.Context, e core.Event, batchID string) (int64, error) {
	row := eventFromCore(e, batchID)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return row.ID, nil
}

// ReplaceEvent overwrites the mutable fields of event id and re-tags it.
func (s *Store) ReplaceEvent(ctx context.Context, id int64, e core.Event, batchID string) error {
	res := s.db.WithContext(ctx).
		Model(&eventRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":       e.Title,
			"department":  e.Department,
			"time":        e.Time,
			"description": e.Description,
			"batch_id":    batchID,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("replace event %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("replace event %d: no such event", id)
	}
	return nil
}

// CreateBatch records a completed commit.
func (s *Store) CreateBatch(ctx context.Context, b core.ImportBatch) error {
	row := batchFromCore(b)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetBatch returns the batch or nil.
func (s *Store) GetBatch(ctx context.Context, kind core.EntityKind, id string) (*core.ImportBatch, error) {
	var row batchRow
	err := s.db.WithContext(ctx).
		Where("id = ? AND kind = ?", id, string(kind)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	b := row.toCore()
	return &b, nil
}

// MarkBatchUndone flips the batch status.
func (s *Store) MarkBatchUndone(ctx context.Context, kind core.EntityKind, id string) error {
	err := s.db.WithContext(ctx).
		Model(&batchRow{}).
		Where("id = ? AND kind = ?", id, string(kind)).
		Update("status", string(core.BatchUndone)).Error
	if err != nil {
		return fmt.Errorf("mark batch undone: %w", err)
	}
	return nil
}

// DeleteByBatch removes every entity of kind tagged with batchID.
func (s *Store) DeleteByBatch(ctx context.Context, kind core.EntityKind, batchID string) (int64, error) {
	var model any
	switch kind {
	case core.KindMaterials:
		model = &materialRow{}
	case core.KindEvents:
		model = &eventRow{}
	default:
		return 0, fmt.Errorf("unknown entity kind %q", kind)
	}

	res := s.db.WithContext(ctx).Where("batch_id = ?", batchID).Delete(model)
	if res.Error != nil {
		return 0, fmt.Errorf("delete %s by batch: %w", kind, res.Error)
	}
	return res.RowsAffected, nil
}

// ListBatches returns batches of kind created at or after since, newest first.
func (s *Store) ListBatches(ctx context.Context, kind core.EntityKind, since time.Time, limit int) ([]core.ImportBatch, error) {
	var rows []batchRow
	err := s.db.WithContext(ctx).
		Where("kind = ? AND created_at >= ?", string(kind), since.UTC()).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}

	batches := make([]core.ImportBatch, len(rows))
	for i, row := range rows {
		batches[i] = row.toCore()
	}
	return batches, nil
}
