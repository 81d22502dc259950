package sqlite

import (
	"time"

	"github.com/JonMunkholm/schoolcal/internal/core"
)

// Dates are stored as YYYY-MM-DD text, which sorts and compares correctly.

type materialRow struct {
	ID          int64  `gorm:"primaryKey"`
	School      string `gorm:"index:idx_materials_natural_key;size:16;not null"`
	Date        string `gorm:"size:10;not null"`
	GradeLevel  int    `gorm:"index:idx_materials_natural_key;not null"`
	Title       string `gorm:"not null"`
	Link        string `gorm:"index:idx_materials_natural_key;size:2048;not null"`
	Description string `gorm:"type:text;not null;default:''"`
	Password    string `gorm:"not null;default:''"`
	BatchID     string `gorm:"index;size:36"`
	CreatedAt   time.Time
}

func (materialRow) TableName() string { return "materials" }

type eventRow struct {
	ID          int64  `gorm:"primaryKey"`
	School      string `gorm:"index:idx_events_natural_key;size:16;not null"`
	Date        string `gorm:"index:idx_events_natural_key;size:10;not null"`
	Title       string `gorm:"index:idx_events_natural_key;not null"`
	Department  string `gorm:"size:32;not null;default:''"`
	Time        string `gorm:"column:time;size:32;not null;default:''"`
	Description string `gorm:"type:text;not null;default:''"`
	BatchID     string `gorm:"index;size:36"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (eventRow) TableName() string { return "events" }

type batchRow struct {
	ID             string            `gorm:"primaryKey;size:36"`
	Kind           string            `gorm:"index:idx_batches_kind_created;size:16;not null"`
	CreatedAt      time.Time         `gorm:"index:idx_batches_kind_created"`
	Actor          string            `gorm:"size:256"`
	TotalRows      int               `gorm:"not null"`
	SuccessCount   int               `gorm:"not null"`
	ErrorCount     int               `gorm:"not null"`
	DuplicateCount int               `gorm:"not null"`
	Status         string            `gorm:"size:16;not null"`
	Summary        core.BatchSummary `gorm:"type:text;serializer:json"`
}

func (batchRow) TableName() string { return "import_batches" }

func materialFromCore(m core.Material, batchID string) materialRow {
	return materialRow{
		School:      m.School,
		Date:        m.Date,
		GradeLevel:  m.GradeLevel,
		Title:       m.Title,
		Link:        m.Link,
		Description: m.Description,
		Password:    m.Password,
		BatchID:     batchID,
	}
}

func eventFromCore(e core.Event, batchID string) eventRow {
	return eventRow{
		School:      e.School,
		Date:        e.Date,
		Title:       e.Title,
		Department:  e.Department,
		Time:        e.Time,
		Description: e.Description,
		BatchID:     batchID,
	}
}

func batchFromCore(b core.ImportBatch) batchRow {
	return batchRow{
		ID:             b.ID,
		Kind:           string(b.Kind),
		CreatedAt:      b.CreatedAt.UTC(),
		Actor:          b.Actor,
		TotalRows:      b.TotalRows,
		SuccessCount:   b.SuccessCount,
		ErrorCount:     b.ErrorCount,
		DuplicateCount: b.DuplicateCount,
		Status:         string(b.Status),
		Summary:        b.Summary,
	}
}

func (r batchRow) toCore() core.ImportBatch {
	return core.ImportBatch{
		ID:             r.ID,
		Kind:           core.EntityKind(r.Kind),
		CreatedAt:      r.CreatedAt,
		Actor:          r.Actor,
		TotalRows:      r.TotalRows,
		SuccessCount:   r.SuccessCount,
		ErrorCount:     r.ErrorCount,
		DuplicateCount: r.DuplicateCount,
		Status:         core.BatchStatus(r.Status),
		Summary:        r.Summary,
	}
}
