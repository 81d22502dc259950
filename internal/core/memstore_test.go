package core

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	materials []Material
	events    []Event
	batches   []ImportBatch

	// failInsert makes InsertMaterial/InsertEvent fail for matching titles.
	failInsert func(title string) bool
	// failBatch makes CreateBatch fail.
	failBatch bool
	// failMark makes MarkBatchUndone fail.
	failMark bool
	lookups  int
}

var errInjected = errors.New("injected store failure")

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) FindMaterial(_ context.Context, school string, gradeLevel int, link string) (*Existing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, mat := range m.materials {
		if mat.School == school && mat.GradeLevel == gradeLevel && mat.Link == link {
			return &Existing{ID: mat.ID, Title: mat.Title, Date: mat.Date}, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertMaterial(_ context.Context, mat Material, batchID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil && m.failInsert(mat.Title) {
		return 0, errInjected
	}
	m.nextID++
	mat.ID = m.nextID
	mat.BatchID = batchID
	m.materials = append(m.materials, mat)
	return mat.ID, nil
}

func (m *memStore) FindEvent(_ context.Context, school, date, title string) (*Existing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	for _, e := range m.events {
		if e.School == school && e.Date == date && e.Title == title {
			return &Existing{ID: e.ID, Title: e.Title, Date: e.Date, Department: e.Department}, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertEvent(_ context.Context, e Event, batchID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil && m.failInsert(e.Title) {
		return 0, errInjected
	}
	m.nextID++
	e.ID = m.nextID
	e.BatchID = batchID
	m.events = append(m.events, e)
	return e.ID, nil
}

func (m *memStore) ReplaceEvent(_ context.Context, id int64, e Event, batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			m.events[i].Title = e.Title
			m.events[i].Department = e.Department
			m.events[i].Time = e.Time
			m.events[i].Description = e.Description
			m.events[i].BatchID = batchID
			m.events[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return errors.New("event not found")
}

func (m *memStore) CreateBatch(_ context.Context, b ImportBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBatch {
		return errInjected
	}
	m.batches = append(m.batches, b)
	return nil
}

func (m *memStore) GetBatch(_ context.Context, kind EntityKind, id string) (*ImportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.batches {
		if b.Kind == kind && b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memStore) MarkBatchUndone(_ context.Context, kind EntityKind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMark {
		return errInjected
	}
	for i := range m.batches {
		if m.batches[i].Kind == kind && m.batches[i].ID == id {
			m.batches[i].Status = BatchUndone
		}
	}
	return nil
}

func (m *memStore) DeleteByBatch(_ context.Context, kind EntityKind, batchID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	switch kind {
	case KindMaterials:
		m.materials = slices.DeleteFunc(m.materials, func(mat Material) bool {
			if mat.BatchID == batchID {
				deleted++
				return true
			}
			return false
		})
	case KindEvents:
		m.events = slices.DeleteFunc(m.events, func(e Event) bool {
			if e.BatchID == batchID {
				deleted++
				return true
			}
			return false
		})
	}
	return deleted, nil
}

func (m *memStore) ListBatches(_ context.Context, kind EntityKind, since time.Time, limit int) ([]ImportBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ImportBatch
	for _, b := range m.batches {
		if b.Kind == kind && !b.CreatedAt.Before(since) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b ImportBatch) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) materialCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.materials)
}

func (m *memStore) eventsWithTitle(title string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Title == title {
			out = append(out, e)
		}
	}
	return out
}
