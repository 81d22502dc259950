package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/schoolcal/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "calendar.db"), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Materials(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	m := core.Material{
		School: "wlhs", Date: "2025-09-01", GradeLevel: 10,
		Title: "Algebra Packet", Link: "https://x/y",
	}

	found, err := s.FindMaterial(ctx, "wlhs", 10, "https://x/y")
	require.NoError(t, err)
	assert.Nil(t, found)

	id, err := s.InsertMaterial(ctx, m, "batch-a")
	require.NoError(t, err)
	assert.Positive(t, id)

	found, err = s.FindMaterial(ctx, "wlhs", 10, "https://x/y")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, core.Existing{ID: id, Title: "Algebra Packet", Date: "2025-09-01"}, *found)

	// Natural key includes grade level.
	found, err = s.FindMaterial(ctx, "wlhs", 11, "https://x/y")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestStore_EventsReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := core.Event{School: "wvhs", Date: "2025-10-10", Title: "Fall Play", Department: "arts", Time: "6:30 PM"}
	id, err := s.InsertEvent(ctx, e, "batch-a")
	require.NoError(t, err)

	e.Department = "activities"
	e.Time = "7:00 PM"
	e.Description = "Moved"
	require.NoError(t, s.ReplaceEvent(ctx, id, e, "batch-b"))

	found, err := s.FindEvent(ctx, "wvhs", "2025-10-10", "Fall Play")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "activities", found.Department)

	// The replaced row now belongs to the new batch.
	n, err := s.DeleteByBatch(ctx, core.KindEvents, "batch-a")
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = s.DeleteByBatch(ctx, core.KindEvents, "batch-b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Error(t, s.ReplaceEvent(ctx, id, e, "batch-c"), "replacing a deleted event fails")
}

func TestStore_EventsAllowSharedKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := core.Event{School: "wlhs", Date: "2025-10-03", Title: "Homecoming"}
	first, err := s.InsertEvent(ctx, e, "batch-a")
	require.NoError(t, err)
	_, err = s.InsertEvent(ctx, e, "batch-b")
	require.NoError(t, err)

	found, err := s.FindEvent(ctx, "wlhs", "2025-10-03", "Homecoming")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first, found.ID, "oldest match wins")
}

func TestStore_DeleteByBatchIsScoped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, batch := range []string{"batch-a", "batch-a", "batch-b"} {
		_, err := s.InsertMaterial(ctx, core.Material{
			School: "wlhs", Date: "2025-09-01", GradeLevel: 9,
			Title: "Packet", Link: "https://x/" + string(rune('a'+i)),
		}, batch)
		require.NoError(t, err)
	}

	n, err := s.DeleteByBatch(ctx, core.KindMaterials, "batch-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	found, err := s.FindMaterial(ctx, "wlhs", 9, "https://x/c")
	require.NoError(t, err)
	assert.NotNil(t, found, "other batches are untouched")

	_, err = s.DeleteByBatch(ctx, "announcements", "batch-b")
	assert.Error(t, err)
}

func TestStore_Batches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateBatch(ctx, core.ImportBatch{
			ID:           "mat-" + string(rune('1'+i)),
			Kind:         core.KindMaterials,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
			Actor:        "office",
			TotalRows:    3,
			SuccessCount: 2,
			ErrorCount:   1,
			Status:       core.BatchCompleted,
			Summary: core.BatchSummary{
				Schools:   []string{"wlhs"},
				Grades:    []int{9, 10},
				DateRange: &core.DateRange{Min: "2025-09-01", Max: "2025-09-05"},
				Inserted:  2,
			},
		}))
	}
	require.NoError(t, s.CreateBatch(ctx, core.ImportBatch{
		ID: "evt-1", Kind: core.KindEvents, CreatedAt: base, Status: core.BatchCompleted,
	}))

	b, err := s.GetBatch(ctx, core.KindMaterials, "mat-1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "office", b.Actor)
	assert.Equal(t, core.BatchCompleted, b.Status)
	assert.True(t, base.Equal(b.CreatedAt), "CreatedAt = %v", b.CreatedAt)
	assert.Equal(t, []int{9, 10}, b.Summary.Grades)
	assert.Equal(t, &core.DateRange{Min: "2025-09-01", Max: "2025-09-05"}, b.Summary.DateRange)

	b, err = s.GetBatch(ctx, core.KindEvents, "mat-1")
	require.NoError(t, err)
	assert.Nil(t, b, "kind must match")

	list, err := s.ListBatches(ctx, core.KindMaterials, base.Add(30*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mat-3", list[0].ID)
	assert.Equal(t, "mat-2", list[1].ID)

	list, err = s.ListBatches(ctx, core.KindMaterials, base, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mat-3", list[0].ID)

	require.NoError(t, s.MarkBatchUndone(ctx, core.KindMaterials, "mat-1"))
	b, err = s.GetBatch(ctx, core.KindMaterials, "mat-1")
	require.NoError(t, err)
	assert.Equal(t, core.BatchUndone, b.Status)
}

// TestStore_ServiceRoundTrip drives the import pipeline end to end against a
// real database.
func TestStore_ServiceRoundTrip(t *testing.T) {
	s := openTestStore(t)
	svc := core.NewService(s, core.Options{})
	ctx := context.Background()

	csv := "school,date,grade_level,title,link\nwlhs,2025-09-01,10,Algebra Packet,https://x/y\n"

	preview, err := svc.PreviewMaterials(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, core.ImportSummary{Total: 1, Valid: 1}, preview.Summary)

	commit, err := svc.CommitMaterials(ctx, csv, "office")
	require.NoError(t, err)
	require.Equal(t, 1, commit.Imported)
	require.NotEmpty(t, commit.BatchID)

	again, err := svc.PreviewMaterials(ctx, csv)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Summary.Duplicates)

	history, err := svc.MaterialsHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, commit.BatchID, history[0].ID)
	assert.Equal(t, 1, history[0].SuccessCount)

	undo, err := svc.UndoMaterialsBatch(ctx, commit.BatchID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), undo.RowsDeleted)

	_, err = svc.UndoMaterialsBatch(ctx, commit.BatchID)
	assert.ErrorIs(t, err, core.ErrBatchNotFound)
}
