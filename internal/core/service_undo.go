package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/schoolcal/internal/logging"
)

// UndoMaterialsBatch deletes every material inserted by a materials batch.
func (s *Service) UndoMaterialsBatch(ctx context.Context, batchID string) (UndoResult, error) {
	return s.undoBatch(ctx, KindMaterials, batchID)
}

// UndoEventsBatch deletes every event inserted or replaced by an events batch.
func (s *Service) UndoEventsBatch(ctx context.Context, batchID string) (UndoResult, error) {
	return s.undoBatch(ctx, KindEvents, batchID)
}

// undoBatch removes all rows tagged with batchID and marks the batch undone.
// The batch must exist, still be completed, and be inside the undo window.
func (s *Service) undoBatch(ctx context.Context, kind EntityKind, batchID string) (UndoResult, error) {
	result := UndoResult{BatchID: batchID, Kind: kind}

	batch, err := s.store.GetBatch(ctx, kind, batchID)
	if err != nil {
		return result, fmt.Errorf("get batch: %w", err)
	}

	cutoff := s.now().Add(-s.opts.UndoWindow)
	if batch == nil || batch.Status != BatchCompleted || batch.CreatedAt.Before(cutoff) {
		return result, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
	}

	logger := logging.WithFields(ctx, "batch_id", batchID, "kind", kind)

	deleted, err := s.store.DeleteByBatch(ctx, kind, batchID)
	if err != nil {
		return result, fmt.Errorf("delete by batch: %w", err)
	}

	if err := s.store.MarkBatchUndone(ctx, kind, batchID); err != nil {
		// Log but don't fail - rows are already deleted
		logger.Error("rows deleted but batch status update failed", "deleted", deleted, "error", err)
	}

	result.RowsDeleted = deleted
	result.Success = true
	logger.Info("batch undone", "deleted", deleted)

	return result, nil
}
