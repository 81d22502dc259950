package core

import (
	"context"
	"fmt"
)

// MaterialsHistory lists recent materials batches, newest first.
func (s *Service) MaterialsHistory(ctx context.Context) ([]ImportBatch, error) {
	return s.history(ctx, KindMaterials)
}

// EventsHistory lists recent events batches, newest first.
func (s *Service) EventsHistory(ctx context.Context) ([]ImportBatch, error) {
	return s.history(ctx, KindEvents)
}

// history returns batches of kind created inside the undo window, capped at
// the configured history limit.
func (s *Service) history(ctx context.Context, kind EntityKind) ([]ImportBatch, error) {
	since := s.now().Add(-s.opts.UndoWindow)
	batches, err := s.store.ListBatches(ctx, kind, since, s.opts.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list %s batches: %w", kind, err)
	}
	if batches == nil {
		batches = []ImportBatch{}
	}
	return batches, nil
}
