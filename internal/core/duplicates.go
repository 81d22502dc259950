package core

// duplicates.go checks validated rows against what is already stored.
//
// Materials and events disagree on what a match means. A material that
// already exists is excluded from the import outright. An event that already
// exists stays importable and is only flagged; the caller's DuplicateAction
// decides its fate at commit time.

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// candidate is a validated row waiting for, or carrying, a duplicate verdict.
type candidate[T any] struct {
	row      int
	source   Row
	record   T
	existing *Existing
}

// duplicateResolver is the per-entity duplicate policy.
type duplicateResolver[T any] interface {
	// lookup finds a stored entity sharing rec's natural key.
	lookup(ctx context.Context, store Store, rec T) (*Existing, error)

	// excludesMatches reports whether matched rows leave the importable set
	// during classification.
	excludesMatches() bool
}

type materialResolver struct{}

func (materialResolver) lookup(ctx context.Context, store Store, m Material) (*Existing, error) {
	return store.FindMaterial(ctx, m.School, m.GradeLevel, m.Link)
}

func (materialResolver) excludesMatches() bool { return true }

type eventResolver struct{}

func (eventResolver) lookup(ctx context.Context, store Store, e Event) (*Existing, error) {
	return store.FindEvent(ctx, e.School, e.Date, e.Title)
}

func (eventResolver) excludesMatches() bool { return false }

// resolveDuplicates runs one lookup per candidate, at most limit at a time,
// and waits for all of them. kept holds the rows still importable (events
// keep their matches, with existing set); excluded holds matched rows the
// policy removed.
func resolveDuplicates[T any](ctx context.Context, store Store, r duplicateResolver[T], cands []candidate[T], limit int) (kept, excluded []candidate[T], err error) {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range cands {
		i := i
		g.Go(func() error {
			match, err := r.lookup(gctx, store, cands[i].record)
			if err != nil {
				return fmt.Errorf("duplicate check for row %d: %w", cands[i].row, err)
			}
			cands[i].existing = match
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for _, c := range cands {
		if c.existing != nil && r.excludesMatches() {
			excluded = append(excluded, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, excluded, nil
}
