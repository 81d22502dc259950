package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/schoolcal/internal/logging"
)

// EventsSummary holds the classification counts of an events import.
type EventsSummary struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	Duplicates int `json:"duplicates"`
}

// EventRow is a valid events row. Duplicates stay in the valid list, flagged.
type EventRow struct {
	Row         int       `json:"row"`
	Data        Event     `json:"data"`
	IsDuplicate bool      `json:"isDuplicate"`
	Existing    *Existing `json:"existing,omitempty"`
}

// EventsImportResult is the report for an events preview or commit.
type EventsImportResult struct {
	Mode            string          `json:"mode"`
	Summary         EventsSummary   `json:"summary"`
	Valid           []EventRow      `json:"valid"`
	Invalid         []RowError      `json:"invalid"`
	Errors          []RowError      `json:"errors,omitempty"`
	DuplicateAction DuplicateAction `json:"duplicateAction,omitempty"`
	Imported        int             `json:"imported"`
	Replaced        int             `json:"replaced"`
	Skipped         int             `json:"skipped"`
	BatchID         string          `json:"batchId,omitempty"`
	Message         string          `json:"message,omitempty"`
	Results         []RowResult     `json:"results,omitempty"`
}

type eventsClassification struct {
	total   int
	valid   []candidate[Event]
	invalid []RowError
}

func (cl *eventsClassification) summary() EventsSummary {
	sum := EventsSummary{Total: cl.total, Valid: len(cl.valid), Invalid: len(cl.invalid)}
	for _, c := range cl.valid {
		if c.existing != nil {
			sum.Duplicates++
		}
	}
	return sum
}

// ImportEvents dispatches to PreviewEvents or CommitEvents.
func (s *Service) ImportEvents(ctx context.Context, req ImportRequest) (*EventsImportResult, error) {
	if req.Mode == ModeCommit {
		return s.CommitEvents(ctx, req.CSV, req.DuplicateAction, req.Actor)
	}
	return s.PreviewEvents(ctx, req.CSV)
}

// PreviewEvents classifies every row without writing anything.
func (s *Service) PreviewEvents(ctx context.Context, text string) (*EventsImportResult, error) {
	cl, err := s.classifyEvents(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &EventsImportResult{
		Mode:    ModePreview.String(),
		Summary: cl.summary(),
		Valid:   make([]EventRow, 0, len(cl.valid)),
		Invalid: cl.invalid,
	}
	for _, c := range cl.valid {
		res.Valid = append(res.Valid, EventRow{
			Row:         c.row,
			Data:        c.record,
			IsDuplicate: c.existing != nil,
			Existing:    c.existing,
		})
	}
	return res, nil
}

// CommitEvents writes every valid row under a fresh batch id. Rows matching
// an existing event are skipped, replace the existing event, or are inserted
// alongside it, according to action.
func (s *Service) CommitEvents(ctx context.Context, text string, action DuplicateAction, actor string) (*EventsImportResult, error) {
	if action == "" {
		action = DuplicateSkip
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	cl, err := s.classifyEvents(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &EventsImportResult{
		Mode:            ModeCommit.String(),
		Summary:         cl.summary(),
		Invalid:         cl.invalid,
		Errors:          []RowError{},
		DuplicateAction: action,
	}

	if len(cl.valid) == 0 {
		res.Message = "No valid rows to import"
		return res, nil
	}

	batchID := s.newID()
	logger := logging.WithFields(ctx, "batch_id", batchID, "kind", KindEvents, "duplicate_action", action)
	logger.Info("events commit started", "rows", len(cl.valid))

	stats := newSummaryStats()
	for _, c := range cl.valid {
		if c.existing != nil && action == DuplicateSkip {
			res.Skipped++
			res.Results = append(res.Results, RowResult{Row: c.row, Outcome: OutcomeSkipped, ID: c.existing.ID})
			continue
		}

		if c.existing != nil && action == DuplicateReplace {
			if err := s.store.ReplaceEvent(ctx, c.existing.ID, c.record, batchID); err != nil {
				res.recordFailure(c, "replace failed: ", err)
				logger.Warn("event replace failed", "row", c.row, "id", c.existing.ID, "error", err)
				continue
			}
			res.Replaced++
			stats.add(c.record.School, c.record.Date, 0)
			res.Results = append(res.Results, RowResult{Row: c.row, Outcome: OutcomeReplaced, ID: c.existing.ID})
			continue
		}

		// New rows, and duplicates under importAll.
		id, err := s.store.InsertEvent(ctx, c.record, batchID)
		if err != nil {
			res.recordFailure(c, "insert failed: ", err)
			logger.Warn("event insert failed", "row", c.row, "error", err)
			continue
		}
		res.Imported++
		stats.add(c.record.School, c.record.Date, 0)
		res.Results = append(res.Results, RowResult{Row: c.row, Outcome: OutcomeInserted, ID: id})
	}

	summary := stats.summary()
	summary.Inserted = res.Imported
	summary.Replaced = res.Replaced
	summary.Skipped = res.Skipped
	batch := ImportBatch{
		ID:             batchID,
		Kind:           KindEvents,
		CreatedAt:      s.now().UTC(),
		Actor:          actor,
		TotalRows:      cl.total,
		SuccessCount:   res.Imported + res.Replaced,
		ErrorCount:     len(cl.invalid) + len(res.Errors),
		DuplicateCount: res.Summary.Duplicates,
		Status:         BatchCompleted,
		Summary:        summary,
	}
	if err := s.store.CreateBatch(ctx, batch); err != nil {
		logger.Error("record batch failed", "imported", res.Imported, "replaced", res.Replaced, "error", err)
		return nil, fmt.Errorf("record batch %s: %w", batchID, err)
	}

	res.BatchID = batchID
	logger.Info("events commit completed",
		"imported", res.Imported,
		"replaced", res.Replaced,
		"skipped", res.Skipped,
		"errors", len(res.Errors),
	)
	return res, nil
}

func (res *EventsImportResult) recordFailure(c candidate[Event], prefix string, err error) {
	res.Errors = append(res.Errors, RowError{
		Row:    c.row,
		Errors: []string{prefix + err.Error()},
		Data:   c.source,
	})
	res.Results = append(res.Results, RowResult{Row: c.row, Outcome: OutcomeInsertFailed, Error: err.Error()})
}

func (s *Service) classifyEvents(ctx context.Context, text string) (*eventsClassification, error) {
	table, err := parseInput(text, EventColumns)
	if err != nil {
		return nil, err
	}

	cl := &eventsClassification{total: len(table.Rows), invalid: []RowError{}}
	var cands []candidate[Event]
	for i, row := range table.Rows {
		e, errs := s.validator.ValidateEvent(row)
		if len(errs) > 0 {
			cl.invalid = append(cl.invalid, RowError{Row: displayRow(i), Errors: errorStrings(errs), Data: row})
			continue
		}
		cands = append(cands, candidate[Event]{row: displayRow(i), source: row, record: e})
	}

	cl.valid, _, err = resolveDuplicates(ctx, s.store, eventResolver{}, cands, s.opts.LookupConcurrency)
	if err != nil {
		return nil, err
	}
	return cl, nil
}
