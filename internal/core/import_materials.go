package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/schoolcal/internal/logging"
)

// ImportSummary holds the classification counts of an import.
type ImportSummary struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Errors     int `json:"errors"`
	Duplicates int `json:"duplicates"`
}

// MaterialRow is a valid materials row.
type MaterialRow struct {
	Row  int      `json:"row"`
	Data Material `json:"data"`
}

// MaterialDuplicate is a materials row whose natural key already exists.
type MaterialDuplicate struct {
	Row      int      `json:"row"`
	Data     Material `json:"data"`
	Existing Existing `json:"existing"`
}

// MaterialsImportResult is the report for a materials preview or commit.
type MaterialsImportResult struct {
	Mode       string              `json:"mode"`
	Summary    ImportSummary       `json:"summary"`
	Valid      []MaterialRow       `json:"valid"`
	Errors     []RowError          `json:"errors"`
	Duplicates []MaterialDuplicate `json:"duplicates"`
	Imported   int                 `json:"imported"`
	BatchID    string              `json:"batchId,omitempty"`
	Message    string              `json:"message,omitempty"`
	Results    []RowResult         `json:"results,omitempty"`
}

// materialsClassification is the shared output of the preview/commit pipeline.
type materialsClassification struct {
	total      int
	valid      []candidate[Material]
	invalid    []RowError
	duplicates []candidate[Material]
}

// ImportMaterials dispatches to PreviewMaterials or CommitMaterials.
func (s *Service) ImportMaterials(ctx context.Context, req ImportRequest) (*MaterialsImportResult, error) {
	if req.Mode == ModeCommit {
		return s.CommitMaterials(ctx, req.CSV, req.Actor)
	}
	return s.PreviewMaterials(ctx, req.CSV)
}

// PreviewMaterials classifies every row without writing anything.
func (s *Service) PreviewMaterials(ctx context.Context, text string) (*MaterialsImportResult, error) {
	cl, err := s.classifyMaterials(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &MaterialsImportResult{
		Mode:       ModePreview.String(),
		Summary:    cl.summary(),
		Valid:      make([]MaterialRow, 0, len(cl.valid)),
		Errors:     cl.invalid,
		Duplicates: materialDuplicates(cl.duplicates),
	}
	for _, c := range cl.valid {
		res.Valid = append(res.Valid, MaterialRow{Row: c.row, Data: c.record})
	}
	return res, nil
}

// CommitMaterials inserts every valid, non-duplicate row under a fresh batch
// id and records the batch. Rows are inserted one at a time; a failed insert
// is reported and the remaining rows still go in.
func (s *Service) CommitMaterials(ctx context.Context, text string, actor string) (*MaterialsImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	cl, err := s.classifyMaterials(ctx, text)
	if err != nil {
		return nil, err
	}

	res := &MaterialsImportResult{
		Mode:       ModeCommit.String(),
		Summary:    cl.summary(),
		Errors:     cl.invalid,
		Duplicates: materialDuplicates(cl.duplicates),
	}

	if len(cl.valid) == 0 {
		res.Message = "No valid rows to import"
		return res, nil
	}

	batchID := s.newID()
	logger := logging.WithFields(ctx, "batch_id", batchID, "kind", KindMaterials)
	logger.Info("materials commit started", "rows", len(cl.valid))

	stats := newSummaryStats()
	for _, c := range cl.valid {
		id, err := s.store.InsertMaterial(ctx, c.record, batchID)
		if err != nil {
			logger.Warn("material insert failed", "row", c.row, "error", err)
			res.Errors = append(res.Errors, RowError{
				Row:    c.row,
				Errors: []string{"insert failed: " + err.Error()},
				Data:   c.source,
			})
			res.Results = append(res.Results, RowResult{Row: c.row, Outcome: OutcomeInsertFailed, Error: err.Error()})
			continue
		}
		res.Imported++
		stats.add(c.record.School, c.record.Date, c.record.GradeLevel)
		res.Results = append(res.Results, RowResult{Row: c.row, Outcome: OutcomeInserted, ID: id})
	}

	summary := stats.summary()
	summary.Inserted = res.Imported
	batch := ImportBatch{
		ID:             batchID,
		Kind:           KindMaterials,
		CreatedAt:      s.now().UTC(),
		Actor:          actor,
		TotalRows:      cl.total,
		SuccessCount:   res.Imported,
		ErrorCount:     len(res.Errors),
		DuplicateCount: len(cl.duplicates),
		Status:         BatchCompleted,
		Summary:        summary,
	}
	if err := s.store.CreateBatch(ctx, batch); err != nil {
		logger.Error("record batch failed", "imported", res.Imported, "error", err)
		return nil, fmt.Errorf("record batch %s: %w", batchID, err)
	}

	res.BatchID = batchID
	logger.Info("materials commit completed",
		"imported", res.Imported,
		"errors", len(res.Errors),
		"duplicates", len(cl.duplicates),
	)
	return res, nil
}

func (s *Service) classifyMaterials(ctx context.Context, text string) (*materialsClassification, error) {
	table, err := parseInput(text, MaterialColumns)
	if err != nil {
		return nil, err
	}

	cl := &materialsClassification{total: len(table.Rows), invalid: []RowError{}}
	var cands []candidate[Material]
	for i, row := range table.Rows {
		m, errs := s.validator.ValidateMaterial(row)
		if len(errs) > 0 {
			cl.invalid = append(cl.invalid, RowError{Row: displayRow(i), Errors: errorStrings(errs), Data: row})
			continue
		}
		cands = append(cands, candidate[Material]{row: displayRow(i), source: row, record: m})
	}

	cl.valid, cl.duplicates, err = resolveDuplicates(ctx, s.store, materialResolver{}, cands, s.opts.LookupConcurrency)
	if err != nil {
		return nil, err
	}
	return cl, nil
}

func (cl *materialsClassification) summary() ImportSummary {
	return ImportSummary{
		Total:      cl.total,
		Valid:      len(cl.valid),
		Errors:     len(cl.invalid),
		Duplicates: len(cl.duplicates),
	}
}

func materialDuplicates(cands []candidate[Material]) []MaterialDuplicate {
	out := make([]MaterialDuplicate, 0, len(cands))
	for _, c := range cands {
		out = append(out, MaterialDuplicate{Row: c.row, Data: c.record, Existing: *c.existing})
	}
	return out
}
