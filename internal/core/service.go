package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default import settings.
const (
	DefaultUndoWindow        = 7 * 24 * time.Hour
	DefaultHistoryLimit      = 20
	DefaultLookupConcurrency = 8
)

// Options configures a Service. Zero values fall back to the defaults.
type Options struct {
	Catalog           Catalog
	UndoWindow        time.Duration
	HistoryLimit      int
	LookupConcurrency int
	MaxConcurrent     int
	MaxWait           time.Duration
}

// Service provides the core business logic for calendar imports.
// It holds no state between calls beyond its configuration; everything is
// re-derived from the store.
type Service struct {
	store     Store
	validator *RowValidator
	limiter   *ImportLimiter
	opts      Options

	now   func() time.Time
	newID func() string
}

// NewService creates a new Service backed by store.
func NewService(store Store, opts Options) *Service {
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = DefaultUndoWindow
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = DefaultLookupConcurrency
	}

	return &Service{
		store:     store,
		validator: NewRowValidator(opts.Catalog),
		limiter:   NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		opts:      opts,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// LimiterStatus reports how many commits are running.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight commits finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ImportRequest is one bulk import call.
type ImportRequest struct {
	CSV             string
	Mode            Mode
	DuplicateAction DuplicateAction // events only
	Actor           string
}

// parseInput checks for CSV data and the required headers, then parses it.
func parseInput(text string, required []string) (Table, error) {
	if strings.TrimSpace(text) == "" {
		return Table{}, ErrMissingCSV
	}

	table := ParseTable(text)
	if missing := MissingHeaders(table.Headers, required); len(missing) > 0 {
		return Table{}, fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}
	return table, nil
}

// displayRow converts a parsed-row index into the number users see; the
// header is line 1.
func displayRow(i int) int {
	return i + 2
}

// summaryStats accumulates the distinct schools, grades and date range of
// rows that reached the store.
type summaryStats struct {
	schools map[string]bool
	grades  map[int]bool
	minDate string
	maxDate string
}

func newSummaryStats() *summaryStats {
	return &summaryStats{schools: make(map[string]bool), grades: make(map[int]bool)}
}

func (st *summaryStats) add(school, date string, grade int) {
	st.schools[school] = true
	if grade != 0 {
		st.grades[grade] = true
	}
	// YYYY-MM-DD compares correctly as a string.
	if st.minDate == "" || date < st.minDate {
		st.minDate = date
	}
	if date > st.maxDate {
		st.maxDate = date
	}
}

func (st *summaryStats) summary() BatchSummary {
	sum := BatchSummary{Schools: make([]string, 0, len(st.schools))}
	for school := range st.schools {
		sum.Schools = append(sum.Schools, school)
	}
	slices.Sort(sum.Schools)

	for grade := range st.grades {
		sum.Grades = append(sum.Grades, grade)
	}
	slices.Sort(sum.Grades)

	if st.minDate != "" {
		sum.DateRange = &DateRange{Min: st.minDate, Max: st.maxDate}
	}
	return sum
}
