package core

// validation.go provides row-level validation for imported calendar rows.
//
// Validation happens at two levels:
//  1. Header validation: the required columns must all be present before any
//     row is looked at (MissingHeaders).
//  2. Row validation: each cell is checked against the entity's rules and
//     normalized (trimmed, dates to YYYY-MM-DD, enums lower-cased).
//
// Every problem in a row is reported, except that an empty required field
// only gets its "required" error and no format hint.

import (
	"fmt"
	"strings"
)

// Required CSV columns per entity kind.
var (
	MaterialColumns = []string{"school", "date", "grade_level", "title", "link"}
	EventColumns    = []string{"school", "date", "title"}
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Field/column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RowValidator validates rows against the catalog vocabularies.
type RowValidator struct {
	catalog Catalog
}

// NewRowValidator creates a validator for the given catalog.
func NewRowValidator(catalog Catalog) *RowValidator {
	return &RowValidator{catalog: catalog.WithDefaults()}
}

// ValidateMaterial checks a materials row and returns its normalized
// projection. The projection is only meaningful when no errors are returned.
func (v *RowValidator) ValidateMaterial(row Row) (Material, []ValidationError) {
	var (
		m    Material
		errs []ValidationError
	)

	m.School, errs = v.school(row, errs)
	m.Date, errs = requiredDate(row, errs)

	if raw := cell(row, "grade_level"); raw == "" {
		errs = append(errs, requiredError("grade_level"))
	} else if grade, ok := ParseGradeLevel(raw); !ok || !v.catalog.HasGrade(grade) {
		errs = append(errs, ValidationError{
			Field:   "grade_level",
			Value:   raw,
			Message: "must be one of: " + v.catalog.gradeList(),
		})
	} else {
		m.GradeLevel = grade
	}

	m.Title, errs = requiredText(row, "title", errs)
	m.Link, errs = requiredText(row, "link", errs)
	m.Description = cell(row, "description")
	m.Password = cell(row, "password")

	return m, errs
}

// ValidateEvent checks an events row and returns its normalized projection.
func (v *RowValidator) ValidateEvent(row Row) (Event, []ValidationError) {
	var (
		e    Event
		errs []ValidationError
	)

	e.School, errs = v.school(row, errs)
	e.Date, errs = requiredDate(row, errs)
	e.Title, errs = requiredText(row, "title", errs)

	if dept := cell(row, "department"); dept != "" {
		if v.catalog.HasDepartment(dept) {
			e.Department = strings.ToLower(dept)
		} else {
			errs = append(errs, ValidationError{
				Field:   "department",
				Value:   dept,
				Message: "must be one of: " + strings.Join(v.catalog.Departments, ", "),
			})
		}
	}

	e.Time = cell(row, "time")
	e.Description = cell(row, "description")

	return e, errs
}

func (v *RowValidator) school(row Row, errs []ValidationError) (string, []ValidationError) {
	raw := cell(row, "school")
	if raw == "" {
		return "", append(errs, requiredError("school"))
	}
	if !v.catalog.HasSchool(raw) {
		return "", append(errs, ValidationError{
			Field:   "school",
			Value:   raw,
			Message: "must be one of: " + strings.Join(v.catalog.Schools, ", "),
		})
	}
	return strings.ToLower(raw), errs
}

func requiredDate(row Row, errs []ValidationError) (string, []ValidationError) {
	raw := cell(row, "date")
	if raw == "" {
		return "", append(errs, requiredError("date"))
	}
	date, ok := NormalizeDate(raw)
	if !ok {
		return "", append(errs, ValidationError{
			Field:   "date",
			Value:   raw,
			Message: "invalid date format (use YYYY-MM-DD or similar)",
		})
	}
	return date, errs
}

func requiredText(row Row, field string, errs []ValidationError) (string, []ValidationError) {
	val := cell(row, field)
	if val == "" {
		return "", append(errs, requiredError(field))
	}
	return val, errs
}

func requiredError(field string) ValidationError {
	return ValidationError{Field: field, Message: "required field is empty"}
}

// cell returns the trimmed value for field, or "" if the column is absent.
func cell(row Row, field string) string {
	return strings.TrimSpace(row[field])
}

// errorStrings flattens validation errors for reporting.
func errorStrings(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
