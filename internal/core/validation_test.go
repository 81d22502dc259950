package core

import (
	"strings"
	"testing"
)

func TestValidateMaterial(t *testing.T) {
	v := NewRowValidator(DefaultCatalog())

	tests := []struct {
		name       string
		row        Row
		wantErrors []string
		want       Material
	}{
		{
			name: "valid row normalized",
			row: Row{
				"school": "WLHS", "date": "9/1/2025", "grade_level": "10",
				"title": "Algebra Packet", "link": "https://x/y", "password": "pw",
			},
			want: Material{
				School: "wlhs", Date: "2025-09-01", GradeLevel: 10,
				Title: "Algebra Packet", Link: "https://x/y", Password: "pw",
			},
		},
		{
			name:       "empty required fields only report required",
			row:        Row{"school": "", "date": "", "grade_level": "", "title": "", "link": ""},
			wantErrors: []string{"school", "date", "grade_level", "title", "link"},
		},
		{
			name: "bad values all collected",
			row: Row{
				"school": "tx", "date": "someday", "grade_level": "13",
				"title": "Packet", "link": "https://x/y",
			},
			wantErrors: []string{"school", "date", "grade_level"},
		},
		{
			name: "date without year",
			row: Row{
				"school": "wlhs", "date": "9/1", "grade_level": "10",
				"title": "Packet", "link": "https://x/y",
			},
			wantErrors: []string{"date"},
		},
		{
			name: "date as bare number",
			row: Row{
				"school": "wlhs", "date": "1756684800", "grade_level": "10",
				"title": "Packet", "link": "https://x/y",
			},
			wantErrors: []string{"date"},
		},
		{
			name: "non-numeric grade",
			row: Row{
				"school": "wvhs", "date": "2025-09-01", "grade_level": "tenth",
				"title": "Packet", "link": "https://x/y",
			},
			wantErrors: []string{"grade_level"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := v.ValidateMaterial(tt.row)

			if len(errs) != len(tt.wantErrors) {
				t.Fatalf("got %d errors %v, want fields %v", len(errs), errs, tt.wantErrors)
			}
			for i, field := range tt.wantErrors {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
			if len(tt.wantErrors) == 0 && got != tt.want {
				t.Errorf("ValidateMaterial() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateMaterial_Messages(t *testing.T) {
	v := NewRowValidator(DefaultCatalog())

	_, errs := v.ValidateMaterial(Row{
		"school": "tx", "date": "", "grade_level": "8", "title": "T", "link": "L",
	})

	got := errorStrings(errs)
	want := []string{
		"school: must be one of: wlhs, wvhs",
		"date: required field is empty",
		"grade_level: must be one of: 9, 10, 11, 12",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("errors = %q, want %q", got, want)
	}
}

func TestValidateEvent(t *testing.T) {
	v := NewRowValidator(DefaultCatalog())

	tests := []struct {
		name       string
		row        Row
		wantErrors []string
		want       Event
	}{
		{
			name: "minimal row",
			row:  Row{"school": "wvhs", "date": "2025-10-31", "title": "Halloween Dance"},
			want: Event{School: "wvhs", Date: "2025-10-31", Title: "Halloween Dance"},
		},
		{
			name: "optional fields normalized",
			row: Row{
				"school": "wlhs", "date": "Oct 3, 2025", "title": "Homecoming",
				"department": "Athletics", "time": "7:00 PM", "description": "Home game",
			},
			want: Event{
				School: "wlhs", Date: "2025-10-03", Title: "Homecoming",
				Department: "athletics", Time: "7:00 PM", Description: "Home game",
			},
		},
		{
			name:       "unknown school",
			row:        Row{"school": "tx", "date": "2025-10-31", "title": "Rodeo"},
			wantErrors: []string{"school"},
		},
		{
			name:       "unknown department",
			row:        Row{"school": "wlhs", "date": "2025-10-31", "title": "Rodeo", "department": "rodeo"},
			wantErrors: []string{"department"},
		},
		{
			name:       "missing title and bad date",
			row:        Row{"school": "wlhs", "date": "13/45/2025", "title": ""},
			wantErrors: []string{"date", "title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := v.ValidateEvent(tt.row)

			if len(errs) != len(tt.wantErrors) {
				t.Fatalf("got %d errors %v, want fields %v", len(errs), errs, tt.wantErrors)
			}
			for i, field := range tt.wantErrors {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
			if len(tt.wantErrors) == 0 && got != tt.want {
				t.Errorf("ValidateEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateEvent_CustomCatalog(t *testing.T) {
	v := NewRowValidator(Catalog{Schools: []string{"TX"}})

	e, errs := v.ValidateEvent(Row{"school": "tx", "date": "2025-09-01", "title": "Rodeo", "department": "math"})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if e.School != "tx" {
		t.Errorf("School = %q, want tx", e.School)
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		err  ValidationError
		want string
	}{
		{ValidationError{Field: "school", Message: "required field is empty"}, "school: required field is empty"},
		{ValidationError{Message: "bad row"}, "bad row"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
