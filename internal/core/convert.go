package core

// convert.go normalizes raw cell text into the canonical forms stored in the
// calendar tables.
//
// Dates arrive in whatever shape a spreadsheet exported: ISO, US slashes,
// two-digit years, "Sep 1, 2025", timestamps. They are all reduced to a
// plain YYYY-MM-DD calendar date.

import (
	"bytes"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical stored date format.
const DateLayout = "2006-01-02"

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "January 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// MinDateYear is the earliest year a calendar date may carry. Inputs with no
// year parse as year 0 and fall below it.
const MinDateYear = 1900

// NormalizeDate parses s and returns it as YYYY-MM-DD.
// The second return value is false if s is not a recognizable date.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil && t.Year() >= MinDateYear {
			return t.Format(DateLayout), true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t.Format(DateLayout), true
		}
	}

	// A bare number is a typo or a serial, not a date.
	if isDigits(s) {
		return "", false
	}

	// Timestamps and the long tail of spreadsheet formats.
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || t.Year() < MinDateYear {
		return "", false
	}
	return t.Format(DateLayout), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseGradeLevel parses a grade level cell as a plain integer.
func ParseGradeLevel(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeText prepares uploaded bytes for ParseTable: invalid UTF-8 is
// replaced with U+FFFD and a leading byte order mark is removed so the first
// header name matches.
func NormalizeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	return string(sanitizeUTF8(data))
}

func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('\uFFFD')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
