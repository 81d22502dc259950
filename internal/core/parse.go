package core

// parse.go turns pasted or uploaded CSV text into header-keyed rows.
//
// The format is deliberately forgiving: a double quote toggles quoted mode,
// commas split fields only outside quotes, and there is no escaped-quote
// syntax. Malformed quoting never fails the import; it just produces odd
// field values that row validation then reports.

import "strings"

// Row maps a lower-cased header name to its raw cell value.
type Row map[string]string

// Table is parsed CSV text. Rows[i] is displayed to users as row i+2.
type Table struct {
	Headers []string
	Rows    []Row
}

// ParseTable splits text into a header line and data rows. Blank and
// whitespace-only lines are dropped everywhere, so row numbers count only
// non-blank lines.
func ParseTable(text string) Table {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return Table{}
	}

	rawHeaders := splitLine(lines[0])
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitLine(line)
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = strings.TrimSpace(fields[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return Table{Headers: headers, Rows: rows}
}

// splitLine splits one line on commas that are outside double quotes.
// Quote characters themselves are not kept.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())

	return fields
}

// MissingHeaders returns the required columns not present in headers.
func MissingHeaders(headers []string, required []string) []string {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}

	var missing []string
	for _, col := range required {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
