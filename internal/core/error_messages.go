// Package core provides the business logic for calendar bulk imports.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
//	IMP001 - No CSV data: the request carried no CSV text
//	IMP002 - Missing column: a required header is absent
//	IMP003 - Invalid mode: mode was not preview or commit
//	IMP004 - Invalid duplicate action: not skip, replace or importAll
//	IMP005 - System busy: too many commits in progress
//
//	BAT001 - Batch not found: unknown, already undone, or past the undo window
//
//	DB001 - Duplicate key: a unique constraint rejected a row
//	DB004 - Connection refused: unable to reach the database
//	DB005 - Connection reset: the database connection dropped
//	DB006 - Timeout: a statement timed out
//
//	FILE001 - File too large: the request body exceeds the configured limit
//	FILE004 - No file: a multipart request had no file field
//
//	REQ001 - Request cancelled
//	REQ002 - Request timeout
//
//	ERR000 - Unknown error: check application logs for the technical error
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are listed
// before general ones.
package core

import "strings"

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Import input errors
	{
		pattern: "no csv data",
		msg: UserMessage{
			Message: "No CSV data was provided",
			Action:  "Upload a CSV file or paste CSV text",
			Code:    "IMP001",
		},
	},
	{
		pattern: "missing required columns",
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Check that all required columns are present in the header row",
			Code:    "IMP002",
		},
	},
	{
		pattern: "invalid mode",
		msg: UserMessage{
			Message: "Unknown import mode",
			Action:  "Use mode=preview or mode=commit",
			Code:    "IMP003",
		},
	},
	{
		pattern: "invalid duplicate action",
		msg: UserMessage{
			Message: "Unknown duplicate action",
			Action:  "Use skip, replace or importAll",
			Code:    "IMP004",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP005",
		},
	},

	// Batch errors
	{
		pattern: "batch not found",
		msg: UserMessage{
			Message: "Import batch not found or too old to undo",
			Action:  "Only completed imports from the last 7 days can be undone",
			Code:    "BAT001",
		},
	},

	// Database errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Review the rows reported as failed",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Review the rows reported as failed",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},

	// Request errors (before the generic "timeout" pattern)
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try importing a smaller file or try again later",
			Code:    "DB006",
		},
	},

	// File errors
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE004",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
