package core

// error_messages.go maps technical errors to user-facing messages with codes.
//
// When users encounter errors, they can quote the error code to support
// staff for faster diagnosis. Codes are grouped by category:
//
//	DB001-DB007   database constraints and connectivity
//	REC001-REC003 record lookups and natural key conflicts
//	VAL001-VAL003 field validation
//	FILE001-FILE004 uploaded import files
//	REQ001-REQ002 request cancellation and timeouts
//	AUTH001-AUTH002 actor and API key checks
//	ERR000        fallback; check the application log for the original error
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Database constraints
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this code already exists",
			Action:  "Use a different code or edit the existing record",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Review your data for duplicate codes",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Create the referenced country, region, port or vendor first",
			Code:    "DB003",
		},
	},

	// Database connectivity
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
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try importing a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// Records
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "A record with this code already exists",
			Action:  "Use a different code or edit the existing record",
			Code:    "REC001",
		},
	},
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "Record not found",
			Action:  "It may have been deleted. Refresh the list and try again",
			Code:    "REC002",
		},
	},
	{
		pattern: "unknown entity",
		msg: UserMessage{
			Message: "Unknown record type",
			Action:  "Check the entity name in the URL",
			Code:    "REC003",
		},
	},

	// Validation
	{
		pattern: "must be exactly",
		msg: UserMessage{
			Message: "A code has the wrong length",
			Action:  "Port codes are exactly 5 characters, e.g. DEHAM",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a JSON object with the documented fields",
			Code:    "VAL002",
		},
	},
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Fill in every required field",
			Code:    "VAL003",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum import size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Save the sheet as comma-separated values and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file has no rows",
			Action:  "Download the template and fill in at least one row",
			Code:    "FILE004",
		},
	},
	{
		pattern: "too many rows",
		msg: UserMessage{
			Message: "The file has more rows than one import accepts",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},

	// Requests
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

	// Auth
	{
		pattern: "acting user",
		msg: UserMessage{
			Message: "The acting user is missing or malformed",
			Action:  "Sign in again; the gateway must send X-User-ID",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "api key",
		msg: UserMessage{
			Message: "Missing or invalid API key",
			Action:  "Provide a valid X-API-Key header",
			Code:    "AUTH002",
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
// It returns the first matching pattern, or the ERR000 fallback.
//
// Example:
//
//	err := errors.New("port code \"DEHAM\": already exists")
//	msg := MapError(err)
//	// msg.Code == "REC001"
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a specific pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
