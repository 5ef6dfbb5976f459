// Package database observes the backend command execution lifecycle: it times,
// classifies, logs, and records every command the data-access layer runs.
package database

import (
	"fmt"
	"strings"
)

// Command verb classifications.
const (
	VerbSelect    = "SELECT"
	VerbInsert    = "INSERT"
	VerbUpdate    = "UPDATE"
	VerbDelete    = "DELETE"
	VerbProcedure = "PROCEDURE"
	VerbOther     = "Other"
	VerbUnknown   = "Unknown"
)

const (
	// maxLoggedTextLength bounds command text in log output; classification
	// always sees the full text.
	maxLoggedTextLength = 1000
	truncationMarker    = "... [truncated]"

	noParameters    = "No parameters"
	unknownDatabase = "Unknown"
)

// Parameter is one named command parameter.
type Parameter struct {
	Name  string
	Value any
}

// Command describes one backend command execution as supplied by the
// data-access layer.
type Command struct {
	Text       string
	Parameters []Parameter
	Type       string // raw backend command-type tag, e.g. "Text" or "StoredProcedure"
	Database   string
}

// ClassifyCommand inspects the leading keyword of the command text and maps it
// to a verb. Blank text classifies as Unknown, unrecognized keywords as Other.
func ClassifyCommand(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return VerbUnknown
	}

	keyword := strings.ToUpper(strings.Fields(trimmed)[0])
	switch keyword {
	case "SELECT":
		return VerbSelect
	case "INSERT":
		return VerbInsert
	case "UPDATE":
		return VerbUpdate
	case "DELETE":
		return VerbDelete
	case "EXEC", "EXECUTE":
		return VerbProcedure
	default:
		return VerbOther
	}
}

// SanitizeText truncates command text for logging.
func SanitizeText(text string) string {
	if len(text) > maxLoggedTextLength {
		return text[:maxLoggedTextLength] + truncationMarker
	}
	return text
}

// FormatParameters renders parameters as name=value pairs for logging.
// Nil values render as NULL, string values are single-quoted.
func FormatParameters(params []Parameter) string {
	if len(params) == 0 {
		return noParameters
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%s=%s", p.Name, formatValue(p.Value)))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return fmt.Sprintf("%v", v)
}
