package errors

import (
	"regexp"
	"unicode"
)

// maxLineLength bounds a single brick line. Real inputs are well under 40 bytes.
const maxLineLength = 256

// ValidateLine performs cheap safety checks on one raw input line before it is
// tokenized. It rejects control characters and absurdly long lines so that
// parse errors can quote the offending text without flooding the terminal.
//
// Structural checks (token counts, integer coordinates) belong to the brick
// parser; this only guards the raw text.
func ValidateLine(line string) error {
	if line == "" {
		return New(ErrCodeInvalidInput, "line cannot be empty")
	}

	if len(line) > maxLineLength {
		return New(ErrCodeInvalidInput, "line too long (max %d characters)", maxLineLength)
	}

	for _, r := range line {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidInput, "line contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates an input or output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// reportIDRegex matches the canonical textual form of a UUID.
var reportIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateReportID validates a stored report identifier received from a client.
// Identifiers are lower-case UUIDs as issued by the report builder; anything
// else, including the upper-case form, is rejected before it reaches a storage
// backend, which matches ids byte for byte.
func ValidateReportID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "report id cannot be empty")
	}
	if !reportIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid report id: %q", id)
	}
	return nil
}
