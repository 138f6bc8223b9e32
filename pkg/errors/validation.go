package errors

import (
	"strings"
	"unicode"
)

// ValidateSchemaPath validates a corpus-relative schema path for safety.
// Mirror URIs are rewritten to paths under the local corpus root, so the
// relative part must not be able to escape that root.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters or null bytes
//   - No path traversal sequences (.., //) or backslashes
//   - No absolute paths
//   - Maximum length of 512 characters
func ValidateSchemaPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "schema path cannot be empty")
	}

	if len(path) > 512 {
		return New(ErrCodeInvalidPath, "schema path too long (max 512 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "schema path contains control characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "schema path must be relative")
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(path, pattern) {
			return New(ErrCodeInvalidPath, "schema path contains invalid sequence: %q", pattern)
		}
	}

	return nil
}
