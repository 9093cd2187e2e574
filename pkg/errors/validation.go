package errors

import (
	"strings"
	"unicode"
)

// MaxInputBytes bounds the size of a grid accepted from a file or request body.
const MaxInputBytes = 1 << 20

// ValidateInputPath validates the path of a grid input file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "input path cannot be empty")
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

// ValidateInputSize rejects empty inputs and inputs larger than MaxInputBytes.
func ValidateInputSize(data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return New(ErrCodeInvalidInput, "input is empty")
	}
	if len(data) > MaxInputBytes {
		return New(ErrCodeInvalidInput, "input too large (%d bytes, max %d)", len(data), MaxInputBytes)
	}
	return nil
}
