package errors

import (
	"strings"
	"time"
	"unicode"
)

// ValidateJobCount validates the number of jobs declared by an instance.
// Zero-job instances are rejected because no schedule can be constructed.
func ValidateJobCount(n int) error {
	if n <= 0 {
		return New(ErrCodeInvalidInstance, "number of jobs must be positive, got %d", n)
	}
	return nil
}

// ValidateAlpha validates a GRASP greediness parameter.
// Alpha must lie in (0, 1]; 1 makes every candidate eligible.
func ValidateAlpha(alpha float64) error {
	if alpha <= 0 || alpha > 1 {
		return New(ErrCodeInvalidConfig, "alpha must be in (0, 1], got %g", alpha)
	}
	return nil
}

// ValidateTimeout validates a search time budget. Zero means unlimited.
func ValidateTimeout(d time.Duration) error {
	if d < 0 {
		return New(ErrCodeInvalidConfig, "timeout cannot be negative, got %s", d)
	}
	return nil
}

// ValidateWorkers validates a worker count. Zero selects the default.
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidConfig, "workers cannot be negative, got %d", n)
	}
	const maxWorkers = 1024
	if n > maxWorkers {
		return New(ErrCodeInvalidConfig, "too many workers (max %d), got %d", maxWorkers, n)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
