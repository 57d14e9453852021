package tabsql

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// MaxColumnCount defines the maximum number of columns allowed in a table.
// It matches SQLite's default SQLITE_MAX_COLUMN.
const MaxColumnCount = 2000

var (
	// ErrFileTooLarge is returned when a file exceeds the configured size limit
	ErrFileTooLarge = errors.New("tabsql: file too large")

	// ErrTooManyColumns is returned when a file has too many columns
	ErrTooManyColumns = errors.New("tabsql: too many columns")

	// ErrInvalidPath is returned when a path is empty or malformed
	ErrInvalidPath = errors.New("tabsql: invalid path")
)

// validator handles validation logic for DBBuilder
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validatePath validates a single file or directory path and returns what it points to
func (v *validator) validatePath(path string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}
	if strings.Contains(path, "\x00") {
		return nil, fmt.Errorf("%w: path contains a null byte", ErrInvalidPath)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	return info, nil
}

// validateColumnCount rejects tables wider than the engine accepts
func validateColumnCount(n int) error {
	if n > MaxColumnCount {
		return fmt.Errorf("%w: %d columns, limit is %d", ErrTooManyColumns, n, MaxColumnCount)
	}
	return nil
}
