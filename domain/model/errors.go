package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateColumnName is returned when two columns of one table share a name
	ErrDuplicateColumnName = errors.New("duplicate column name")

	// ErrInvalidRow is returned when row values do not match the schema
	ErrInvalidRow = errors.New("row does not match schema")
)

// duplicateColumnError names the offending column and matches ErrDuplicateColumnName.
type duplicateColumnError struct {
	name string
}

func (e *duplicateColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateColumnName, e.name)
}

func (e *duplicateColumnError) Unwrap() error {
	return ErrDuplicateColumnName
}
