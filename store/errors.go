package store

import "errors"

// Predefined errors
var (
	// ErrClosed is returned when the store has already been closed
	ErrClosed = errors.New("tabsql store: closed")

	// ErrPrepareContextNotSupported is returned when underlying connection does not support PrepareContext
	ErrPrepareContextNotSupported = errors.New("tabsql store: underlying connection does not support PrepareContext")

	// ErrBeginTxNotSupported is returned when underlying connection does not support BeginTx
	ErrBeginTxNotSupported = errors.New("tabsql store: underlying connection does not support BeginTx")

	// ErrStmtExecContextNotSupported is returned when statement does not support ExecContext
	ErrStmtExecContextNotSupported = errors.New("tabsql store: statement does not support ExecContext")

	// ErrStmtQueryContextNotSupported is returned when statement does not support QueryContext
	ErrStmtQueryContextNotSupported = errors.New("tabsql store: statement does not support QueryContext")
)
