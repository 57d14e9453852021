package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"

	"modernc.org/sqlite"

	"github.com/nao1215/tabsql/domain/model"
)

// SQLite is a Store backed by a private in-memory SQLite database.
type SQLite struct {
	conn   driver.Conn
	closed bool
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens a fresh in-memory database.
func NewSQLite() (*SQLite, error) {
	sqliteDriver := &sqlite.Driver{}
	conn, err := sqliteDriver.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// CreateRelation runs the relation's CREATE TABLE statement.
func (s *SQLite) CreateRelation(ctx context.Context, rel *model.Relation) error {
	if s.closed {
		return ErrClosed
	}
	return s.exec(ctx, rel.CreateStatement, nil)
}

// InsertRows inserts rows with the relation's INSERT statement inside one transaction.
// Each value is bound to the named parameter of its column.
func (s *SQLite) InsertRows(ctx context.Context, rel *model.Relation, rows []model.Row) (err error) {
	if s.closed {
		return ErrClosed
	}
	if len(rows) == 0 {
		return nil
	}

	connBeginTx, ok := s.conn.(driver.ConnBeginTx)
	if !ok {
		return ErrBeginTxNotSupported
	}
	tx, err := connBeginTx.BeginTx(ctx, driver.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() // Ignore rollback error since we're already returning an error
		}
	}()

	stmt, err := s.prepare(ctx, rel.InsertStatement)
	if err != nil {
		return err
	}
	defer stmt.Close()

	stmtExecCtx, ok := stmt.(driver.StmtExecContext)
	if !ok {
		return ErrStmtExecContextNotSupported
	}

	args := make([]driver.NamedValue, len(rel.Columns))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, col := range rel.Columns {
			args[i] = driver.NamedValue{
				Name:    col.Name,
				Ordinal: i + 1,
				Value:   row.Value(i),
			}
		}
		if _, err := stmtExecCtx.ExecContext(ctx, args); err != nil {
			return fmt.Errorf("failed to insert row into %s: %w", rel.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DropRelation drops the named table.
func (s *SQLite) DropRelation(ctx context.Context, name string) error {
	if s.closed {
		return ErrClosed
	}
	return s.exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS [%s]", name), nil)
}

// TableNames retrieves all user-defined table names from the database
func (s *SQLite) TableNames(ctx context.Context) ([]string, error) {
	res, err := s.Execute(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if name, ok := row[0].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// querySavepoint brackets every Execute call.
const querySavepoint = "tabsql_query"

// Execute runs query and reads every row it produces.
// Statements that produce no rows return a result without columns.
// query may hold several statements; when any of them fails, the effects of
// the others are rolled back, so a failed query leaves the database unchanged.
// Transaction control statements inside query are not supported.
func (s *SQLite) Execute(ctx context.Context, query string) (*model.ResultSet, error) {
	if s.closed {
		return nil, ErrClosed
	}

	if err := s.exec(ctx, "SAVEPOINT "+querySavepoint, nil); err != nil {
		return nil, fmt.Errorf("failed to open savepoint: %w", err)
	}

	res, err := s.query(ctx, query)
	if err != nil {
		// Roll back even when ctx is already done.
		rollbackErr := s.exec(context.Background(), "ROLLBACK TO "+querySavepoint, nil)
		releaseErr := s.exec(context.Background(), "RELEASE "+querySavepoint, nil)
		return nil, errors.Join(err, rollbackErr, releaseErr)
	}

	if err := s.exec(ctx, "RELEASE "+querySavepoint, nil); err != nil {
		return nil, fmt.Errorf("failed to release savepoint: %w", err)
	}
	return res, nil
}

// query prepares and runs query, then drains its rows.
func (s *SQLite) query(ctx context.Context, query string) (*model.ResultSet, error) {
	stmt, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	stmtQueryCtx, ok := stmt.(driver.StmtQueryContext)
	if !ok {
		return nil, ErrStmtQueryContextNotSupported
	}
	rows, err := stmtQueryCtx.QueryContext(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return readRows(rows)
}

// Close closes the underlying connection.
func (s *SQLite) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.conn.Close()
}

// exec runs a statement that returns no rows.
func (s *SQLite) exec(ctx context.Context, query string, args []driver.NamedValue) error {
	stmt, err := s.prepare(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if stmtExecCtx, ok := stmt.(driver.StmtExecContext); ok {
		_, err := stmtExecCtx.ExecContext(ctx, args)
		return err
	}
	return ErrStmtExecContextNotSupported
}

func (s *SQLite) prepare(ctx context.Context, query string) (driver.Stmt, error) {
	connPrepareCtx, ok := s.conn.(driver.ConnPrepareContext)
	if !ok {
		return nil, ErrPrepareContextNotSupported
	}
	return connPrepareCtx.PrepareContext(ctx, strings.TrimSpace(query))
}

// readRows drains rows into a ResultSet. BLOB values are returned as strings.
func readRows(rows driver.Rows) (*model.ResultSet, error) {
	res := &model.ResultSet{
		Columns: rows.Columns(),
		Rows:    [][]any{},
	}
	if len(res.Columns) == 0 {
		// Drive statements such as UPDATE to completion.
		if err := rows.Next(nil); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return res, nil
	}

	dest := make([]driver.Value, len(res.Columns))
	for {
		err := rows.Next(dest)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		row := make([]any, len(dest))
		for i, v := range dest {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[i] = v
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}
