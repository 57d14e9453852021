package tabsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nao1215/tabsql/domain/model"
	"github.com/nao1215/tabsql/store"
)

// Result is the outcome of a query: column names and rows of scalar values.
// Values are int64, float64, string or nil.
type Result = model.ResultSet

// Database is an in-memory relational store filled from tabular files.
// Each loaded file becomes one table named after its sanitized file stem.
// A Database is not safe for concurrent use.
type Database struct {
	store     store.Store
	logger    *slog.Logger
	loader    *fileLoader
	processor *fileProcessor
	ids       identifierSanitizer
	// bestEffort keeps loading other files when one fails.
	bestEffort bool

	// tables lists table names in creation order.
	tables []string
	// relations maps lower-cased table names to what was created.
	relations map[string]*model.Relation
	failures  []*IngestError
	closed    bool
}

// plannedTable is a table that has been read, typed and named but not created yet.
type plannedTable struct {
	relation *model.Relation
	rows     []model.Row
}

func newDatabase(st store.Store, cfg *config) *Database {
	return &Database{
		store:  st,
		logger: cfg.logger,
		loader: &fileLoader{
			logger:      cfg.logger,
			sampleLines: cfg.sampleLines,
			maxFileSize: cfg.maxFileSize,
		},
		processor:  newFileProcessor(),
		ids:        newIdentifierSanitizer(cfg.transliterator),
		bestEffort: cfg.bestEffort,
		relations:  make(map[string]*model.Relation),
	}
}

// Load adds files and directories to the database with the same rules as Open.
// Table names must not collide with tables that are already loaded.
func (db *Database) Load(ctx context.Context, paths ...string) error {
	if db.closed {
		return ErrClosed
	}
	sources, err := db.processor.collectSources(paths, nil)
	if err != nil {
		return err
	}
	return db.ingest(ctx, sources)
}

// ingest plans every source and then creates the planned tables.
// Nothing is created when planning fails.
func (db *Database) ingest(ctx context.Context, sources []source) error {
	plan, err := db.plan(ctx, sources)
	if err != nil {
		return err
	}

	var created []*model.Relation
	for _, p := range plan {
		if err := ctx.Err(); err != nil {
			db.rollback(created)
			return err
		}

		if err := db.materialize(ctx, p.relation, p.rows); err != nil {
			if !db.bestEffort {
				db.rollback(created)
				return &IngestError{Path: p.relation.Source, Table: p.relation.Name, Err: err}
			}
			db.fail(&IngestError{Path: p.relation.Source, Table: p.relation.Name, Err: err})
			continue
		}
		created = append(created, p.relation)
	}

	for _, rel := range created {
		db.tables = append(db.tables, rel.Name)
		db.relations[strings.ToLower(rel.Name)] = rel
	}
	return nil
}

// plan reads every source and derives its relations. Table name collisions,
// within the batch, with loaded tables or with tables created by queries,
// are fatal in every mode.
func (db *Database) plan(ctx context.Context, sources []source) ([]plannedTable, error) {
	var plan []plannedTable
	planned := make(map[string]*model.Relation)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	names, err := db.store.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	inStore := make(map[string]bool, len(names))
	for _, name := range names {
		inStore[strings.ToLower(name)] = true
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tables, err := db.loader.load(ctx, src)
		if err != nil {
			if err := db.skipOrFail(&IngestError{Path: src.path, Err: err}); err != nil {
				return nil, err
			}
			continue
		}

		var fromSource []plannedTable
		var buildErr *IngestError
		for _, table := range tables {
			rel, err := buildRelation(table, db.ids)
			if err != nil {
				buildErr = &IngestError{Path: src.path, Table: table.Name(), Err: err}
				break
			}
			fromSource = append(fromSource, plannedTable{relation: rel, rows: table.Rows()})
		}
		if buildErr != nil {
			if err := db.skipOrFail(buildErr); err != nil {
				return nil, err
			}
			continue
		}

		for _, p := range fromSource {
			key := strings.ToLower(p.relation.Name)
			other, exists := planned[key]
			if !exists {
				other, exists = db.relations[key]
			}
			if exists {
				return nil, &IngestError{
					Path:  src.path,
					Table: p.relation.Name,
					Err:   fmt.Errorf("%w: %s is also loaded from %s", ErrDuplicateTable, p.relation.Name, other.Source),
				}
			}
			if inStore[key] {
				return nil, &IngestError{
					Path:  src.path,
					Table: p.relation.Name,
					Err:   fmt.Errorf("%w: %s already exists", ErrDuplicateTable, p.relation.Name),
				}
			}
			planned[key] = p.relation
			plan = append(plan, p)
		}
	}
	return plan, nil
}

// skipOrFail records err in best-effort mode and returns it otherwise.
func (db *Database) skipOrFail(err *IngestError) error {
	if !db.bestEffort {
		return err
	}
	db.fail(err)
	return nil
}

func (db *Database) fail(err *IngestError) {
	db.logger.Warn("skipping file", "path", err.Path, "table", err.Table, "error", err.Err.Error())
	db.failures = append(db.failures, err)
}

// materialize creates the relation and inserts its rows in one batch.
// A relation whose rows could not be inserted is dropped again.
func (db *Database) materialize(ctx context.Context, rel *model.Relation, rows []model.Row) error {
	db.logger.Debug("creating table", "table", rel.Name, "statement", rel.CreateStatement)
	if err := db.store.CreateRelation(ctx, rel); err != nil {
		return &RelationError{Table: rel.Name, Statement: rel.CreateStatement, Err: err}
	}

	db.logger.Debug("inserting rows", "table", rel.Name, "statement", rel.InsertStatement, "rows", len(rows))
	if err := db.store.InsertRows(ctx, rel, rows); err != nil {
		db.rollback([]*model.Relation{rel})
		return fmt.Errorf("failed to insert rows into %s: %w", rel.Name, err)
	}

	db.logger.Info("table loaded", "table", rel.Name, "path", rel.Source, "rows", len(rows))
	return nil
}

// rollback drops tables created by a batch that did not complete.
func (db *Database) rollback(created []*model.Relation) {
	for _, rel := range created {
		if err := db.store.DropRelation(context.Background(), rel.Name); err != nil {
			db.logger.Warn("failed to drop table", "table", rel.Name, "error", err.Error())
		}
	}
}

// Query runs query against the loaded tables and returns every row.
// The query is passed to the engine unchanged; a rejected query returns a
// *QueryError and is never retried.
func (db *Database) Query(ctx context.Context, query string) (*Result, error) {
	if db.closed {
		return nil, ErrClosed
	}

	db.logger.Debug("running query", "query", query)
	res, err := db.store.Execute(ctx, query)
	if err != nil {
		return nil, &QueryError{Query: query, Err: err}
	}
	return res, nil
}

// Tables returns the names of the loaded tables in creation order.
func (db *Database) Tables() []string {
	out := make([]string, len(db.tables))
	copy(out, db.tables)
	return out
}

// Source returns the path of the file a table was loaded from.
func (db *Database) Source(table string) (string, bool) {
	rel, ok := db.relations[strings.ToLower(table)]
	if !ok {
		return "", false
	}
	return rel.Source, true
}

// Columns returns the columns of a table with their inferred types.
func (db *Database) Columns(table string) ([]model.Column, bool) {
	rel, ok := db.relations[strings.ToLower(table)]
	if !ok {
		return nil, false
	}
	out := make([]model.Column, len(rel.Columns))
	copy(out, rel.Columns)
	return out, true
}

// Failures returns the files skipped in best-effort mode.
func (db *Database) Failures() []*IngestError {
	out := make([]*IngestError, len(db.failures))
	copy(out, db.failures)
	return out
}

// Close releases the engine. Later operations return ErrClosed.
func (db *Database) Close() error {
	if db.closed {
		return ErrClosed
	}
	db.closed = true
	if err := db.store.Close(); err != nil && !errors.Is(err, store.ErrClosed) {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
