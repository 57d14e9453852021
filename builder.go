package tabsql

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/nao1215/tabsql/store"
)

// config holds the settings a Database is opened with.
type config struct {
	logger         *slog.Logger
	transliterator Transliterator
	sampleLines    int
	maxFileSize    int64
	bestEffort     bool
}

// DBBuilder is a builder for creating a Database from files, directories and
// filesystems. Use NewBuilder to create a new instance, then chain method
// calls to configure it.
//
// The typical usage pattern is:
//
//	builder := tabsql.NewBuilder().AddPath("data.csv").AddFS(embeddedFS)
//	validatedBuilder, err := builder.Build(ctx)
//	if err != nil {
//		return err
//	}
//	db, err := validatedBuilder.Open(ctx)
//	if err != nil {
//		return err
//	}
//	defer db.Close()
type DBBuilder struct {
	// paths contains regular file and directory paths
	paths []string
	// filesystems contains fs.FS instances
	filesystems []fs.FS
	// sources contains all files after Build validation
	sources []source
	// built is set by a successful Build
	built bool
	cfg   config
}

// NewBuilder creates a new database builder.
func NewBuilder() *DBBuilder {
	return &DBBuilder{
		paths:       make([]string, 0),
		filesystems: make([]fs.FS, 0),
		cfg: config{
			logger:      slog.New(slog.DiscardHandler),
			sampleLines: DefaultSampleLines,
		},
	}
}

// AddPath adds a regular file or directory path to the builder.
// Every regular, non-hidden file directly inside a directory becomes a table;
// subdirectories are not descended into.
//
// Delimited text of any extension is accepted: the delimiter is detected from
// the content, and .csv, .tsv and .psv only decide which delimiter is tried
// first. .xlsx and .parquet files are read by format. Any of them may be
// compressed with .gz, .bz2, .xz or .zst.
//
// Returns the builder for method chaining.
func (b *DBBuilder) AddPath(path string) *DBBuilder {
	b.paths = append(b.paths, path)
	return b
}

// AddPaths adds multiple regular file or directory paths to the builder.
// Returns the builder for method chaining.
func (b *DBBuilder) AddPaths(paths ...string) *DBBuilder {
	b.paths = append(b.paths, paths...)
	return b
}

// AddFS adds the files at the root of filesystem to the builder, following
// the same rules as a directory added with AddPath. This is useful for
// embedded filesystems:
//
//	//go:embed data/*.csv
//	var dataFS embed.FS
//
//	subFS, _ := fs.Sub(dataFS, "data")
//	builder := tabsql.NewBuilder().AddFS(subFS)
//
// Returns the builder for method chaining.
func (b *DBBuilder) AddFS(filesystem fs.FS) *DBBuilder {
	b.filesystems = append(b.filesystems, filesystem)
	return b
}

// EnableBestEffort keeps loading the remaining files when one cannot be read,
// typed or created. Failures are logged and reported by Database.Failures.
// Duplicate table names still abort loading.
// Returns the builder for method chaining.
func (b *DBBuilder) EnableBestEffort() *DBBuilder {
	b.cfg.bestEffort = true
	return b
}

// SetSampleLines sets how many lines are inspected to detect the dialect of
// delimited text. Values below one select DefaultSampleLines.
// Returns the builder for method chaining.
func (b *DBBuilder) SetSampleLines(n int) *DBBuilder {
	if n < 1 {
		n = DefaultSampleLines
	}
	b.cfg.sampleLines = n
	return b
}

// SetMaxFileSize limits the decompressed size of each file in bytes.
// Zero means no limit. Returns the builder for method chaining.
func (b *DBBuilder) SetMaxFileSize(size int64) *DBBuilder {
	b.cfg.maxFileSize = size
	return b
}

// SetLogger sets the logger. By default nothing is logged.
// Returns the builder for method chaining.
func (b *DBBuilder) SetLogger(logger *slog.Logger) *DBBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b.cfg.logger = logger
	return b
}

// SetTransliterator replaces the function that maps non-ASCII text in file
// stems and column names to ASCII. Returns the builder for method chaining.
func (b *DBBuilder) SetTransliterator(t Transliterator) *DBBuilder {
	b.cfg.transliterator = t
	return b
}

// Build validates all configured inputs and collects the files to load.
// This method must be called before Open. A builder without inputs is valid
// and opens an empty Database.
//
// Returns the same builder instance for method chaining, or an error if validation fails.
func (b *DBBuilder) Build(ctx context.Context) (*DBBuilder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.cfg.maxFileSize < 0 {
		return nil, fmt.Errorf("max file size must not be negative: %d", b.cfg.maxFileSize)
	}

	sources, err := newFileProcessor().collectSources(b.paths, b.filesystems)
	if err != nil {
		return nil, err
	}
	b.sources = sources
	b.built = true
	return b, nil
}

// Open creates an in-memory database and loads every collected file as a table.
// All files are read and named before any table is created, so a duplicate
// table name leaves nothing behind.
//
// Table names are derived from file names without extensions:
// - "users.csv" becomes table "users"
// - "data.tsv.gz" becomes table "data"
func (b *DBBuilder) Open(ctx context.Context) (*Database, error) {
	if !b.built {
		return nil, errors.New("builder is not validated, did you call Build()?")
	}

	st, err := store.NewSQLite()
	if err != nil {
		return nil, err
	}

	db := newDatabase(st, &b.cfg)
	if err := db.ingest(ctx, b.sources); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, errors.Join(err, closeErr)
		}
		return nil, err
	}
	return db, nil
}
