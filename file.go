package tabsql

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/nao1215/tabsql/domain/model"
)

// source is one file to load, either from the OS filesystem or from an fs.FS.
type source struct {
	// fsys is nil for files on the OS filesystem.
	fsys fs.FS
	path string
	file *model.File
}

// newSource creates a source for a file on the OS filesystem.
func newSource(path string) source {
	return source{path: path, file: model.NewFile(path)}
}

// newFSSource creates a source for a file inside fsys.
func newFSSource(fsys fs.FS, path string) source {
	return source{fsys: fsys, path: path, file: model.NewFile(path)}
}

func (s source) open() (io.ReadCloser, error) {
	if s.fsys != nil {
		return s.fsys.Open(s.path)
	}
	return os.Open(s.path) //nolint:gosec // User-provided path is necessary for file operations
}

// readContent returns the decompressed content of the file.
func (s source) readContent(limit int64) (data []byte, err error) {
	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return readAllDecompressed(f, s.file.Compression(), limit)
}

// fileLoader turns one source into typed tables.
type fileLoader struct {
	logger      *slog.Logger
	sampleLines int
	maxFileSize int64
}

// load reads src and infers a table for each of its tabular parts.
// Delimited and Parquet files yield one table; workbooks yield one per sheet.
func (l *fileLoader) load(ctx context.Context, src source) ([]*model.Table, error) {
	data, err := src.readContent(l.maxFileSize)
	if err != nil {
		return nil, err
	}

	switch src.file.Type() {
	case model.FileTypeXLSX:
		sheets, err := readSpreadsheet(data, src.file.TableName())
		if err != nil {
			return nil, err
		}
		tables := make([]*model.Table, 0, len(sheets))
		for _, sheet := range sheets {
			table, err := model.NewTable(sheet.name, src.path, sheet.header, sheet.records)
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
		}
		return tables, nil

	case model.FileTypeParquet:
		header, records, err := readParquet(ctx, data)
		if err != nil {
			return nil, err
		}
		table, err := model.NewTable(src.file.TableName(), src.path, header, records)
		if err != nil {
			return nil, err
		}
		return []*model.Table{table}, nil

	default:
		delimited, err := readDelimited(data, src.file.PreferredDelimiter(), l.sampleLines)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("dialect detected", "path", src.path, "dialect", delimited.dialect.String())
		if delimited.truncated > 0 {
			l.logger.Warn("rows longer than the header were truncated",
				"path", src.path, "rows", delimited.truncated, "columns", len(delimited.header))
		}
		table, err := model.NewTable(src.file.TableName(), src.path, delimited.header, delimited.records)
		if err != nil {
			return nil, err
		}
		return []*model.Table{table}, nil
	}
}
