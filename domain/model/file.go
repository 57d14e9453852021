package model

import (
	"path/filepath"
	"strings"
)

// FileType represents how a file's cells are laid out.
type FileType int

const (
	// FileTypeDelimited is delimited text whose dialect is detected from its content
	FileTypeDelimited FileType = iota
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
)

// File extensions
const (
	// ExtCSV is the CSV file extension
	ExtCSV = ".csv"
	// ExtTSV is the TSV file extension
	ExtTSV = ".tsv"
	// ExtPSV is the pipe-separated file extension
	ExtPSV = ".psv"
	// ExtXLSX is the Excel XLSX file extension
	ExtXLSX = ".xlsx"
	// ExtParquet is the Parquet file extension
	ExtParquet = ".parquet"
	// ExtGZ is the gzip compression extension
	ExtGZ = ".gz"
	// ExtBZ2 is the bzip2 compression extension
	ExtBZ2 = ".bz2"
	// ExtXZ is the xz compression extension
	ExtXZ = ".xz"
	// ExtZSTD is the zstd compression extension
	ExtZSTD = ".zst"
)

// CompressionType represents the compression wrapped around a file
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return ExtGZ
	case CompressionBZ2:
		return ExtBZ2
	case CompressionXZ:
		return ExtXZ
	case CompressionZSTD:
		return ExtZSTD
	default:
		return ""
	}
}

// File describes one input file by its path.
type File struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// NewFile creates a new File, classifying it by extension.
func NewFile(path string) *File {
	compression := DetectCompression(path)
	base := strings.ToLower(path[:len(path)-len(compression.Extension())])

	fileType := FileTypeDelimited
	switch filepath.Ext(base) {
	case ExtXLSX:
		fileType = FileTypeXLSX
	case ExtParquet:
		fileType = FileTypeParquet
	}

	return &File{
		path:        path,
		fileType:    fileType,
		compression: compression,
	}
}

// Path returns file path
func (f *File) Path() string {
	return f.path
}

// Type returns file type
func (f *File) Type() FileType {
	return f.fileType
}

// Compression returns the compression the file is wrapped in.
func (f *File) Compression() CompressionType {
	return f.compression
}

// TableName returns the table name derived from the file stem.
func (f *File) TableName() string {
	return TableFromFilePath(f.path)
}

// PreferredDelimiter returns the delimiter suggested by the extension,
// or zero when the extension says nothing about it.
func (f *File) PreferredDelimiter() rune {
	base := strings.ToLower(f.path[:len(f.path)-len(f.compression.Extension())])
	switch filepath.Ext(base) {
	case ExtCSV:
		return ','
	case ExtTSV:
		return '\t'
	case ExtPSV:
		return '|'
	default:
		return 0
	}
}

// DetectCompression detects the compression type from a file path
func DetectCompression(path string) CompressionType {
	path = strings.ToLower(path)

	switch {
	case strings.HasSuffix(path, ExtGZ):
		return CompressionGZ
	case strings.HasSuffix(path, ExtBZ2):
		return CompressionBZ2
	case strings.HasSuffix(path, ExtXZ):
		return CompressionXZ
	case strings.HasSuffix(path, ExtZSTD):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}
