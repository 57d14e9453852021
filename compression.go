package tabsql

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/nao1215/tabsql/domain/model"
)

// compressionHandler wraps readers with the decompressor of one compression type
type compressionHandler struct {
	compressionType model.CompressionType
}

// newCompressionHandler creates a new compression handler for the given compression type
func newCompressionHandler(compressionType model.CompressionType) *compressionHandler {
	return &compressionHandler{compressionType: compressionType}
}

// createReader creates a decompression reader based on the compression type.
// The returned cleanup function releases the decompressor, not reader.
func (h *compressionHandler) createReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case model.CompressionNone:
		return reader, func() error { return nil }, nil

	case model.CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case model.CompressionBZ2:
		// bzip2.NewReader doesn't need closing
		return bzip2.NewReader(reader), func() error { return nil }, nil

	case model.CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		// xz.Reader doesn't have a Close method
		return xzReader, func() error { return nil }, nil

	case model.CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type for reading: %v", h.compressionType)
	}
}

// readAllDecompressed decompresses reader fully into memory.
// When limit is positive, content larger than limit bytes fails with ErrFileTooLarge.
func readAllDecompressed(reader io.Reader, compressionType model.CompressionType, limit int64) (data []byte, err error) {
	decompressed, cleanup, err := newCompressionHandler(compressionType).createReader(reader)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := cleanup(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if limit > 0 {
		decompressed = io.LimitReader(decompressed, limit+1)
	}
	data, err = io.ReadAll(decompressed)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s content: %w", compressionType, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}
	return data, nil
}
