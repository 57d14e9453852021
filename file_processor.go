package tabsql

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// fileProcessor expands configured paths and filesystems into sources
type fileProcessor struct {
	validator *validator
}

// newFileProcessor creates a new file processor instance
func newFileProcessor() *fileProcessor {
	return &fileProcessor{validator: newValidator()}
}

// collectSources validates and collects all files from the given paths and
// filesystems. A path is either a file or a directory whose regular,
// non-hidden entries are collected in name order without descending into
// subdirectories. The same file named twice is collected once.
func (fp *fileProcessor) collectSources(paths []string, filesystems []fs.FS) ([]source, error) {
	var collected []source
	processedFiles := make(map[string]bool)

	add := func(filePath string) error {
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", filePath, err)
		}
		if !processedFiles[absPath] {
			processedFiles[absPath] = true
			collected = append(collected, newSource(filePath))
		}
		return nil
	}

	for _, p := range paths {
		info, err := fp.validator.validatePath(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if err := add(p); err != nil {
				return nil, err
			}
			continue
		}

		files, err := fp.collectFilesFromDirectory(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if err := add(f); err != nil {
				return nil, err
			}
		}
	}

	for _, filesystem := range filesystems {
		if filesystem == nil {
			return nil, errors.New("FS cannot be nil")
		}
		fsSources, err := fp.collectFilesFromFS(filesystem)
		if err != nil {
			return nil, fmt.Errorf("failed to process FS input: %w", err)
		}
		collected = append(collected, fsSources...)
	}

	return collected, nil
}

// collectFilesFromDirectory lists the regular, non-hidden files directly inside dirPath
func (fp *fileProcessor) collectFilesFromDirectory(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	var files []string
	for _, entry := range entries {
		if isHidden(entry.Name()) {
			continue
		}
		filePath := filepath.Join(dirPath, entry.Name())
		// Stat follows symlinks, so a link to a regular file is collected too.
		info, err := os.Stat(filePath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, filePath)
	}
	return files, nil
}

// collectFilesFromFS lists the regular, non-hidden files at the root of filesystem
func (fp *fileProcessor) collectFilesFromFS(filesystem fs.FS) ([]source, error) {
	entries, err := fs.ReadDir(filesystem, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read filesystem: %w", err)
	}

	var sources []source
	for _, entry := range entries {
		if isHidden(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		sources = append(sources, newFSSource(filesystem, path.Clean(entry.Name())))
	}
	return sources, nil
}

// isHidden reports whether a file name is hidden by the Unix dot convention
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
