package utils

import (
	"bytes"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
)

// FileReader reads source files with caching and writes generated output
type FileReader struct {
	fileSet      *token.FileSet
	contentCache *FileCache[[]byte]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		fileSet:      token.NewFileSet(),
		contentCache: NewFileCache[[]byte](),
	}
}

// ReadFile reads a file and caches its contents until it changes on disk
func (fr *FileReader) ReadFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	if cached, ok := fr.contentCache.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	_ = fr.contentCache.Put(cleanPath, content)
	return content, nil
}

// PackageName parses only the package clause of a Go file
func (fr *FileReader) PackageName(path string) (string, error) {
	content, err := fr.ReadFile(path)
	if err != nil {
		return "", err
	}
	file, err := parser.ParseFile(fr.fileSet, path, content, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("failed to parse package clause of %s: %w", filepath.Base(path), err)
	}
	return file.Name.Name, nil
}

// WriteFileIfChanged writes content unless the file already holds exactly
// that content. It reports whether a write happened.
func (fr *FileReader) WriteFileIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write file %s: %w", filepath.Base(path), err)
	}
	fr.contentCache.Invalidate(filepath.Clean(path))
	return true, nil
}

// RemoveFile deletes a file, treating a missing file as success
func (fr *FileReader) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file %s: %w", filepath.Base(path), err)
	}
	fr.contentCache.Invalidate(filepath.Clean(path))
	return nil
}
