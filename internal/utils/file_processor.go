package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultGeneratedPrefix is the file name prefix of every generated unit
const DefaultGeneratedPrefix = "autogen_delegate_"

// FileProcessor finds package directories and generated units on disk
type FileProcessor struct {
	fileReader      *FileReader
	generatedPrefix string
	exclude         []string
}

// NewFileProcessor creates a processor. Exclude patterns use doublestar
// syntax and are matched against slash paths relative to the scan root.
func NewFileProcessor(generatedPrefix string, exclude []string) *FileProcessor {
	if generatedPrefix == "" {
		generatedPrefix = DefaultGeneratedPrefix
	}
	return &FileProcessor{
		fileReader:      NewFileReader(),
		generatedPrefix: generatedPrefix,
		exclude:         exclude,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// SourceFileFilter accepts hand-written .go files, skipping tests and generated units
func SourceFileFilter(generatedPrefix string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasPrefix(name, generatedPrefix)
	}
}

// GeneratedFileFilter accepts generated units only
func GeneratedFileFilter(generatedPrefix string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		name := info.Name()
		return strings.HasPrefix(name, generatedPrefix) && strings.HasSuffix(name, ".go")
	}
}

// DefaultDirectoryFilter skips directories that never hold package sources
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return false
		}
		return !skipDirs[name]
	}
}

// FileReader returns the reader shared with the rest of the pass
func (fp *FileProcessor) FileReader() *FileReader {
	return fp.fileReader
}

// GeneratedPrefix returns the generated unit file name prefix
func (fp *FileProcessor) GeneratedPrefix() string {
	return fp.generatedPrefix
}

// Excluded reports whether path (below root) matches an exclude pattern
func (fp *FileProcessor) Excluded(root, path string) bool {
	if len(fp.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range fp.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ScanPackageDirs returns root, and with recursive every directory below it,
// that holds at least one hand-written Go source file
func (fp *FileProcessor) ScanPackageDirs(root string, recursive bool) ([]string, error) {
	return fp.scanDirs(root, recursive, fp.HasGoFiles)
}

// ScanGeneratedDirs returns the directories that hold generated units
func (fp *FileProcessor) ScanGeneratedDirs(root string, recursive bool) ([]string, error) {
	return fp.scanDirs(root, recursive, func(dir string) (bool, error) {
		files, err := fp.GeneratedFiles(dir)
		return len(files) > 0, err
	})
}

func (fp *FileProcessor) scanDirs(root string, recursive bool, accept func(dir string) (bool, error)) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	if !recursive {
		ok, err := accept(absRoot)
		if err != nil || !ok {
			return nil, err
		}
		return []string{absRoot}, nil
	}

	var dirs []string
	dirFilter := DefaultDirectoryFilter()
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != absRoot && (!dirFilter(path, d) || fp.Excluded(absRoot, path)) {
			return filepath.SkipDir
		}
		ok, err := accept(path)
		if err != nil {
			return err
		}
		if ok {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return dirs, nil
}

// HasGoFiles checks if a directory contains hand-written, non-excluded Go sources
func (fp *FileProcessor) HasGoFiles(dir string) (bool, error) {
	files, err := fp.list(dir, SourceFileFilter(fp.generatedPrefix))
	return len(files) > 0, err
}

// SourceFiles lists the hand-written Go sources in dir, sorted
func (fp *FileProcessor) SourceFiles(dir string) ([]string, error) {
	return fp.list(dir, SourceFileFilter(fp.generatedPrefix))
}

// IsGenerated reports whether path names a generated unit
func (fp *FileProcessor) IsGenerated(path string) bool {
	name := filepath.Base(path)
	return strings.HasPrefix(name, fp.generatedPrefix) && strings.HasSuffix(name, ".go")
}

// GeneratedFiles lists the generated units present in dir, sorted
func (fp *FileProcessor) GeneratedFiles(dir string) ([]string, error) {
	return fp.list(dir, GeneratedFileFilter(fp.generatedPrefix))
}

func (fp *FileProcessor) list(dir string, filter FileFilter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if filter(path, entry) && !fp.Excluded(dir, path) {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}
