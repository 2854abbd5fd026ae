package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/utils"
)

// DirectoryScanner handles recursive directory scanning for Go files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner(fileProcessor *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: fileProcessor,
	}
}

// ScanDirectories returns the absolute package directories named by
// rootDirs, sorted and without duplicates. Go-style patterns like "./..."
// scan recursively; plain directories are taken as they are.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	return s.scan(rootDirs, s.fileProcessor.ScanPackageDirs)
}

// ScanGeneratedDirectories returns the directories named by rootDirs that
// hold generated units, whether or not they still have sources
func (s *DirectoryScanner) ScanGeneratedDirectories(rootDirs []string) ([]string, error) {
	return s.scan(rootDirs, s.fileProcessor.ScanGeneratedDirs)
}

func (s *DirectoryScanner) scan(rootDirs []string, find func(root string, recursive bool) ([]string, error)) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string

	for _, rootDir := range rootDirs {
		recursive := false
		if rootDir == "..." || strings.HasSuffix(rootDir, "/...") {
			recursive = true
			rootDir = strings.TrimSuffix(strings.TrimSuffix(rootDir, "..."), "/")
			if rootDir == "" {
				rootDir = "."
			}
		}

		cleanPath, err := filepath.Abs(rootDir)
		if err != nil {
			return nil, errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", rootDir), err)
		}

		found, err := find(cleanPath, recursive)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", cleanPath, err)
		}
		for _, dir := range found {
			if !seen[dir] {
				seen[dir] = true
				dirs = append(dirs, dir)
			}
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}
