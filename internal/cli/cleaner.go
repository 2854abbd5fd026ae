package cli

import (
	"fmt"

	"github.com/toyz/delegate/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
	files   *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner(files *utils.FileProcessor) *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(files),
		files:   files,
	}
}

// CleanGeneratedFiles removes every generated unit from the specified
// directories and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	dirs, err := c.scanner.ScanGeneratedDirectories(directories)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, dir := range dirs {
		generated, err := c.files.GeneratedFiles(dir)
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		for _, file := range generated {
			if err := c.files.FileReader().RemoveFile(file); err != nil {
				return removed, fmt.Errorf("failed to remove file %s: %w", file, err)
			}
			removed = append(removed, file)
		}
	}
	return removed, nil
}
