package cli

import (
	"io"

	"github.com/toyz/delegate/internal/config"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for marked Go files.
	// A trailing /... scans recursively.
	Directories []string

	// Settings are the resolved generator settings
	Settings *config.Config

	// Output receives dry-run units; nil means stdout
	Output io.Writer
}
