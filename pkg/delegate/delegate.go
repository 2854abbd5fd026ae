// Package delegate generates forwarding methods for struct members marked
// with //delegate::to.
//
// A marked member surfaces the exported methods and fields of its type on
// the struct that holds it:
//
//	type Parent struct {
//		//delegate::to
//		Child Child
//	}
//
// Generate writes one autogen_delegate_<type>.go file per struct, next to
// its sources. Build tools call it directly; the delegate command is a thin
// wrapper around it.
package delegate

import (
	"context"
	"io"

	"github.com/toyz/delegate/internal/cli"
	"github.com/toyz/delegate/internal/config"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/utils"
)

// Options configures one generation pass. Zero values fall back to the
// DELEGATE_* environment variables, then to the built-in defaults.
type Options struct {
	// Dirs are the package directories to process; a trailing /... recurses
	Dirs []string

	// Module overrides the module path read from go.mod
	Module string

	// Tags are build tags applied while loading packages
	Tags []string

	// Exclude lists doublestar patterns of directories to skip
	Exclude []string

	// Strict fails the pass on forwarded name collisions
	Strict bool

	// DryRun writes units to Output instead of the package directories
	DryRun bool

	// InlineDirective is emitted above forwarders of -Inline members. The
	// default //go:inline is a marker for readers and tools only: gc has no
	// forced-inline pragma and ignores it.
	InlineDirective string

	// DefaultReceiver is "pointer" or "value"
	DefaultReceiver string

	// FilePrefix prefixes generated file names
	FilePrefix string

	// Output receives dry-run units
	Output io.Writer

	// Log receives diagnostics at LogLevel; nil discards them
	Log      io.Writer
	LogLevel string
}

// Unit is one generated file
type Unit struct {
	Type     string
	Package  string
	Path     string
	Content  []byte
	Forwards []string
}

// Result describes a finished pass
type Result struct {
	Units     []Unit
	Written   []string
	Unchanged int
	Pruned    []string
	Warnings  int
}

// Generate runs a full pass over opts.Dirs
func Generate(ctx context.Context, opts Options) (*Result, error) {
	settings, err := opts.settings()
	if err != nil {
		return nil, err
	}

	log := opts.Log
	if log == nil {
		log = io.Discard
	}
	diagnostics := utils.NewBufferedDiagnostics(utils.ParseDiagnosticLevel(settings.LogLevel), log)

	gen := cli.NewGenerator(diagnostics)
	if err := gen.Run(ctx, cli.Config{
		Directories: opts.Dirs,
		Settings:    settings,
		Output:      opts.Output,
	}); err != nil {
		return nil, err
	}

	summary := gen.GetSummary()
	result := &Result{
		Unchanged: summary.UnitsUnchanged,
		Pruned:    summary.PrunedFiles,
		Warnings:  summary.Warnings,
	}
	if !settings.DryRun {
		result.Written = summary.GeneratedFiles
	}
	for _, u := range summary.Units {
		result.Units = append(result.Units, newUnit(u))
	}
	return result, nil
}

// Clean removes every generated unit below dirs and returns the removed paths
func Clean(dirs []string, filePrefix string) ([]string, error) {
	settings := config.Default()
	if filePrefix != "" {
		settings.FilePrefix = filePrefix
	}
	return cli.NewGenerator(utils.NewBufferedDiagnostics(utils.DiagnosticSilent, io.Discard)).Clean(settings, dirs)
}

// settings validates opts through the same loader as the command line,
// with no file and no environment lookups beyond DELEGATE_* variables.
// Only set options override the environment.
func (opts Options) settings() (*config.Config, error) {
	overrides := map[string]any{}
	if opts.Strict {
		overrides["strict"] = true
	}
	if opts.DryRun {
		overrides["dry_run"] = true
	}
	set := func(key, value string) {
		if value != "" {
			overrides[key] = value
		}
	}
	set("module", opts.Module)
	set("inline_directive", opts.InlineDirective)
	set("default_receiver", opts.DefaultReceiver)
	set("file_prefix", opts.FilePrefix)
	set("log_level", opts.LogLevel)
	if opts.Tags != nil {
		overrides["tags"] = opts.Tags
	}
	if opts.Exclude != nil {
		overrides["exclude"] = opts.Exclude
	}
	return config.NewLoader().Load("", false, overrides)
}

func newUnit(u *models.GeneratedUnit) Unit {
	unit := Unit{
		Type:    u.Container.Name,
		Package: u.Container.PackagePath,
		Path:    u.FilePath,
		Content: u.Content,
	}
	for _, op := range u.Operations {
		unit.Forwards = append(unit.Forwards, op.Names()...)
	}
	return unit
}
