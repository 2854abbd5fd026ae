package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/delegate/internal/config"
	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/generator"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/parser"
	"github.com/toyz/delegate/internal/utils"
)

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	PackagesProcessed int
	MembersFound      int
	UnitsGenerated    int
	UnitsWritten      int
	UnitsUnchanged    int
	Warnings          int
	DryRun            bool
	GeneratedFiles    []string
	PrunedFiles       []string
	Units             []*models.GeneratedUnit
	Duration          time.Duration
}

// Generator coordinates the CLI generation process
type Generator struct {
	diagnostics *utils.DiagnosticSystem
	summary     GenerationSummary
}

// NewGenerator creates a new CLI generator reporting through diagnostics
func NewGenerator(diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Generator{diagnostics: diagnostics}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run executes one complete pass: scan, load, find members, emit, then
// write or print. Nothing is written when any step fails.
func (g *Generator) Run(ctx context.Context, cfg Config) error {
	startTime := time.Now()
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	g.summary = GenerationSummary{DryRun: settings.DryRun}

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Scanning directories: %v", cfg.Directories)
	g.diagnostics.Dump("Settings", settings)

	files := utils.NewFileProcessor(settings.FilePrefix, settings.Exclude)
	resolver := NewModuleResolver(files.FileReader())

	g.diagnostics.StartProgress("Scanning directories for Go packages")
	packageDirs, err := NewDirectoryScanner(files).ScanDirectories(cfg.Directories)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: fmt.Sprintf("Failed to scan directories: %v", err),
			Suggestions: []string{
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
			},
			Context: map[string]interface{}{"directories": cfg.Directories},
			Cause:   err,
		}
	}
	if len(packageDirs) == 0 {
		g.diagnostics.EndProgress(false, "")
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: "No Go packages found in specified directories",
			Suggestions: []string{
				"Ensure the directories contain Go files",
				"Try scanning parent directories or use './...' pattern",
			},
			Context: map[string]interface{}{"directories": cfg.Directories},
		}
	}
	g.diagnostics.EndProgress(true, fmt.Sprintf("%d packages", len(packageDirs)))

	g.diagnostics.StartProgress("Resolving modules")
	modules, err := resolver.GroupByModule(settings.Module, packageDirs)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: fmt.Sprintf("Failed to resolve module: %v", err),
			Suggestions: []string{
				"Check your go.mod file exists and is valid",
				"Try specifying --module flag explicitly",
			},
			Context: map[string]interface{}{"provided_module": settings.Module},
			Cause:   err,
		}
	}
	g.diagnostics.EndProgress(true, "")

	var pkgs []*parser.Package
	loader := parser.NewLoader(files, g.diagnostics)
	for _, mod := range modules {
		g.diagnostics.StartProgress(fmt.Sprintf("Loading %d packages of %s", len(mod.Dirs), mod.Name))
		loaded, err := loader.Load(ctx, parser.LoadOptions{ModuleRoot: mod.Root, Dirs: mod.Dirs, Tags: settings.Tags})
		if err != nil {
			g.diagnostics.EndProgress(false, "")
			return err
		}
		g.diagnostics.EndProgress(true, "")
		pkgs = append(pkgs, loaded...)
	}
	g.summary.PackagesProcessed = len(pkgs)

	members := parser.NewScanner(g.diagnostics).Scan(pkgs)
	g.summary.MembersFound = len(members)
	g.diagnostics.Info("Found %d marked members in %d packages", len(members), len(pkgs))
	if g.diagnostics.Level() >= utils.DiagnosticDebug {
		found := make([]string, len(members))
		for i, m := range members {
			found[i] = fmt.Sprintf("%s.%s (%s, inline=%t)", m.QualifiedContainer(), m.Name, m.Kind, m.Inline)
		}
		g.diagnostics.Dump("Marked members", found)
	}

	gen, err := generator.NewGenerator(generator.Options{
		InlineDirective: settings.InlineDirective,
		DefaultReceiver: models.ParseReceiverKind(settings.DefaultReceiver),
		FilePrefix:      files.GeneratedPrefix(),
		Strict:          settings.Strict,
	}, g.diagnostics)
	if err != nil {
		return err
	}

	g.diagnostics.StartProgress("Generating units")
	units, err := gen.Generate(members)
	if err != nil {
		g.diagnostics.EndProgress(false, "")
		return err
	}
	g.diagnostics.EndProgress(true, fmt.Sprintf("%d units", len(units)))
	g.summary.Units = units
	g.summary.UnitsGenerated = len(units)

	if settings.DryRun {
		g.printUnits(cfg.Output, units)
	} else if err := g.writeUnits(files, pkgs, units); err != nil {
		return err
	}

	g.summary.Warnings = g.diagnostics.Warnings()
	g.summary.Duration = time.Since(startTime)
	g.diagnostics.Summary("Generation", map[string]interface{}{
		"packages": g.summary.PackagesProcessed,
		"members":  g.summary.MembersFound,
		"units":    g.summary.UnitsGenerated,
		"written":  g.summary.UnitsWritten,
		"pruned":   len(g.summary.PrunedFiles),
		"duration": g.summary.Duration.Round(time.Millisecond),
	})
	return nil
}

// writeUnits writes changed units and prunes stale ones in every loaded
// package whose hand-written files survived the build constraints. A package
// built only from masked units says nothing about which units are stale.
func (g *Generator) writeUnits(files *utils.FileProcessor, pkgs []*parser.Package, units []*models.GeneratedUnit) error {
	reader := files.FileReader()
	produced := make(map[string]bool, len(units))

	for _, unit := range units {
		path, err := filepath.Abs(unit.FilePath)
		if err != nil {
			return derrors.WrapFileSystemError("resolve", unit.FilePath, err)
		}
		produced[path] = true

		changed, err := reader.WriteFileIfChanged(path, unit.Content)
		if err != nil {
			return derrors.WrapFileSystemError("write", path, err)
		}
		if changed {
			g.summary.UnitsWritten++
			g.diagnostics.Verbose("Wrote %s", path)
		} else {
			g.summary.UnitsUnchanged++
			g.diagnostics.Debug("Unchanged %s", path)
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, path)
	}

	for _, pkg := range pkgs {
		dir := pkg.Dir
		if dir == "" {
			continue
		}
		if pkg.Sources == 0 {
			g.diagnostics.Debug("Keeping units in %s: no sources match the build constraints", dir)
			continue
		}
		existing, err := files.GeneratedFiles(dir)
		if err != nil {
			return derrors.WrapFileSystemError("list", dir, err)
		}
		for _, path := range existing {
			if produced[path] {
				continue
			}
			if err := reader.RemoveFile(path); err != nil {
				return derrors.WrapFileSystemError("remove", path, err)
			}
			g.summary.PrunedFiles = append(g.summary.PrunedFiles, path)
			g.diagnostics.Verbose("Removed stale %s", path)
		}
	}
	return nil
}

func (g *Generator) printUnits(w io.Writer, units []*models.GeneratedUnit) {
	if w == nil {
		w = os.Stdout
	}
	for _, unit := range units {
		fmt.Fprintf(w, "// ---- %s ----\n", unit.FilePath)
		w.Write(unit.Content)
		fmt.Fprintln(w)
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, unit.FilePath)
	}
}

// Clean removes generated units below directories
func (g *Generator) Clean(settings *config.Config, directories []string) ([]string, error) {
	if settings == nil {
		settings = config.Default()
	}
	removed, err := NewCleaner(utils.NewFileProcessor(settings.FilePrefix, settings.Exclude)).CleanGeneratedFiles(directories)
	for _, path := range removed {
		g.diagnostics.Verbose("Removed %s", path)
	}
	return removed, err
}
