package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/utils"
)

// LoadMode is the information requested for every package
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// LoadOptions selects the packages of one pass
type LoadOptions struct {
	ModuleRoot string   // directory go list runs in
	Dirs       []string // absolute package directories
	Tags       []string // build tags
}

// Loader loads package directories with full type information
type Loader struct {
	files       *utils.FileProcessor
	diagnostics *utils.DiagnosticSystem
}

// NewLoader creates a loader. The processor identifies generated units to mask.
func NewLoader(files *utils.FileProcessor, diagnostics *utils.DiagnosticSystem) *Loader {
	return &Loader{files: files, diagnostics: diagnostics}
}

// Load type-checks the directories in opts. Generated units already on disk
// are replaced by an empty file of the same package so their methods never
// feed back into the pass. Listing and syntax errors are fatal; type errors
// are reported as warnings because the package may call forwarders that this
// pass has yet to write.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) ([]*Package, error) {
	if len(opts.Dirs) == 0 {
		return nil, nil
	}

	overlay, err := l.overlay(opts.Dirs)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     opts.ModuleRoot,
		Tests:   false,
		Overlay: overlay,
	}
	if len(opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.Tags, ",")}
	}

	patterns := make([]string, 0, len(opts.Dirs))
	for _, dir := range opts.Dirs {
		patterns = append(patterns, l.pattern(opts.ModuleRoot, dir))
	}
	l.diagnostics.Debug("Loading patterns %v from %s", patterns, opts.ModuleRoot)

	loaded, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, derrors.WrapLoadError(strings.Join(patterns, " "), err)
	}

	fatal := &derrors.MultipleErrors{}
	var result []*Package
	for _, pkg := range loaded {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError {
				l.diagnostics.Warn("%s", e.Error())
				continue
			}
			fatal.Add(derrors.WrapLoadError(pkg.PkgPath, e))
		}
		if len(pkg.Syntax) == 0 || pkg.Types == nil || pkg.TypesInfo == nil {
			continue
		}
		sources := 0
		for _, file := range pkg.GoFiles {
			if !l.files.IsGenerated(file) {
				sources++
			}
		}
		result = append(result, &Package{
			Name:    pkg.Name,
			Path:    pkg.PkgPath,
			Dir:     packageDir(pkg),
			Fset:    pkg.Fset,
			Files:   pkg.Syntax,
			Types:   pkg.Types,
			Info:    pkg.TypesInfo,
			Sources: sources,
		})
	}
	if err := fatal.ErrOrNil(); err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// overlay masks every generated unit in dirs with a bare package clause
func (l *Loader) overlay(dirs []string) (map[string][]byte, error) {
	reader := l.files.FileReader()
	overlay := make(map[string][]byte)
	for _, dir := range dirs {
		generated, err := l.files.GeneratedFiles(dir)
		if err != nil {
			return nil, derrors.WrapFileSystemError("list", dir, err)
		}
		for _, file := range generated {
			name, err := reader.PackageName(file)
			if err != nil {
				name, err = l.siblingPackageName(dir)
				if err != nil {
					return nil, derrors.WrapParseError(file, err)
				}
			}
			overlay[file] = []byte(fmt.Sprintf("package %s\n", name))
			l.diagnostics.Debug("Masking previous output %s", file)
		}
	}
	return overlay, nil
}

func (l *Loader) siblingPackageName(dir string) (string, error) {
	sources, err := l.files.SourceFiles(dir)
	if err != nil {
		return "", err
	}
	for _, src := range sources {
		if name, err := l.files.FileReader().PackageName(src); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no readable package clause in %s", dir)
}

// pattern converts a directory into a go list pattern relative to root
func (l *Loader) pattern(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	if rel == "." {
		return "."
	}
	return "./" + filepath.ToSlash(rel)
}

func packageDir(pkg *packages.Package) string {
	files := pkg.CompiledGoFiles
	if len(files) == 0 {
		files = pkg.GoFiles
	}
	if len(files) == 0 {
		return ""
	}
	return filepath.Dir(files[0])
}
