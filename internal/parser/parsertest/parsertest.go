// Package parsertest type-checks in-memory Go sources into parser.Package
// values for tests of the scanner and the emitter.
package parsertest

import (
	"fmt"
	"go/ast"
	"go/importer"
	goparser "go/parser"
	"go/token"
	"go/types"
	"path"
	"sort"

	"github.com/toyz/delegate/internal/parser"
)

// Source is one in-memory package: file name to content
type Source struct {
	Path  string
	Files map[string]string
}

// Check parses and type-checks files as the package pkgPath. deps are
// checked first, in order, and can be imported by later packages and by
// pkgPath; every other import resolves against the standard library sources.
func Check(pkgPath string, files map[string]string, deps ...Source) (*parser.Package, error) {
	fset := token.NewFileSet()
	imp := &memoryImporter{
		checked:  make(map[string]*types.Package),
		fallback: importer.ForCompiler(fset, "source", nil),
	}

	for _, dep := range deps {
		pkg, err := check(fset, imp, dep)
		if err != nil {
			return nil, err
		}
		imp.checked[dep.Path] = pkg.Types
	}
	return check(fset, imp, Source{Path: pkgPath, Files: files})
}

func check(fset *token.FileSet, imp types.Importer, src Source) (*parser.Package, error) {
	names := make([]string, 0, len(src.Files))
	for name := range src.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	parsed := make([]*ast.File, 0, len(names))
	for _, name := range names {
		f, err := goparser.ParseFile(fset, path.Join(path.Base(src.Path), name), src.Files[name], goparser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		parsed = append(parsed, f)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("no files for package %s", src.Path)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	conf := types.Config{Importer: imp}
	pkg, err := conf.Check(src.Path, fset, parsed, info)
	if err != nil {
		return nil, fmt.Errorf("failed to type-check %s: %w", src.Path, err)
	}

	return &parser.Package{
		Name:    pkg.Name(),
		Path:    src.Path,
		Dir:     path.Base(src.Path),
		Fset:    fset,
		Files:   parsed,
		Types:   pkg,
		Info:    info,
		Sources: len(parsed),
	}, nil
}

type memoryImporter struct {
	checked  map[string]*types.Package
	fallback types.Importer
}

func (m *memoryImporter) Import(importPath string) (*types.Package, error) {
	if pkg, ok := m.checked[importPath]; ok {
		return pkg, nil
	}
	return m.fallback.Import(importPath)
}
