package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"
)

// Package is the part of a loaded, type-checked package the scanner needs
type Package struct {
	Name  string
	Path  string
	Dir   string
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info

	// Sources counts the hand-written files kept by the build constraints
	Sources int
}

// sortedFiles returns the package's files ordered by file name
func (p *Package) sortedFiles() []*ast.File {
	files := make([]*ast.File, len(p.Files))
	copy(files, p.Files)
	sort.SliceStable(files, func(i, j int) bool {
		return p.Fset.Position(files[i].Pos()).Filename < p.Fset.Position(files[j].Pos()).Filename
	})
	return files
}
