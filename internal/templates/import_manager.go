package templates

import (
	"fmt"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"
)

// ImportSpec is one line of a generated import block
type ImportSpec struct {
	Alias string // empty when the package name already matches
	Path  string
}

// ImportManager records the packages a generated unit refers to and picks a
// unique local name for each. It doubles as the qualifier used when rendering
// types, so every package a rendered type mentions ends up imported.
type ImportManager struct {
	self     string            // import path of the unit's own package
	byPath   map[string]string // path -> local name
	names    map[string]string // local name -> path
	reserved map[string]bool
}

// NewImportManager creates a manager for a unit living in package self
func NewImportManager(self string) *ImportManager {
	return &ImportManager{
		self:     self,
		byPath:   make(map[string]string),
		names:    make(map[string]string),
		reserved: make(map[string]bool),
	}
}

// Reserve keeps identifiers used by the unit from being chosen as import names
func (im *ImportManager) Reserve(names ...string) {
	for _, name := range names {
		if name != "" {
			im.reserved[name] = true
		}
	}
}

// Conflicts reports whether name is already the local name of an import
func (im *ImportManager) Conflicts(name string) bool {
	_, ok := im.names[name]
	return ok
}

// Qualifier returns a types.Qualifier that registers every package it sees
func (im *ImportManager) Qualifier() types.Qualifier {
	return func(pkg *types.Package) string {
		if pkg == nil || pkg.Path() == im.self {
			return ""
		}
		return im.Add(pkg.Path(), pkg.Name())
	}
}

// Add registers an import and returns its local name
func (im *ImportManager) Add(importPath, name string) string {
	if local, ok := im.byPath[importPath]; ok {
		return local
	}
	if name == "" {
		name = path.Base(importPath)
	}

	local := name
	for i := 2; im.taken(local); i++ {
		local = name + strconv.Itoa(i)
	}
	im.byPath[importPath] = local
	im.names[local] = importPath
	return local
}

func (im *ImportManager) taken(name string) bool {
	if im.reserved[name] {
		return true
	}
	_, ok := im.names[name]
	return ok
}

// Imports returns the recorded imports sorted by path
func (im *ImportManager) Imports() []ImportSpec {
	specs := make([]ImportSpec, 0, len(im.byPath))
	for p, local := range im.byPath {
		spec := ImportSpec{Path: p}
		if local != path.Base(p) {
			spec.Alias = local
		}
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	return specs
}

// IsEmpty reports whether nothing has been imported
func (im *ImportManager) IsEmpty() bool {
	return len(im.byPath) == 0
}

// GenerateImports renders the import declaration, or "" when there is none
func (im *ImportManager) GenerateImports() string {
	specs := im.Imports()
	if len(specs) == 0 {
		return ""
	}

	lines := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Alias != "" {
			lines = append(lines, fmt.Sprintf("%s %q", spec.Alias, spec.Path))
		} else {
			lines = append(lines, strconv.Quote(spec.Path))
		}
	}

	if len(lines) == 1 {
		return fmt.Sprintf("import %s\n", lines[0])
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, line := range lines {
		result.WriteString("\t" + line + "\n")
	}
	result.WriteString(")\n")
	return result.String()
}
