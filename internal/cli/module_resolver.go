package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/toyz/delegate/internal/utils"
)

// Module is a Go module and the package directories of one pass inside it
type Module struct {
	Name string
	Root string
	Dirs []string
}

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver(fileReader *utils.FileReader) *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser(fileReader)}
}

// ResolveModuleName resolves the module name for the directory dir.
// If customModule is provided, it uses that; otherwise reads from go.mod.
func (r *ModuleResolver) ResolveModuleName(customModule, dir string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	goModPath, err := r.goMod.FindGoModFile(dir)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", err)
	}
	return r.goMod.ParseModuleName(goModPath)
}

// GroupByModule assigns every package directory to the module containing it.
// Modules come back sorted by root.
func (r *ModuleResolver) GroupByModule(customModule string, dirs []string) ([]*Module, error) {
	byRoot := make(map[string]*Module)
	for _, dir := range dirs {
		goModPath, err := r.goMod.FindGoModFile(dir)
		if err != nil {
			return nil, fmt.Errorf("package directory %s is not inside a Go module: %w", dir, err)
		}
		root := filepath.Dir(goModPath)

		mod, ok := byRoot[root]
		if !ok {
			name, err := r.ResolveModuleName(customModule, root)
			if err != nil {
				return nil, err
			}
			mod = &Module{Name: name, Root: root}
			byRoot[root] = mod
		}
		mod.Dirs = append(mod.Dirs, dir)
	}

	modules := make([]*Module, 0, len(byRoot))
	for _, mod := range byRoot {
		modules = append(modules, mod)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Root < modules[j].Root })
	return modules, nil
}

// BuildPackagePath builds the import path of a package directory inside mod
func (r *ModuleResolver) BuildPackagePath(mod *Module, packageDir string) (string, error) {
	relPath, err := filepath.Rel(mod.Root, packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return mod.Name, nil
	}
	return mod.Name + "/" + importPath, nil
}
