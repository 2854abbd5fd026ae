package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/utils"
)

func TestModuleResolver_ResolveModuleName(t *testing.T) {
	root := writeTree(t, map[string]string{
		"go.mod":           "module github.com/example/fam\n\ngo 1.21\n",
		"family/family.go": "package family\n",
	})
	resolver := NewModuleResolver(utils.NewFileReader())

	t.Run("custom module name provided", func(t *testing.T) {
		name, err := resolver.ResolveModuleName("github.com/custom/module", root)
		require.NoError(t, err)
		assert.Equal(t, "github.com/custom/module", name)
	})

	t.Run("read from go.mod", func(t *testing.T) {
		name, err := resolver.ResolveModuleName("", filepath.Join(root, "family"))
		require.NoError(t, err)
		assert.Equal(t, "github.com/example/fam", name)
	})
}

func TestModuleResolver_GroupByModule(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/go.mod":      "module example.com/a\n\ngo 1.21\n",
		"a/x/x.go":      "package x\n",
		"a/y/y.go":      "package y\n",
		"b/go.mod":      "module example.com/b\n\ngo 1.21\n",
		"b/b.go":        "package b\n",
		"b/deep/z/z.go": "package z\n",
	})
	resolver := NewModuleResolver(utils.NewFileReader())

	modules, err := resolver.GroupByModule("", []string{
		filepath.Join(root, "b", "deep", "z"),
		filepath.Join(root, "a", "x"),
		filepath.Join(root, "b"),
		filepath.Join(root, "a", "y"),
	})
	require.NoError(t, err)
	require.Len(t, modules, 2)

	assert.Equal(t, "example.com/a", modules[0].Name)
	assert.Equal(t, filepath.Join(root, "a"), modules[0].Root)
	assert.Equal(t, []string{filepath.Join(root, "a", "x"), filepath.Join(root, "a", "y")}, modules[0].Dirs)

	assert.Equal(t, "example.com/b", modules[1].Name)
	assert.Len(t, modules[1].Dirs, 2)

	path, err := resolver.BuildPackagePath(modules[1], filepath.Join(root, "b", "deep", "z"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/b/deep/z", path)

	path, err = resolver.BuildPackagePath(modules[1], filepath.Join(root, "b"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/b", path)
}

func TestModuleResolver_NoModule(t *testing.T) {
	root := writeTree(t, map[string]string{"loose/loose.go": "package loose\n"})
	resolver := NewModuleResolver(utils.NewFileReader())

	_, err := resolver.GroupByModule("", []string{filepath.Join(root, "loose")})
	if err == nil {
		// a go.mod above the temp directory would make the package part of that module
		t.Skip("temporary directory is inside a Go module")
	}
	assert.Contains(t, err.Error(), "not inside a Go module")
}
