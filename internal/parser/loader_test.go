package parser_test

import (
	"bytes"
	"context"
	"go/types"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/delegate/internal/parser"
	"github.com/toyz/delegate/internal/utils"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	root := t.TempDir()
	files["go.mod"] = "module example.com/fam\n\ngo 1.21\n"
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoader_MasksGeneratedUnits(t *testing.T) {
	root := writeModule(t, map[string]string{
		"family/family.go": familySource,
		// a stale unit that redeclares a method would break type checking
		"family/autogen_delegate_child.go": "package family\n\nfunc (c *Child) P() int { return 0 }\n",
	})

	var buf bytes.Buffer
	diags := utils.NewBufferedDiagnostics(utils.DiagnosticDebug, &buf)
	loader := parser.NewLoader(utils.NewFileProcessor("", nil), diags)

	pkgs, err := loader.Load(context.Background(), parser.LoadOptions{
		ModuleRoot: root,
		Dirs:       []string{filepath.Join(root, "family")},
	})
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	pkg := pkgs[0]
	assert.Equal(t, "family", pkg.Name)
	assert.Equal(t, "example.com/fam/family", pkg.Path)
	assert.Equal(t, 1, pkg.Sources)
	assert.Equal(t, 0, diags.Warnings())
	assert.Contains(t, buf.String(), "Masking previous output")

	child := pkg.Types.Scope().Lookup("Child")
	require.NotNil(t, child)
	obj, _, _ := types.LookupFieldOrMethod(child.Type(), true, pkg.Types, "P")
	_, isField := obj.(*types.Var)
	assert.True(t, isField, "methods of the previous output must not be visible")

	members := parser.NewScanner(diags).Scan(pkgs)
	assert.Len(t, members, 2)
}

func TestLoader_SourcesFollowBuildTags(t *testing.T) {
	root := writeModule(t, map[string]string{
		"family/family.go":                  "//go:build wide\n\n" + familySource,
		"family/autogen_delegate_parent.go": "package family\n",
	})

	loader := parser.NewLoader(utils.NewFileProcessor("", nil), utils.NewQuietDiagnostics())
	load := func(tags ...string) *parser.Package {
		pkgs, err := loader.Load(context.Background(), parser.LoadOptions{
			ModuleRoot: root,
			Dirs:       []string{filepath.Join(root, "family")},
			Tags:       tags,
		})
		require.NoError(t, err)
		require.Len(t, pkgs, 1)
		return pkgs[0]
	}

	assert.Equal(t, 0, load().Sources)
	assert.Equal(t, 1, load("wide").Sources)
}

func TestLoader_TypeErrorsAreWarnings(t *testing.T) {
	root := writeModule(t, map[string]string{
		"family/family.go": familySource,
		"family/use.go":    "package family\n\nfunc use(c *Child) int { return c.A() }\n",
	})

	var buf bytes.Buffer
	diags := utils.NewBufferedDiagnostics(utils.DiagnosticInfo, &buf)
	loader := parser.NewLoader(utils.NewFileProcessor("", nil), diags)

	pkgs, err := loader.Load(context.Background(), parser.LoadOptions{
		ModuleRoot: root,
		Dirs:       []string{filepath.Join(root, "family")},
	})
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, 1, diags.Warnings())
	assert.Contains(t, buf.String(), "c.A undefined")
}

func TestLoader_SyntaxErrorsAreFatal(t *testing.T) {
	root := writeModule(t, map[string]string{
		"family/family.go": "package family\n\ntype Broken struct {\n",
	})

	loader := parser.NewLoader(utils.NewFileProcessor("", nil), utils.NewBufferedDiagnostics(utils.DiagnosticSilent, &bytes.Buffer{}))
	_, err := loader.Load(context.Background(), parser.LoadOptions{
		ModuleRoot: root,
		Dirs:       []string{filepath.Join(root, "family")},
	})
	require.Error(t, err)
}

func TestLoader_NoDirs(t *testing.T) {
	loader := parser.NewLoader(utils.NewFileProcessor("", nil), utils.NewQuietDiagnostics())
	pkgs, err := loader.Load(context.Background(), parser.LoadOptions{})
	require.NoError(t, err)
	assert.Nil(t, pkgs)
}
