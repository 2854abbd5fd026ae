package delegate

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zooSource = `package zoo

type Keeper struct {
	Name  string
	Shift int ` + "`delegate:\"readonly\"`" + `
}

func (k *Keeper) Feed(animals ...string) int { return len(animals) }

type Cage struct {
	//delegate::to -Inline
	Keeper *Keeper
}
`

func zooModule(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
	root := t.TempDir()
	files := map[string]string{
		"go.mod":     "module example.com/zoo\n\ngo 1.21\n",
		"zoo/zoo.go": zooSource,
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestGenerate(t *testing.T) {
	root := zooModule(t)

	var log bytes.Buffer
	result, err := Generate(context.Background(), Options{
		Dirs:     []string{root + "/..."},
		Log:      &log,
		LogLevel: "verbose",
	})
	require.NoError(t, err)
	require.Len(t, result.Units, 1)

	unit := result.Units[0]
	assert.Equal(t, "Cage", unit.Type)
	assert.Equal(t, "example.com/zoo/zoo", unit.Package)
	assert.Equal(t, []string{"Feed", "Name", "SetName", "Shift"}, unit.Forwards)
	assert.Equal(t, []string{filepath.Join(root, "zoo", "autogen_delegate_cage.go")}, result.Written)

	content := string(unit.Content)
	assert.Contains(t, content, "//go:inline\nfunc (c *Cage) Feed(animals ...string) int {\n\treturn c.Keeper.Feed(animals...)\n}")
	assert.NotContains(t, content, "SetShift")

	onDisk, err := os.ReadFile(unit.Path)
	require.NoError(t, err)
	assert.Equal(t, unit.Content, onDisk)

	t.Run("regenerate", func(t *testing.T) {
		again, err := Generate(context.Background(), Options{Dirs: []string{root + "/..."}})
		require.NoError(t, err)
		assert.Equal(t, 1, again.Unchanged)
		assert.Equal(t, unit.Content, again.Units[0].Content)
	})

	t.Run("clean", func(t *testing.T) {
		removed, err := Clean([]string{root + "/..."}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{unit.Path}, removed)
	})
}

func TestGenerate_DryRunWithDirective(t *testing.T) {
	root := zooModule(t)

	var out bytes.Buffer
	result, err := Generate(context.Background(), Options{
		Dirs:            []string{filepath.Join(root, "zoo")},
		DryRun:          true,
		InlineDirective: "//zoo:hot",
		Output:          &out,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.Contains(t, out.String(), "//zoo:hot\nfunc (c *Cage) Feed(")

	_, err = os.Stat(filepath.Join(root, "zoo", "autogen_delegate_cage.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_EnvironmentFillsUnsetOptions(t *testing.T) {
	root := zooModule(t)
	t.Setenv("DELEGATE_DRY_RUN", "true")
	t.Setenv("DELEGATE_INLINE_DIRECTIVE", "//env:hot")

	var out bytes.Buffer
	result, err := Generate(context.Background(), Options{
		Dirs:            []string{filepath.Join(root, "zoo")},
		InlineDirective: "//zoo:hot",
		Output:          &out,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.Contains(t, out.String(), "//zoo:hot\nfunc (c *Cage) Feed(")

	_, err = os.Stat(filepath.Join(root, "zoo", "autogen_delegate_cage.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerate_InvalidOptions(t *testing.T) {
	_, err := Generate(context.Background(), Options{
		Dirs:            []string{t.TempDir()},
		DefaultReceiver: "sideways",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate")
}
