package generator

import (
	"bytes"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/parser"
	"github.com/toyz/delegate/internal/parser/parsertest"
	"github.com/toyz/delegate/internal/utils"
)

type run struct {
	units []*models.GeneratedUnit
	err   error
	out   *bytes.Buffer
}

func generate(t *testing.T, opts Options, src string, deps ...parsertest.Source) run {
	t.Helper()
	pkg, err := parsertest.Check("example.com/family", map[string]string{"family.go": src}, deps...)
	require.NoError(t, err)

	var buf bytes.Buffer
	diags := utils.NewBufferedDiagnostics(utils.DiagnosticDebug, &buf)
	members := parser.NewScanner(diags).Scan([]*parser.Package{pkg})

	if opts.InlineDirective == "" {
		opts.InlineDirective = "//go:inline"
	}
	g, err := NewGenerator(opts, diags)
	require.NoError(t, err)

	units, err := g.Generate(members)
	return run{units: units, err: err, out: &buf}
}

func single(t *testing.T, r run) string {
	t.Helper()
	require.NoError(t, r.err)
	require.Len(t, r.units, 1)
	return string(r.units[0].Content)
}

const parentSource = `package family

type Child struct {
	X int
}

func (c *Child) A() int { return 1 }

type Child2 struct {
	R int
}

type Parent struct {
	//delegate::to
	Child Child
	//delegate::to
	Child2 Child2
}
`

func TestGenerator_ParentScenario(t *testing.T) {
	r := generate(t, Options{}, parentSource)
	content := single(t, r)

	expected := `// Code generated by delegate. DO NOT EDIT.

package family

func (p *Parent) A() int {
	return p.Child.A()
}

func (p *Parent) X() int {
	return p.Child.X
}

func (p *Parent) SetX(v int) {
	p.Child.X = v
}

func (p *Parent) R() int {
	return p.Child2.R
}

func (p *Parent) SetR(v int) {
	p.Child2.R = v
}
`
	assert.Equal(t, expected, content)

	unit := r.units[0]
	assert.Equal(t, "example.com/family.Parent", unit.Name)
	assert.Equal(t, "autogen_delegate_parent.go", unit.FileName)
	assert.Equal(t, "family", unit.PackageName)
	assert.Equal(t, models.PointerKind, unit.Container.Kind)
	assert.Equal(t, "p", unit.Container.ReceiverName)
	assert.NotContains(t, content, "//go:inline")
}

func TestGenerator_Idempotent(t *testing.T) {
	first := single(t, generate(t, Options{}, parentSource))
	second := single(t, generate(t, Options{}, parentSource))
	assert.Equal(t, first, second)
}

func TestGenerator_InlineIsPerMember(t *testing.T) {
	src := `package family

type Child struct{ X int }

func (c *Child) A() int { return 1 }

type Child2 struct{ R int }

type Parent struct {
	//delegate::to
	Child Child
	//delegate::to -Inline
	Child2 *Child2
}
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "func (p *Parent) A() int {")
	assert.NotContains(t, content, "//go:inline\nfunc (p *Parent) A()")
	assert.NotContains(t, content, "//go:inline\nfunc (p *Parent) X()")
	assert.Contains(t, content, "//go:inline\nfunc (p *Parent) R() int {")
	assert.Contains(t, content, "//go:inline\nfunc (p *Parent) SetR(v int) {")

	custom := single(t, generate(t, Options{InlineDirective: "//delegate:hot"}, src))
	assert.Contains(t, custom, "//delegate:hot\nfunc (p *Parent) R() int {")
	assert.NotContains(t, custom, "//go:inline")
}

func TestGenerator_PropertyTags(t *testing.T) {
	src := "package family\n\n" +
		"type Child struct {\n" +
		"\tRead  int `delegate:\"readonly\"`\n" +
		"\tWrite int `delegate:\"writeonly\"`\n" +
		"\tNone  int `delegate:\"-\"`\n" +
		"\tBoth  int `json:\"both\"`\n" +
		"}\n\n" +
		"type Parent struct {\n\t//delegate::to\n\tChild *Child\n}\n"

	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "func (p *Parent) Read() int {")
	assert.NotContains(t, content, "SetRead")
	assert.Contains(t, content, "func (p *Parent) SetWrite(v int) {")
	assert.NotContains(t, content, "Write() int")
	assert.NotContains(t, content, "None")
	assert.Contains(t, content, "func (p *Parent) Both() int {")
	assert.Contains(t, content, "func (p *Parent) SetBoth(v int) {")
}

func TestGenerator_ValueReceiver(t *testing.T) {
	src := `package family

type Child struct{ X int }

type Child2 struct{ R int }

type Parent struct {
	//delegate::to
	Child Child
	//delegate::to
	Child2 *Child2
}

func (pa Parent) Name() string { return "parent" }
`
	r := generate(t, Options{}, src)
	content := single(t, r)

	assert.Equal(t, models.ValueKind, r.units[0].Container.Kind)
	assert.Contains(t, content, "func (pa Parent) X() int {\n\treturn pa.Child.X\n}")
	assert.NotContains(t, content, "SetX", "a write through a value receiver would be lost")
	assert.Contains(t, content, "func (pa Parent) SetR(v int) {\n\tpa.Child2.R = v\n}")
	assert.Contains(t, r.out.String(), "No setter for Parent.X")
}

func TestGenerator_DefaultReceiverOption(t *testing.T) {
	r := generate(t, Options{DefaultReceiver: models.ValueKind}, parentSource)
	content := single(t, r)
	assert.Contains(t, content, "func (p Parent) A() int {")
	assert.NotContains(t, content, "SetX")
}

func TestGenerator_AccessibilityFloor(t *testing.T) {
	src := `package family

type Child struct {
	X      int
	hidden int
}

func (c *Child) A() int      { return 1 }
func (c *Child) secret() int { return 2 }

type Parent struct {
	//delegate::to
	Child Child
}
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "A()")
	assert.NotContains(t, content, "secret")
	assert.NotContains(t, content, "hidden")
	assert.NotContains(t, content, "Hidden")
}

func TestGenerator_ForeignNamesMustBeExported(t *testing.T) {
	other := parsertest.Source{
		Path: "example.com/other",
		Files: map[string]string{"other.go": `package other

type handler = func(int) error

type kind int

type Callback = func(string)

type Child struct{}

func (c *Child) Use(h handler)       {}
func (c *Child) Kind() kind          { return 0 }
func (c *Child) Hook(cb Callback)    {}
func (c *Child) Name() string        { return "" }
func (c *Child) Apply(f func(int) error) {}
`},
	}
	src := `package family

import "example.com/other"

type Parent struct {
	//delegate::to
	Child other.Child
}
`
	r := generate(t, Options{}, src, other)
	content := single(t, r)
	assert.NotContains(t, content, "Use(")
	assert.NotContains(t, content, "Kind()")
	assert.Contains(t, content, "func (p *Parent) Hook(cb other.Callback) {")
	assert.Contains(t, content, "func (p *Parent) Name() string {")
	assert.Contains(t, content, "func (p *Parent) Apply(f func(int) error) {")
	assert.Contains(t, content, "\"example.com/other\"")
	assert.Contains(t, r.out.String(), "Skipping Parent.Child.Use")
}

func TestGenerator_Parameters(t *testing.T) {
	src := `package family

type Child struct{}

func (c *Child) Log(format string, args ...string)   {}
func (c *Child) Put(string, int)                      {}
func (c *Child) Skip(_ int, name string) error         { return nil }
func (c *Child) Scale(p int) (int, bool)               { return p, true }
func (c *Child) Pair(v int, p0 int) (a int, b int)     { return v, p0 }

type Parent struct {
	//delegate::to
	Child Child
}
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "func (p *Parent) Log(format string, args ...string) {\n\tp.Child.Log(format, args...)\n}")
	assert.Contains(t, content, "func (p *Parent) Put(p0 string, p1 int) {\n\tp.Child.Put(p0, p1)\n}")
	assert.Contains(t, content, "func (p *Parent) Skip(p0 int, name string) error {\n\treturn p.Child.Skip(p0, name)\n}")
	assert.Contains(t, content, "func (p *Parent) Scale(p0 int) (int, bool) {\n\treturn p.Child.Scale(p0)\n}")
	assert.Contains(t, content, "func (p *Parent) Pair(v int, p0 int) (int, int) {\n\treturn p.Child.Pair(v, p0)\n}")
}

func TestGenerator_Imports(t *testing.T) {
	src := `package family

import (
	"io"
	mrand "math/rand"
	"math/rand/v2"
	"time"
)

type Child struct {
	Timeout time.Duration
}

func (c *Child) Reader() io.Reader                        { return nil }
func (c *Child) Mix(a *mrand.Rand, b *rand.Rand) *rand.Rand { return b }

type Parent struct {
	//delegate::to
	Child Child
}
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "import (\n\t\"io\"\n\t\"math/rand\"\n\trand2 \"math/rand/v2\"\n\t\"time\"\n)")
	assert.Contains(t, content, "func (p *Parent) Reader() io.Reader {")
	assert.Contains(t, content, "func (p *Parent) Mix(a *rand.Rand, b *rand2.Rand) *rand2.Rand {")
	assert.Contains(t, content, "func (p *Parent) Timeout() time.Duration {")
}

func TestGenerator_InterfaceMember(t *testing.T) {
	src := `package family

import "io"

type Parent struct {
	//delegate::to
	W io.Writer
}
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "func (p *Parent) Write(p0 []byte) (int, error) {\n\treturn p.W.Write(p0)\n}")
	assert.NotContains(t, content, "import")
}

func TestGenerator_GenericContainer(t *testing.T) {
	src := `package family

type Inner[T any] struct {
	Last T
}

func (i Inner[T]) Value() T { return i.Last }

type Box[T any] struct {
	//delegate::to
	In Inner[T]
}
`
	r := generate(t, Options{}, src)
	content := single(t, r)
	assert.Equal(t, "autogen_delegate_box.go", r.units[0].FileName)
	assert.Contains(t, content, "func (b *Box[T]) Value() T {\n\treturn b.In.Value()\n}")
	assert.Contains(t, content, "func (b *Box[T]) Last() T {")
	assert.Contains(t, content, "func (b *Box[T]) SetLast(v T) {")
}

func TestGenerator_PointerAccessor(t *testing.T) {
	src := `package family

type Child struct{ X int }

func (c *Child) A() int { return 1 }

type Holder struct {
	child *Child
}

//delegate::to
func (h *Holder) Child() *Child { return h.child }
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "func (h *Holder) A() int {\n\treturn h.Child().A()\n}")
	assert.Contains(t, content, "func (h *Holder) SetX(v int) {\n\th.Child().X = v\n}")
}

func TestGenerator_ValueAccessor(t *testing.T) {
	src := `package family

type Config struct{ Name string }

func (c Config) Describe() string { return c.Name }
func (c *Config) Reset()          { c.Name = "" }

type Holder struct {
	cfg Config
}

//delegate::to
func (h *Holder) Config() Config { return h.cfg }
`
	content := single(t, generate(t, Options{}, src))
	assert.Contains(t, content, "func (h *Holder) Describe() string {\n\treturn h.Config().Describe()\n}")
	assert.NotContains(t, content, "Reset", "pointer methods need an addressable value")
	assert.Contains(t, content, "func (h *Holder) Name() string {")
	assert.NotContains(t, content, "SetName")
}

func TestGenerator_PromotedFields(t *testing.T) {
	src := `package family

type Base struct {
	ID   int
	Name string
}

type Other struct {
	ID int
}

type Meta struct {
	Tag string
}

type Child struct {
	Base
	Other
	*Meta
}

type Parent struct {
	//delegate::to
	Child Child
}

func (p Parent) String() string { return "" }
`
	r := generate(t, Options{}, src)
	content := single(t, r)
	assert.Contains(t, content, "func (p Parent) Name() string {\n\treturn p.Child.Name\n}")
	assert.NotContains(t, content, "ID()", "ambiguous selectors are dropped")
	assert.Contains(t, content, "func (p Parent) Base() Base {")
	assert.Contains(t, content, "func (p Parent) SetTag(v string) {\n\tp.Child.Tag = v\n}",
		"writes through an embedded pointer are observable")
	assert.NotContains(t, content, "SetName")
}

func TestGenerator_Collisions(t *testing.T) {
	src := `package family

type Child struct{ X int }

type Child2 struct{ X int }

type Parent struct {
	//delegate::to
	Child Child
	//delegate::to
	Child2 Child2
}
`
	t.Run("warn", func(t *testing.T) {
		r := generate(t, Options{}, src)
		require.NoError(t, r.err)
		require.Len(t, r.units, 1)
		assert.Contains(t, r.out.String(), "[WARN]")
		assert.Contains(t, r.out.String(), "Parent.X is declared more than once")
	})

	t.Run("strict", func(t *testing.T) {
		r := generate(t, Options{Strict: true}, src)
		require.Error(t, r.err)
		assert.Nil(t, r.units)
		assert.Equal(t, derrors.CollisionErrorCode, derrors.CodeOf(r.err))
	})

	t.Run("own method", func(t *testing.T) {
		own := `package family

type Child struct{}

func (c *Child) Close() error { return nil }

type Parent struct {
	//delegate::to
	Child Child
}

func (p *Parent) Close() error { return nil }
`
		r := generate(t, Options{Strict: true}, own)
		require.Error(t, r.err)
		assert.Contains(t, r.err.Error(), "Parent.Close")
	})
}

func TestGenerator_NothingToForward(t *testing.T) {
	src := `package family

type Parent struct {
	//delegate::to
	Count int
}
`
	r := generate(t, Options{}, src)
	require.NoError(t, r.err)
	require.Len(t, r.units, 1)
	assert.Equal(t, "example.com/family.Parent", r.units[0].Name)
	assert.Empty(t, r.units[0].Operations)
	assert.Equal(t, "// Code generated by delegate. DO NOT EDIT.\n\npackage family\n", string(r.units[0].Content))
	assert.Contains(t, r.out.String(), "Nothing to forward on example.com/family.Parent")
}

func TestGenerator_GuardRejectsUnsupportedObjects(t *testing.T) {
	pkg := types.NewPackage("example.com/family", "family")
	container := types.NewTypeName(token.NoPos, pkg, "Parent", nil)
	types.NewNamed(container, types.NewStruct(nil, nil), nil)

	g, err := NewGenerator(Options{}, utils.NewQuietDiagnostics())
	require.NoError(t, err)

	_, err = g.Generate([]*models.MarkedMember{{
		Name:      "Limit",
		Kind:      models.FieldMember,
		Object:    types.NewConst(token.NoPos, pkg, "Limit", types.Typ[types.Int], nil),
		Container: container,
	}})
	require.Error(t, err)

	var genErr *models.GeneratorError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, models.ErrorTypeGeneration, genErr.Type)
	assert.Equal(t, derrors.ResolutionErrorCode, derrors.CodeOf(genErr.Cause))
}

func TestUnitFileName(t *testing.T) {
	assert.Equal(t, "autogen_delegate_parent.go", UnitFileName("autogen_delegate_", "Parent"))
	assert.Equal(t, "autogen_delegate_http_client.go", UnitFileName("autogen_delegate_", "HTTPClient"))
	assert.Equal(t, "gen_child2.go", UnitFileName("gen_", "Child2"))
}

func TestImportable(t *testing.T) {
	assert.True(t, importable("example.com/m/pkg/x", "example.com/other"))
	assert.True(t, importable("example.com/m/internal/x", "example.com/m/cmd/tool"))
	assert.True(t, importable("example.com/m/internal/x", "example.com/m"))
	assert.False(t, importable("example.com/m/internal/x", "example.com/other"))
	assert.False(t, importable("internal/abi", "example.com/m"))
}
