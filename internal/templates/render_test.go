package templates

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
)

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	im := NewImportManager("example.com/family")
	im.Add("time", "time")

	model := &UnitModel{
		PackageName:     "family",
		Imports:         im.GenerateImports(),
		Receiver:        "c",
		ReceiverType:    "*Child",
		SetterParam:     "v",
		InlineDirective: "//go:inline",
		Operations: []models.ForwardedOperation{
			{
				Kind:    models.MethodOperation,
				Name:    "Wait",
				Member:  "Clock",
				Params:  []models.Parameter{{Name: "d", Type: "time.Duration"}, {Name: "tags", Type: "string", Variadic: true}},
				Results: []string{"bool", "error"},
			},
			{
				Kind:   models.MethodOperation,
				Name:   "Stop",
				Member: "Clock",
				Inline: true,
			},
			{
				Kind:      models.PropertyOperation,
				Name:      "Zone",
				Member:    "Clock",
				Type:      "string",
				HasGetter: true,
				HasSetter: true,
			},
			{
				Kind:      models.PropertyOperation,
				Name:      "Ticks",
				Member:    "Counter()",
				Type:      "int",
				Inline:    true,
				HasGetter: true,
			},
		},
	}

	out, err := r.Render("autogen_delegate_child.go", model)
	require.NoError(t, err)

	expected := `// Code generated by delegate. DO NOT EDIT.

package family

import "time"

func (c *Child) Wait(d time.Duration, tags ...string) (bool, error) {
	return c.Clock.Wait(d, tags...)
}

//go:inline
func (c *Child) Stop() {
	c.Clock.Stop()
}

func (c *Child) Zone() string {
	return c.Clock.Zone
}

func (c *Child) SetZone(v string) {
	c.Clock.Zone = v
}

//go:inline
func (c *Child) Ticks() int {
	return c.Counter().Ticks
}
`
	assert.Equal(t, expected, string(out))

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "autogen_delegate_child.go", out, parser.ParseComments)
	require.NoError(t, err)

	var funcs []string
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			funcs = append(funcs, fn.Name.Name)
		}
	}
	assert.Equal(t, []string{"Wait", "Stop", "Zone", "SetZone", "Ticks"}, funcs)
}

func TestRenderer_EmptyDirective(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	out, err := r.Render("x.go", &UnitModel{
		PackageName:  "family",
		Receiver:     "p",
		ReceiverType: "Parent",
		SetterParam:  "v",
		Operations: []models.ForwardedOperation{
			{Kind: models.MethodOperation, Name: "A", Member: "Child", Inline: true, Results: []string{"int"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "// Code generated by delegate. DO NOT EDIT.\n\npackage family\n\nfunc (p Parent) A() int {\n\treturn p.Child.A()\n}\n", string(out))
}

func TestRenderer_FormatError(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render("x.go", &UnitModel{
		PackageName:  "family",
		Receiver:     "p",
		ReceiverType: "*Parent",
		Operations: []models.ForwardedOperation{
			{Kind: models.MethodOperation, Name: "A", Member: "Child", Params: []models.Parameter{{Name: "x", Type: "map[int"}}},
		},
	})
	require.Error(t, err)
	assert.Equal(t, derrors.TemplateErrorCode, derrors.CodeOf(err))
}

func TestTemplateUtils(t *testing.T) {
	tu := NewTemplateUtils()
	params := []models.Parameter{{Name: "a", Type: "int"}, {Name: "rest", Type: "string", Variadic: true}}

	assert.Equal(t, "a int, rest ...string", tu.JoinParams(params))
	assert.Equal(t, "a, rest...", tu.JoinArgs(params))
	assert.Equal(t, "", tu.JoinResults(nil))
	assert.Equal(t, " error", tu.JoinResults([]string{"error"}))
	assert.Equal(t, " (int, error)", tu.JoinResults([]string{"int", "error"}))

	unit := &UnitModel{InlineDirective: "//go:inline"}
	assert.Equal(t, "//go:inline\n", tu.Directive(tu.Forward(unit, models.ForwardedOperation{Inline: true})))
	assert.Equal(t, "", tu.Directive(tu.Forward(unit, models.ForwardedOperation{})))
}

func TestTemplateRegistry(t *testing.T) {
	reg := NewTemplateRegistry()
	for _, name := range []string{UnitTemplateName, "method", "getter", "setter"} {
		_, ok := reg.Get(name)
		assert.True(t, ok, name)
	}
	assert.Panics(t, func() { reg.MustGet("missing") })
}
