// Package templates renders generated units from a UnitModel.
package templates

import (
	"bytes"
	"text/template"

	"golang.org/x/tools/imports"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
)

// UnitTemplateName is the root template of a generated unit
const UnitTemplateName = "unit"

// UnitModel is everything the unit template needs
type UnitModel struct {
	PackageName     string
	Imports         string // rendered import declaration
	Receiver        string
	ReceiverType    string
	SetterParam     string
	InlineDirective string
	Operations      []models.ForwardedOperation
}

// Forward is the data of one forwarder template
type Forward struct {
	Unit *UnitModel
	Op   models.ForwardedOperation
}

// Renderer executes the unit template and formats its output
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses every registered template
func NewRenderer() (*Renderer, error) {
	registry := NewTemplateRegistry()
	root := template.New(UnitTemplateName).Funcs(NewTemplateUtils().FuncMap())

	for _, name := range []string{UnitTemplateName, "method", "getter", "setter"} {
		var t *template.Template
		if name == UnitTemplateName {
			t = root
		} else {
			t = root.New(name)
		}
		if _, err := t.Parse(registry.MustGet(name)); err != nil {
			return nil, derrors.WrapTemplateError(name, "parse", err)
		}
	}
	return &Renderer{tmpl: root}, nil
}

// Render produces the formatted source of one unit. fileName is only used
// in error positions.
func (r *Renderer) Render(fileName string, model *UnitModel) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, UnitTemplateName, model); err != nil {
		return nil, derrors.WrapTemplateError(UnitTemplateName, "execute", err)
	}

	formatted, err := imports.Process(fileName, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, derrors.WrapTemplateError(UnitTemplateName, "format", err).
			WithContext("source", buf.String())
	}
	return formatted, nil
}
