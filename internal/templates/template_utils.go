package templates

import (
	"strings"
	"text/template"

	"github.com/toyz/delegate/internal/models"
)

// TemplateUtils provides the helpers generated-unit templates call
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// FuncMap exposes the helpers to text/template
func (tu *TemplateUtils) FuncMap() template.FuncMap {
	return template.FuncMap{
		"params":    tu.JoinParams,
		"args":      tu.JoinArgs,
		"results":   tu.JoinResults,
		"setter":    models.SetterName,
		"directive": tu.Directive,
		"forward":   tu.Forward,
	}
}

// JoinParams renders a parameter list, e.g. "p0 int, rest ...string"
func (tu *TemplateUtils) JoinParams(params []models.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Variadic {
			parts = append(parts, p.Name+" ..."+p.Type)
		} else {
			parts = append(parts, p.Name+" "+p.Type)
		}
	}
	return strings.Join(parts, ", ")
}

// JoinArgs renders the call arguments, spreading a variadic parameter
func (tu *TemplateUtils) JoinArgs(params []models.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Variadic {
			parts = append(parts, p.Name+"...")
		} else {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// JoinResults renders a result list including its leading space
func (tu *TemplateUtils) JoinResults(results []string) string {
	switch len(results) {
	case 0:
		return ""
	case 1:
		return " " + results[0]
	default:
		return " (" + strings.Join(results, ", ") + ")"
	}
}

// Directive returns the inline directive line for an inline operation
func (tu *TemplateUtils) Directive(f Forward) string {
	if !f.Op.Inline || f.Unit.InlineDirective == "" {
		return ""
	}
	return f.Unit.InlineDirective + "\n"
}

// Forward pairs an operation with its unit for the nested templates
func (tu *TemplateUtils) Forward(unit *UnitModel, op models.ForwardedOperation) Forward {
	return Forward{Unit: unit, Op: op}
}
