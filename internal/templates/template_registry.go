package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerUnitTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerUnitTemplates registers the templates of a generated unit
func (tr *TemplateRegistry) registerUnitTemplates() {
	tr.templates[UnitTemplateName] = `// Code generated by delegate. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
{{.Imports}}{{end}}
{{- range $op := .Operations}}
{{- if $op.IsMethod}}
{{template "method" (forward $ $op)}}
{{- else}}
{{- if $op.HasGetter}}
{{template "getter" (forward $ $op)}}
{{- end}}
{{- if $op.HasSetter}}
{{template "setter" (forward $ $op)}}
{{- end}}
{{- end}}
{{- end}}
`

	tr.templates["method"] = `
{{directive .}}func ({{.Unit.Receiver}} {{.Unit.ReceiverType}}) {{.Op.Name}}({{params .Op.Params}}){{results .Op.Results}} {
	{{if .Op.Results}}return {{end}}{{.Unit.Receiver}}.{{.Op.Member}}.{{.Op.Name}}({{args .Op.Params}})
}`

	tr.templates["getter"] = `
{{directive .}}func ({{.Unit.Receiver}} {{.Unit.ReceiverType}}) {{.Op.Name}}() {{.Op.Type}} {
	return {{.Unit.Receiver}}.{{.Op.Member}}.{{.Op.Name}}
}`

	tr.templates["setter"] = `
{{directive .}}func ({{.Unit.Receiver}} {{.Unit.ReceiverType}}) {{setter .Op.Name}}({{.Unit.SetterParam}} {{.Op.Type}}) {
	{{.Unit.Receiver}}.{{.Op.Member}}.{{.Op.Name}} = {{.Unit.SetterParam}}
}`
}
