// Package generator turns marked members into generated forwarding units.
package generator

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/types/typeutil"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/templates"
	"github.com/toyz/delegate/internal/utils"
)

// Options controls how units are emitted
type Options struct {
	// InlineDirective precedes forwarders of -Inline members verbatim; it
	// annotates the output and does not change how gc inlines
	InlineDirective string
	DefaultReceiver models.ReceiverKind
	FilePrefix      string
	Strict          bool
}

// Generator implements CodeGenerator
type Generator struct {
	options     Options
	renderer    *templates.Renderer
	diagnostics *utils.DiagnosticSystem
}

// NewGenerator creates a generator
func NewGenerator(options Options, diagnostics *utils.DiagnosticSystem) (*Generator, error) {
	if options.FilePrefix == "" {
		options.FilePrefix = utils.DefaultGeneratedPrefix
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Generator{
		options:     options,
		renderer:    renderer,
		diagnostics: diagnostics,
	}, nil
}

// Generate groups members by containing type and renders one unit per type.
// Units come back sorted by qualified container name. A container whose
// members surface nothing still gets a unit holding only the package clause.
func (g *Generator) Generate(members []*models.MarkedMember) ([]*models.GeneratedUnit, error) {
	if err := g.guard(members); err != nil {
		return nil, err
	}

	groups := make(map[string][]*models.MarkedMember)
	for _, m := range members {
		key := m.QualifiedContainer()
		groups[key] = append(groups[key], m)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cache := new(typeutil.MethodSetCache)
	collisions := &derrors.MultipleErrors{}
	files := make(map[string]string)

	var units []*models.GeneratedUnit
	for _, key := range keys {
		unit, err := g.generateUnit(groups[key], cache, collisions)
		if err != nil {
			return nil, derrors.WrapGenerateError(key, err)
		}
		if other, ok := files[unit.FilePath]; ok {
			return nil, derrors.Newf(derrors.GenerationErrorCode,
				"types %s and %s map to the same file %s", other, key, unit.FileName).
				WithSuggestions("Rename one of the types or move it to another package")
		}
		files[unit.FilePath] = key
		units = append(units, unit)
	}

	if g.options.Strict {
		if err := collisions.ErrOrNil(); err != nil {
			return nil, err
		}
	}
	return units, nil
}

// guard rejects members that resolved to neither a field nor an accessor
func (g *Generator) guard(members []*models.MarkedMember) error {
	for _, m := range members {
		switch obj := m.Object.(type) {
		case *types.Var:
			if obj.IsField() && m.Kind == models.FieldMember {
				continue
			}
		case *types.Func:
			if m.Kind == models.AccessorMember {
				continue
			}
		}

		kind := "unknown object"
		if m.Object != nil {
			kind = fmt.Sprintf("%T", m.Object)
		}
		loc := derrors.SourceLocation{File: m.Position.Filename, Line: m.Position.Line, Column: m.Position.Column}
		return &models.GeneratorError{
			Type:    models.ErrorTypeGeneration,
			File:    m.Position.Filename,
			Line:    m.Position.Line,
			Message: fmt.Sprintf("cannot forward %s.%s: it is a %s", m.ContainerName(), m.Name, kind),
			Suggestions: []string{
				"Place //delegate::to on a struct field or on a method taking no arguments and returning one value",
			},
			Cause: derrors.ResolutionError(m.Name, kind, loc),
		}
	}
	return nil
}

func (g *Generator) generateUnit(members []*models.MarkedMember, cache *typeutil.MethodSetCache,
	collisions *derrors.MultipleErrors) (*models.GeneratedUnit, error) {
	first := members[0]
	container := analyzeContainer(first.Container, first.PackageDir, g.options.DefaultReceiver)

	setterParam := setterParamName(container.ReceiverName)
	im := templates.NewImportManager(container.PackagePath)
	im.Reserve(container.ReceiverName, setterParam)
	im.Reserve(container.TypeParams...)

	builder := newOperationBuilder(container, first.Container.Pkg(), im, cache, g.diagnostics)

	var ops []models.ForwardedOperation
	for _, m := range members {
		memberOps := builder.build(m)
		g.diagnostics.Verbose("%s.%s forwards %d operation(s)", container.Name, m.Name, len(memberOps))
		ops = append(ops, memberOps...)
	}

	g.checkCollisions(container, ops, collisions)

	if len(ops) == 0 {
		// the unit still exists so the type keeps exactly one per pass
		g.diagnostics.Verbose("Nothing to forward on %s, emitting an empty unit", container.QualifiedName)
	}

	fileName := UnitFileName(g.options.FilePrefix, container.Name)
	content, err := g.renderer.Render(fileName, g.unitModel(container, im, setterParam, ops))
	if err != nil {
		return nil, err
	}

	return &models.GeneratedUnit{
		Name:        container.QualifiedName,
		FileName:    fileName,
		FilePath:    unitPath(container.Dir, fileName),
		PackageName: container.PackageName,
		Dir:         container.Dir,
		Content:     content,
		Container:   container,
		Operations:  ops,
	}, nil
}

// checkCollisions reports forwarded names that are declared twice on the
// container. Collisions are warnings unless strict mode is on; the merged
// package is left for the compiler to reject.
func (g *Generator) checkCollisions(c *models.ContainerType, ops []models.ForwardedOperation,
	collisions *derrors.MultipleErrors) {
	origins := make(map[string][]string)
	for name, origin := range occupiedNames(c) {
		origins[name] = []string{origin}
	}

	memberName := func(selector string) string {
		return strings.TrimSuffix(selector, "()")
	}
	for _, op := range ops {
		for _, name := range op.Names() {
			origins[name] = append(origins[name], "member "+memberName(op.Member))
		}
	}

	names := make([]string, 0, len(origins))
	for name, from := range origins {
		if len(from) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		err := derrors.CollisionError(c.Name, name, origins[name])
		if g.options.Strict {
			collisions.Add(err)
		} else {
			g.diagnostics.Warn("%v (from %s)", err, strings.Join(origins[name], ", "))
		}
	}
}
