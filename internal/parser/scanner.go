package parser

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"

	"github.com/toyz/delegate/internal/annotations"
	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/utils"
)

// Scanner walks package-level declarations looking for MarkerTo.
// It is stateless between calls.
type Scanner struct {
	markers     *annotations.MarkerParser
	reporter    *MarkerErrorReporter
	diagnostics *utils.DiagnosticSystem
}

// NewScanner creates a scanner using the default annotation registry
func NewScanner(diagnostics *utils.DiagnosticSystem) *Scanner {
	return &Scanner{
		markers:     annotations.NewMarkerParser(annotations.DefaultRegistry()),
		reporter:    NewMarkerErrorReporter(),
		diagnostics: diagnostics,
	}
}

// Scan returns every marked member in file order, then source order
func (s *Scanner) Scan(pkgs []*Package) []*models.MarkedMember {
	var members []*models.MarkedMember
	for _, pkg := range pkgs {
		for _, file := range pkg.sortedFiles() {
			for _, decl := range file.Decls {
				switch d := decl.(type) {
				case *ast.GenDecl:
					if d.Tok == token.TYPE {
						members = append(members, s.scanTypeDecl(pkg, d)...)
					}
				case *ast.FuncDecl:
					if m := s.scanAccessor(pkg, d); m != nil {
						members = append(members, m)
					}
				}
			}
		}
	}
	return members
}

func (s *Scanner) scanTypeDecl(pkg *Package, decl *ast.GenDecl) []*models.MarkedMember {
	var members []*models.MarkedMember
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			continue
		}
		container, ok := pkg.Info.Defs[ts.Name].(*types.TypeName)
		if !ok {
			continue
		}

		for _, field := range st.Fields.List {
			marker := s.findMarker(pkg, field.Doc, field.Comment)
			if marker == nil {
				continue
			}
			if len(field.Names) != 1 {
				err := s.reporter.ReportMultiNameField(pkg.Fset.Position(field.Pos()), len(field.Names))
				s.diagnostics.Debug("%s", s.reporter.Format(err))
				continue
			}

			obj := pkg.Info.Defs[field.Names[0]]
			if obj == nil {
				s.diagnostics.Debug("%s: unresolved field %s skipped",
					pkg.Fset.Position(field.Pos()), field.Names[0].Name)
				continue
			}

			members = append(members, s.member(pkg, container, obj, obj.Type(), models.FieldMember, marker, field.Pos()))
		}
	}
	return members
}

// scanAccessor recognises a marked zero-argument, single-result method
func (s *Scanner) scanAccessor(pkg *Package, fn *ast.FuncDecl) *models.MarkedMember {
	if fn.Recv == nil || fn.Doc == nil {
		return nil
	}
	marker := s.findMarker(pkg, fn.Doc)
	if marker == nil {
		return nil
	}

	obj, ok := pkg.Info.Defs[fn.Name].(*types.Func)
	if !ok {
		return nil
	}
	sig, ok := obj.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		err := s.reporter.ReportAccessorSignature(pkg.Fset.Position(fn.Pos()), fn.Name.Name,
			sig.Params().Len(), sig.Results().Len())
		s.diagnostics.Warn("%s", s.reporter.Format(err))
		return nil
	}

	recv := sig.Recv().Type()
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = ptr.Elem()
	}
	named, ok := recv.(*types.Named)
	if !ok {
		return nil
	}

	return s.member(pkg, named.Origin().Obj(), obj, sig.Results().At(0).Type(), models.AccessorMember, marker, fn.Pos())
}

func (s *Scanner) member(pkg *Package, container *types.TypeName, obj types.Object, typ types.Type,
	kind models.MemberKind, marker *annotations.ParsedAnnotation, pos token.Pos) *models.MarkedMember {
	m := &models.MarkedMember{
		Name:        obj.Name(),
		Kind:        kind,
		Type:        typ,
		Object:      obj,
		Inline:      marker.Inline(),
		Prefix:      marker.GetString(ParamPrefix),
		Container:   container,
		PackageName: pkg.Name,
		PackageDir:  pkg.Dir,
		Position:    pkg.Fset.Position(pos),
	}
	s.diagnostics.Verbose("Found marked %s %s.%s (inline=%t)", kind, container.Name(), m.Name, m.Inline)
	return m
}

// findMarker returns the first delegate marker among the comment groups
func (s *Scanner) findMarker(pkg *Package, groups ...*ast.CommentGroup) *annotations.ParsedAnnotation {
	for _, group := range groups {
		if group == nil {
			continue
		}
		for _, c := range group.List {
			if !annotations.IsCandidate(c.Text) {
				continue
			}
			position := pkg.Fset.Position(c.Pos())
			loc := annotations.SourceLocation{File: position.Filename, Line: position.Line, Column: position.Column}

			parsed, warnings, err := s.markers.Parse(c.Text, loc)
			if err != nil {
				if !errors.Is(err, annotations.ErrNotAnnotation) {
					s.diagnostics.Warn("%s: %v", position, err)
				} else {
					s.diagnostics.Debug("%s: %v", position, err)
				}
				continue
			}
			for _, w := range warnings {
				s.diagnostics.Warn("%v", w)
			}
			return parsed
		}
	}
	return nil
}
