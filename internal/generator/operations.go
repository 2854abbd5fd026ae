package generator

import (
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/templates"
	"github.com/toyz/delegate/internal/utils"
)

// TagKey is the struct tag key that controls property forwarding
const TagKey = "delegate"

// Property tag values
const (
	TagReadOnly  = "readonly"
	TagWriteOnly = "writeonly"
	TagSkip      = "-"
)

// operationBuilder enumerates the forwarders of the members of one container
type operationBuilder struct {
	container   *models.ContainerType
	pkg         *types.Package
	imports     *templates.ImportManager
	qualifier   types.Qualifier
	cache       *typeutil.MethodSetCache
	diagnostics *utils.DiagnosticSystem
}

func newOperationBuilder(c *models.ContainerType, pkg *types.Package, im *templates.ImportManager,
	cache *typeutil.MethodSetCache, diagnostics *utils.DiagnosticSystem) *operationBuilder {
	return &operationBuilder{
		container:   c,
		pkg:         pkg,
		imports:     im,
		qualifier:   im.Qualifier(),
		cache:       cache,
		diagnostics: diagnostics,
	}
}

// build returns the methods and properties surfaced by one member
func (b *operationBuilder) build(m *models.MarkedMember) []models.ForwardedOperation {
	selector := m.Name
	if m.Kind == models.AccessorMember {
		selector += "()"
	}

	var ops []models.ForwardedOperation
	ops = append(ops, b.methods(m, selector)...)
	ops = append(ops, b.properties(m, selector)...)
	return ops
}

func (b *operationBuilder) methods(m *models.MarkedMember, selector string) []models.ForwardedOperation {
	var selections []*types.Selection
	_, isPointer := m.Type.Underlying().(*types.Pointer)
	if m.Kind == models.AccessorMember && !isPointer {
		// the accessor's result is not addressable
		mset := b.cache.MethodSet(m.Type)
		for i := 0; i < mset.Len(); i++ {
			selections = append(selections, mset.At(i))
		}
	} else {
		selections = typeutil.IntuitiveMethodSet(m.Type, b.cache)
	}

	var ops []models.ForwardedOperation
	for _, sel := range selections {
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig, ok := sel.Type().(*types.Signature)
		if !ok {
			continue
		}
		if !nameable(sig, b.pkg) {
			b.diagnostics.Debug("Skipping %s.%s.%s: signature is not expressible in package %s",
				b.container.Name, m.Name, fn.Name(), b.pkg.Path())
			continue
		}

		op := models.ForwardedOperation{
			Kind:   models.MethodOperation,
			Name:   fn.Name(),
			Member: selector,
			Inline: m.Inline,
		}
		op.Params = b.paramTypes(sig)
		for j := 0; j < sig.Results().Len(); j++ {
			op.Results = append(op.Results, types.TypeString(sig.Results().At(j).Type(), b.qualifier))
		}
		b.nameParams(sig, op.Params)
		ops = append(ops, op)
	}
	return ops
}

// paramTypes renders the parameter types of sig
func (b *operationBuilder) paramTypes(sig *types.Signature) []models.Parameter {
	n := sig.Params().Len()
	params := make([]models.Parameter, n)
	for i := 0; i < n; i++ {
		t := sig.Params().At(i).Type()
		if sig.Variadic() && i == n-1 {
			if s, ok := t.(*types.Slice); ok {
				t = s.Elem()
				params[i].Variadic = true
			}
		}
		params[i].Type = types.TypeString(t, b.qualifier)
	}
	return params
}

// nameParams picks parameter names once every type of the signature has
// been rendered, so import names are known when checking for clashes
func (b *operationBuilder) nameParams(sig *types.Signature, params []models.Parameter) {
	used := map[string]bool{b.container.ReceiverName: true}
	for _, tp := range b.container.TypeParams {
		used[tp] = true
	}
	for i := range params {
		name := sig.Params().At(i).Name()
		if name == "" || name == "_" || used[name] || b.imports.Conflicts(name) {
			name = fmt.Sprintf("p%d", i)
		}
		for used[name] || b.imports.Conflicts(name) {
			name = "_" + name
		}
		used[name] = true
		params[i].Name = name
	}
}

// properties returns getters and setters for the exported fields reachable
// through the member, promoted fields included
func (b *operationBuilder) properties(m *models.MarkedMember, selector string) []models.ForwardedOperation {
	base := m.Type
	memberIsPointer := false
	if p, ok := base.Underlying().(*types.Pointer); ok {
		base = p.Elem()
		memberIsPointer = true
	}
	if _, ok := base.Underlying().(*types.Struct); !ok {
		return nil
	}

	var ops []models.ForwardedOperation
	for _, name := range promotedFieldNames(base) {
		obj, index, _ := types.LookupFieldOrMethod(m.Type, true, b.pkg, name)
		field, ok := obj.(*types.Var)
		if !ok || !field.IsField() || !field.Exported() {
			// nil for ambiguous selectors, a *types.Func when a method shadows the field
			continue
		}
		if !nameable(field.Type(), b.pkg) {
			b.diagnostics.Debug("Skipping property %s.%s.%s: type is not expressible in package %s",
				b.container.Name, m.Name, name, b.pkg.Path())
			continue
		}

		tag, throughPointer := walkFieldPath(base, index)
		getter, setter := true, true
		switch reflect.StructTag(tag).Get(TagKey) {
		case TagReadOnly:
			setter = false
		case TagWriteOnly:
			getter = false
		case TagSkip:
			getter, setter = false, false
		}
		if !getter && !setter {
			continue
		}

		observable := memberIsPointer || throughPointer ||
			(m.Kind == models.FieldMember && b.container.Kind == models.PointerKind)
		if setter && !observable {
			b.diagnostics.Verbose("No setter for %s.%s: writes through a %s receiver would be lost",
				b.container.Name, name, b.container.Kind)
			setter = false
		}
		if !getter && !setter {
			continue
		}

		ops = append(ops, models.ForwardedOperation{
			Kind:      models.PropertyOperation,
			Name:      name,
			Member:    selector,
			Inline:    m.Inline,
			Type:      types.TypeString(field.Type(), b.qualifier),
			HasGetter: getter,
			HasSetter: setter,
		})
	}
	return ops
}

// promotedFieldNames lists field names of a struct type breadth first,
// following embedded fields, each name once
func promotedFieldNames(t types.Type) []string {
	var names []string
	seenName := make(map[string]bool)
	seenType := make(map[types.Type]bool)

	level := []types.Type{t}
	for len(level) > 0 {
		var next []types.Type
		for _, typ := range level {
			if p, ok := typ.Underlying().(*types.Pointer); ok {
				typ = p.Elem()
			}
			if seenType[typ] {
				continue
			}
			seenType[typ] = true

			st, ok := typ.Underlying().(*types.Struct)
			if !ok {
				continue
			}
			for i := 0; i < st.NumFields(); i++ {
				f := st.Field(i)
				if !seenName[f.Name()] {
					seenName[f.Name()] = true
					names = append(names, f.Name())
				}
				if f.Embedded() {
					next = append(next, f.Type())
				}
			}
		}
		level = next
	}
	return names
}

// walkFieldPath follows a LookupFieldOrMethod index path from the struct
// type t and returns the final field's tag and whether an embedded pointer
// was dereferenced on the way
func walkFieldPath(t types.Type, index []int) (string, bool) {
	var tag string
	throughPointer := false
	for i, idx := range index {
		st, ok := t.Underlying().(*types.Struct)
		if !ok {
			return "", throughPointer
		}
		f := st.Field(idx)
		tag = st.Tag(idx)
		t = f.Type()
		if i < len(index)-1 {
			if p, ok := t.Underlying().(*types.Pointer); ok {
				t = p.Elem()
				throughPointer = true
			}
		}
	}
	return tag, throughPointer
}

// nameable reports whether t can be spelled in source code of package from
func nameable(t types.Type, from *types.Package) bool {
	return (&nameChecker{from: from, seen: make(map[types.Type]bool)}).check(t)
}

type nameChecker struct {
	from *types.Package
	seen map[types.Type]bool
}

func (n *nameChecker) check(t types.Type) bool {
	if n.seen[t] {
		return true
	}
	n.seen[t] = true

	switch t := t.(type) {
	case *types.Alias:
		// the alias name is what gets printed, so it has to be reachable
		return n.declared(t.Obj(), t.TypeArgs())
	case *types.Basic:
		return t.Kind() != types.Invalid
	case *types.Pointer:
		return n.check(t.Elem())
	case *types.Slice:
		return n.check(t.Elem())
	case *types.Array:
		return n.check(t.Elem())
	case *types.Chan:
		return n.check(t.Elem())
	case *types.Map:
		return n.check(t.Key()) && n.check(t.Elem())
	case *types.Tuple:
		for i := 0; i < t.Len(); i++ {
			if !n.check(t.At(i).Type()) {
				return false
			}
		}
		return true
	case *types.Signature:
		return n.check(t.Params()) && n.check(t.Results())
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			if !f.Exported() && !n.samePackage(f.Pkg()) {
				return false
			}
			if !n.check(f.Type()) {
				return false
			}
		}
		return true
	case *types.Interface:
		for i := 0; i < t.NumExplicitMethods(); i++ {
			m := t.ExplicitMethod(i)
			if !m.Exported() && !n.samePackage(m.Pkg()) {
				return false
			}
			if !n.check(m.Type()) {
				return false
			}
		}
		for i := 0; i < t.NumEmbeddeds(); i++ {
			if !n.check(t.EmbeddedType(i)) {
				return false
			}
		}
		return true
	case *types.Union:
		for i := 0; i < t.Len(); i++ {
			if !n.check(t.Term(i).Type()) {
				return false
			}
		}
		return true
	case *types.TypeParam:
		return true
	case *types.Named:
		return n.declared(t.Obj(), t.TypeArgs())
	default:
		return false
	}
}

// declared checks a type referenced by name, with its type arguments
func (n *nameChecker) declared(obj *types.TypeName, args *types.TypeList) bool {
	if obj.Pkg() == nil {
		return true // error, comparable, any
	}
	if obj.Parent() != obj.Pkg().Scope() && obj.Parent() != nil {
		return false // declared inside a function
	}
	if !n.samePackage(obj.Pkg()) {
		if !obj.Exported() || !importable(obj.Pkg().Path(), n.from.Path()) {
			return false
		}
	}
	for i := 0; i < args.Len(); i++ {
		if !n.check(args.At(i)) {
			return false
		}
	}
	return true
}

func (n *nameChecker) samePackage(pkg *types.Package) bool {
	return pkg != nil && pkg.Path() == n.from.Path()
}

// importable applies the internal directory rule
func importable(path, from string) bool {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part != "internal" {
			continue
		}
		root := strings.Join(parts[:i], "/")
		if root == "" || (from != root && !strings.HasPrefix(from, root+"/")) {
			return false
		}
	}
	return true
}
