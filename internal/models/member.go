package models

import (
	"go/token"
	"go/types"
	"strings"
)

// MarkedMember is a field or accessor carrying the delegation marker
type MarkedMember struct {
	Name   string       // field or accessor name
	Kind   MemberKind   // declaration form
	Type   types.Type   // field type, or the accessor's single result type
	Object types.Object // resolved symbol
	Inline bool         // forwarders get the inline directive
	Prefix string       // carried from the marker, not used when emitting

	Container   *types.TypeName // named type that declares the member
	PackageName string
	PackageDir  string
	Position    token.Position
}

// ContainerName returns the unqualified name of the containing type
func (m *MarkedMember) ContainerName() string {
	if m.Container == nil {
		return ""
	}
	return m.Container.Name()
}

// QualifiedContainer returns the fully qualified name of the containing type.
// Members are grouped into generated units by this key.
func (m *MarkedMember) QualifiedContainer() string {
	if m.Container == nil {
		return ""
	}
	if pkg := m.Container.Pkg(); pkg != nil {
		return pkg.Path() + "." + m.Container.Name()
	}
	return m.Container.Name()
}

// ContainerType describes the named type that receives forwarding methods
type ContainerType struct {
	Name          string
	QualifiedName string
	PackagePath   string
	PackageName   string
	Dir           string
	Exported      bool
	Kind          ReceiverKind
	ReceiverName  string
	TypeParams    []string
	Named         *types.Named
}

// ReceiverType renders the receiver type expression, e.g. "*Box[T]"
func (c *ContainerType) ReceiverType() string {
	name := c.Name
	if len(c.TypeParams) > 0 {
		name += "[" + strings.Join(c.TypeParams, ", ") + "]"
	}
	if c.Kind == PointerKind {
		return "*" + name
	}
	return name
}
