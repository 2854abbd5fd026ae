package models

// Parameter is one parameter of a forwarded method
type Parameter struct {
	Name     string
	Type     string // rendered type; for variadic params the element type
	Variadic bool
}

// ForwardedOperation is a method or property surfaced on a container
type ForwardedOperation struct {
	Kind   OperationKind
	Name   string
	Member string // selector path to the marked member, e.g. "Child" or "Child()"
	Inline bool

	// methods
	Params  []Parameter
	Results []string

	// properties
	Type      string
	HasGetter bool
	HasSetter bool
}

// Names returns the method names the operation occupies on the container
func (o ForwardedOperation) Names() []string {
	if o.Kind == MethodOperation {
		return []string{o.Name}
	}
	var names []string
	if o.HasGetter {
		names = append(names, o.Name)
	}
	if o.HasSetter {
		names = append(names, SetterName(o.Name))
	}
	return names
}

// SetterName returns the setter method name for a property
func SetterName(property string) string {
	return "Set" + property
}

// GeneratedUnit is one emitted source file for one containing type
type GeneratedUnit struct {
	Name        string // fully qualified container name
	FileName    string
	FilePath    string
	PackageName string
	Dir         string
	Content     []byte
	Container   *ContainerType
	Operations  []ForwardedOperation
}

// IsMethod reports whether the operation forwards a method
func (o ForwardedOperation) IsMethod() bool {
	return o.Kind == MethodOperation
}
