package annotations

import (
	"fmt"
	"strconv"
)

// Namespace is the prefix every annotation of this tool carries: //delegate::<type>
const Namespace = "delegate"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	DelegateAnnotation AnnotationType = iota
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case DelegateAnnotation:
		return "to"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "to":
		return DelegateAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// ParsedAnnotation is a marker comment after parsing and schema conversion
type ParsedAnnotation struct {
	Type       AnnotationType
	Parameters map[string]interface{} // named arguments, converted per schema
	Positional []string               // bare arguments
	Named      int                    // number of named arguments as written
	Malformed  bool                   // the argument list did not parse
	Location   SourceLocation
	Raw        string
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// HasParameter reports whether the named argument was written
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, ok := p.Parameters[paramName]
	return ok
}

// Inline reports whether forwarders for this member should carry the inline
// directive. Only a marker whose sole argument is a literal-true Inline flag
// qualifies; every other shape yields false.
func (p *ParsedAnnotation) Inline() bool {
	if p.Malformed || len(p.Positional) > 0 || p.Named != 1 {
		return false
	}
	v, ok := p.Parameters["Inline"].(bool)
	return ok && v
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec describes one named argument of an annotation
type ParameterSpec struct {
	Type         ParameterType
	DefaultValue interface{}
	Description  string
}

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}

// convertValue converts a raw argument to the parameter's declared type.
// Booleans must be written as the bare literals true or false.
func convertValue(spec ParameterSpec, v *Value) (interface{}, error) {
	switch spec.Type {
	case BoolType:
		if v.Bool == nil {
			return nil, fmt.Errorf("expected boolean literal, got %s", v.String())
		}
		return strconv.ParseBool(*v.Bool)
	default:
		return v.Text(), nil
	}
}
