package annotations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrNotAnnotation is returned for comments that are not annotations of this tool
var ErrNotAnnotation = errors.New("not a delegate annotation")

// Annotation is the grammar root: //delegate::<type> <argument>*
type Annotation struct {
	Namespace string      `parser:"Comment @Ident Separator"`
	Type      string      `parser:"@Ident"`
	Arguments []*Argument `parser:"@@*"`
}

// Argument is either -Key[=Value] or a bare value
type Argument struct {
	Named      *NamedArgument `parser:"  @@"`
	Positional *Value         `parser:"| @@"`
}

// NamedArgument is a -Key or -Key=Value argument
type NamedArgument struct {
	Key   string `parser:"Dash @Ident"`
	Value *Value `parser:"(Equals @@)?"`
}

// Value is an argument value
type Value struct {
	Str    *string `parser:"  @String"`
	Bool   *string `parser:"| @('true' | 'false')"`
	Number *string `parser:"| @Number"`
	Ident  *string `parser:"| @Ident"`
}

// Text returns the value as written, without quotes
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.Str != nil:
		return *v.Str
	case v.Bool != nil:
		return *v.Bool
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// String implements fmt.Stringer
func (v *Value) String() string {
	if v != nil && v.Str != nil {
		return fmt.Sprintf("%q", *v.Str)
	}
	return v.Text()
}

type annotationHeader struct {
	Namespace string `parser:"Comment @Ident Separator"`
	Type      string `parser:"@Ident"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

// MarkerParser parses delegate annotations out of Go comments
type MarkerParser struct {
	parser   *participle.Parser[Annotation]
	header   *participle.Parser[annotationHeader]
	registry AnnotationRegistry
}

// NewMarkerParser creates a parser that converts arguments using the registry's schemas
func NewMarkerParser(registry AnnotationRegistry) *MarkerParser {
	return &MarkerParser{
		parser: participle.MustBuild[Annotation](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
		header: participle.MustBuild[annotationHeader](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
		),
		registry: registry,
	}
}

// IsCandidate reports whether a comment could hold an annotation of this tool
func IsCandidate(comment string) bool {
	return strings.Contains(comment, Namespace+"::")
}

// Parse parses one comment line. Comments that are not annotations of a
// registered type return ErrNotAnnotation. An annotation whose argument list
// cannot be parsed is still returned, flagged Malformed, with the syntax error
// recorded in Warnings.
func (p *MarkerParser) Parse(comment string, location SourceLocation) (*ParsedAnnotation, []error, error) {
	text := strings.TrimSpace(comment)
	if !IsCandidate(text) {
		return nil, nil, ErrNotAnnotation
	}

	ast, parseErr := p.parser.ParseString(location.File, text)
	if parseErr != nil {
		head, err := p.header.ParseString(location.File, text, participle.AllowTrailing(true))
		if err != nil || head.Namespace != Namespace {
			return nil, nil, ErrNotAnnotation
		}
		annotationType, err := ParseAnnotationType(head.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrNotAnnotation, err)
		}
		parsed := &ParsedAnnotation{
			Type:       annotationType,
			Parameters: make(map[string]interface{}),
			Malformed:  true,
			Location:   location,
			Raw:        text,
		}
		return parsed, []error{&SyntaxError{Loc: location, Raw: text, Cause: parseErr}}, nil
	}

	if ast.Namespace != Namespace {
		return nil, nil, ErrNotAnnotation
	}
	annotationType, err := ParseAnnotationType(ast.Type)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotAnnotation, err)
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        text,
	}

	var schema AnnotationSchema
	if p.registry != nil {
		schema, _ = p.registry.GetSchema(annotationType)
	}

	var warnings []error
	for _, arg := range ast.Arguments {
		if arg.Positional != nil {
			parsed.Positional = append(parsed.Positional, arg.Positional.Text())
			continue
		}
		parsed.Named++
		if w := p.assign(parsed, schema, arg.Named); w != nil {
			warnings = append(warnings, w)
		}
	}

	warnings = append(warnings, NewValidator().Validate(parsed, schema)...)
	return parsed, warnings, nil
}

// assign stores a named argument converted to its schema type
func (p *MarkerParser) assign(parsed *ParsedAnnotation, schema AnnotationSchema, arg *NamedArgument) error {
	spec, known := schema.Parameters[arg.Key]
	if !known {
		if arg.Value == nil {
			parsed.Parameters[arg.Key] = true
		} else {
			parsed.Parameters[arg.Key] = arg.Value.Text()
		}
		return nil
	}

	if arg.Value == nil {
		switch {
		case spec.Type == BoolType:
			parsed.Parameters[arg.Key] = true
		case spec.DefaultValue != nil:
			parsed.Parameters[arg.Key] = spec.DefaultValue
		default:
			parsed.Parameters[arg.Key] = ""
		}
		return nil
	}

	value, err := convertValue(spec, arg.Value)
	if err != nil {
		return &ValidationError{
			Parameter: arg.Key,
			Expected:  spec.Type.String(),
			Actual:    arg.Value.String(),
			Loc:       parsed.Location,
			Hint:      fmt.Sprintf("write -%s or -%s=true", arg.Key, arg.Key),
		}
	}
	parsed.Parameters[arg.Key] = value
	return nil
}
