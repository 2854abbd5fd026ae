package annotations

import (
	"fmt"
	"sort"
)

// SchemaValidator checks a parsed annotation against its schema
type SchemaValidator interface {
	// Validate returns one error per problem found. The problems are
	// advisory: a marker keeps its meaning whatever the validator reports.
	Validate(annotation *ParsedAnnotation, schema AnnotationSchema) []error
}

type validator struct{}

// NewValidator creates a new schema validator
func NewValidator() SchemaValidator {
	return &validator{}
}

// Validate validates an annotation against its schema
func (v *validator) Validate(annotation *ParsedAnnotation, schema AnnotationSchema) []error {
	var problems []error

	if len(annotation.Positional) > 0 {
		problems = append(problems, &ValidationError{
			Parameter: "(positional)",
			Expected:  "named arguments only",
			Actual:    fmt.Sprintf("%v", annotation.Positional),
			Loc:       annotation.Location,
			Hint:      "positional arguments disable inlining",
		})
	}

	keys := make([]string, 0, len(annotation.Parameters))
	for key := range annotation.Parameters {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, known := schema.Parameters[key]; !known {
			problems = append(problems, &ValidationError{
				Parameter: key,
				Expected:  "known parameter",
				Actual:    fmt.Sprintf("unknown parameter '%s'", key),
				Loc:       annotation.Location,
				Hint:      fmt.Sprintf("Remove -%s or check parameter name spelling", key),
			})
		}
	}

	if annotation.HasParameter("Inline") && annotation.Named > 1 {
		problems = append(problems, &ValidationError{
			Parameter: "Inline",
			Expected:  "the only argument",
			Actual:    fmt.Sprintf("%d named arguments", annotation.Named),
			Loc:       annotation.Location,
			Hint:      "Inline is only honoured when it is the sole argument",
		})
	}

	return problems
}
