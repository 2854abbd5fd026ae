package annotations

import "fmt"

// SyntaxError reports a marker whose argument list does not match the grammar
type SyntaxError struct {
	Loc   SourceLocation
	Raw   string
	Cause error
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: malformed annotation arguments in %q, inline disabled: %v",
		e.Loc.File, e.Loc.Line, e.Raw, e.Cause)
}

// Unwrap returns the underlying participle error
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// ValidationError reports an argument that does not match the annotation schema
type ValidationError struct {
	Parameter string
	Expected  string
	Actual    string
	Loc       SourceLocation
	Hint      string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s:%d: parameter '%s': expected %s, got %s",
		e.Loc.File, e.Loc.Line, e.Parameter, e.Expected, e.Actual)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}
