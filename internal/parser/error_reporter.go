package parser

import (
	"fmt"
	"go/token"

	"github.com/toyz/delegate/internal/models"
)

// MarkerErrorReporter builds detailed errors for markers the scanner has to ignore
type MarkerErrorReporter struct{}

// NewMarkerErrorReporter creates a new reporter
func NewMarkerErrorReporter() *MarkerErrorReporter {
	return &MarkerErrorReporter{}
}

// ReportAccessorSignature describes a marked method that is not an accessor
func (r *MarkerErrorReporter) ReportAccessorSignature(pos token.Position, method string, params, results int) error {
	suggestions := []string{
		"Expected signature: func (r T) " + method + "() V",
	}
	if params > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Remove the %d parameter(s) or move the marker to a field", params))
	}
	if results != 1 {
		suggestions = append(suggestions, "Return exactly one value, the member whose methods are forwarded")
	}

	return &models.GeneratorError{
		Type:        models.ErrorTypeAnnotationSyntax,
		File:        pos.Filename,
		Line:        pos.Line,
		Message:     fmt.Sprintf("%s on method '%s' ignored: accessors take no arguments and return one value", MarkerTo, method),
		Suggestions: suggestions,
		Context: map[string]interface{}{
			"method":  method,
			"params":  params,
			"results": results,
		},
	}
}

// ReportMultiNameField describes a marker on a field list declaring several names
func (r *MarkerErrorReporter) ReportMultiNameField(pos token.Position, names int) error {
	return &models.GeneratorError{
		Type:    models.ErrorTypeValidation,
		File:    pos.Filename,
		Line:    pos.Line,
		Message: fmt.Sprintf("%s on a field declaring %d names skipped", MarkerTo, names),
		Suggestions: []string{
			"Declare the marked field on its own line",
		},
	}
}

// Format renders an error with its suggestions for the diagnostics output
func (r *MarkerErrorReporter) Format(err error) string {
	ge, ok := err.(*models.GeneratorError)
	if !ok || len(ge.Suggestions) == 0 {
		return err.Error()
	}
	out := ge.Error()
	for _, s := range ge.Suggestions {
		out += "\n    " + s
	}
	return out
}
