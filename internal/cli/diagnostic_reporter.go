package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stdout/stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// NewDiagnosticReporterTo creates a reporter writing summaries to out and
// errors and warnings to errOut
func NewDiagnosticReporterTo(verbose bool, out, errOut io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out, errOut: errOut}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
	for _, s := range suggestions {
		fmt.Fprintf(r.errOut, "   - %s\n", s)
	}
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.errOut, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.errOut, "=============================\n\n")

	var genErr *models.GeneratorError
	var delegateErr derrors.DelegateError
	switch {
	case errors.As(err, &genErr):
		r.reportGeneratorError(genErr)
	case errors.As(err, &delegateErr):
		r.reportDelegateError(err, delegateErr)
	default:
		r.reportBasicError(err)
	}

	fmt.Fprintf(r.errOut, "\n")
}

// reportGeneratorError reports a GeneratorError with full context and suggestions
func (r *DiagnosticReporter) reportGeneratorError(genErr *models.GeneratorError) {
	r.printErrorHeader(errorTypeTitle(genErr.Type))

	fmt.Fprintf(r.errOut, "Message: %s\n\n", genErr.Message)

	if r.verbose && genErr.Cause != nil {
		fmt.Fprintf(r.errOut, "Underlying cause: %s\n\n", genErr.Cause.Error())
	}

	if genErr.File != "" {
		if genErr.Line > 0 {
			fmt.Fprintf(r.errOut, "Location: %s:%d\n\n", genErr.File, genErr.Line)
		} else {
			fmt.Fprintf(r.errOut, "File: %s\n\n", genErr.File)
		}
	}

	if len(genErr.Context) > 0 {
		r.printContext(genErr.Context)
	}
	if len(genErr.Suggestions) > 0 {
		r.printSuggestions(genErr.Suggestions)
	}

	r.printAdditionalHelp(genErr.Type)

	if r.verbose {
		r.printErrorChain(genErr.Cause)
	}
}

// reportDelegateError reports errors built with the internal/errors helpers.
// err is the outermost error so the full chain stays visible.
func (r *DiagnosticReporter) reportDelegateError(err error, de derrors.DelegateError) {
	r.printErrorHeader(errorCodeTitle(de.ErrorCode()))

	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	if loc := de.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n\n", loc)
	}
	if ctx := de.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	suggestions := de.Suggestions()
	var multi *derrors.MultipleErrors
	if errors.As(err, &multi) {
		for _, e := range multi.Errors {
			suggestions = append(suggestions, e.Suggestions()...)
		}
	}
	if len(suggestions) > 0 {
		r.printSuggestions(dedupe(suggestions))
	}

	if r.verbose {
		r.printErrorChain(errors.Unwrap(err))
	}
}

// reportBasicError reports a basic error without rich context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errorMsg, "go.mod") || strings.Contains(errorMsg, "module"):
		fmt.Fprintf(r.errOut, "This appears to be a module-related issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Run delegate from inside a Go module\n")
		fmt.Fprintf(r.errOut, "  - Check your go.mod file\n")
		fmt.Fprintf(r.errOut, "  - Try specifying --module flag explicitly\n\n")
	case strings.Contains(errorMsg, "config"):
		fmt.Fprintf(r.errOut, "This appears to be a configuration issue.\n")
		fmt.Fprintf(r.errOut, "Common solutions:\n")
		fmt.Fprintf(r.errOut, "  - Check .delegate.yaml for typos\n")
		fmt.Fprintf(r.errOut, "  - Check DELEGATE_* environment variables\n\n")
	}
}

func (r *DiagnosticReporter) printErrorHeader(title string) {
	fmt.Fprintf(r.errOut, "Type: %s\n", title)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(title)+6))
}

func errorTypeTitle(t models.ErrorType) string {
	switch t {
	case models.ErrorTypeAnnotationSyntax:
		return "Annotation Syntax Error"
	case models.ErrorTypeValidation:
		return "Validation Error"
	case models.ErrorTypeGeneration:
		return "Code Generation Error"
	case models.ErrorTypeFileSystem:
		return "File System Error"
	case models.ErrorTypeLoad:
		return "Package Load Error"
	case models.ErrorTypeCollision:
		return "Name Collision"
	case models.ErrorTypeConfiguration:
		return "Configuration Error"
	default:
		return "Unknown Error"
	}
}

func errorCodeTitle(code derrors.ErrorCode) string {
	switch code {
	case derrors.SyntaxErrorCode:
		return "Annotation Syntax Error"
	case derrors.ValidationErrorCode:
		return "Validation Error"
	case derrors.LoadErrorCode:
		return "Package Load Error"
	case derrors.ResolutionErrorCode:
		return "Resolution Error"
	case derrors.CollisionErrorCode:
		return "Name Collision"
	case derrors.GenerationErrorCode:
		return "Code Generation Error"
	case derrors.TemplateErrorCode:
		return "Template Error"
	case derrors.FileSystemErrorCode:
		return "File System Error"
	case derrors.ConfigurationErrorCode:
		return "Configuration Error"
	default:
		return "Unknown Error"
	}
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.errOut, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "source" && !r.verbose {
			continue
		}
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.errOut, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

// printAdditionalHelp prints additional help based on error type
func (r *DiagnosticReporter) printAdditionalHelp(errorType models.ErrorType) {
	switch errorType {
	case models.ErrorTypeAnnotationSyntax:
		fmt.Fprintf(r.errOut, "Marker Syntax Help:\n")
		fmt.Fprintf(r.errOut, "  - Markers are written //delegate::to [-Inline] on a struct field\n")
		fmt.Fprintf(r.errOut, "  - A marked method must take no arguments and return one value\n\n")
	case models.ErrorTypeGeneration:
		fmt.Fprintf(r.errOut, "Forwarding Requirements:\n")
		fmt.Fprintf(r.errOut, "  - The marked member must be a named struct field or an accessor method\n")
		fmt.Fprintf(r.errOut, "  - The containing type must be declared at package level\n\n")
	}

	fmt.Fprintf(r.errOut, "For more help:\n")
	fmt.Fprintf(r.errOut, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.errOut, "  - Review the example in examples/family\n")
}

// printErrorChain prints the wrapped causes of an error
func (r *DiagnosticReporter) printErrorChain(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(r.errOut, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.errOut, "  %d. %s\n", level, err.Error())
		err = errors.Unwrap(err)
	}
	fmt.Fprintf(r.errOut, "\n")
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	if summary.DryRun {
		fmt.Fprintf(r.out, "\nDry Run Completed\n")
		fmt.Fprintf(r.out, "=================\n\n")
	} else {
		fmt.Fprintf(r.out, "\nCode Generation Completed Successfully!\n")
		fmt.Fprintf(r.out, "=======================================\n\n")
	}

	fmt.Fprintf(r.out, "Processed %d packages\n", summary.PackagesProcessed)
	fmt.Fprintf(r.out, "Found %d marked members\n", summary.MembersFound)
	fmt.Fprintf(r.out, "Generated %d units (%d written, %d unchanged)\n",
		summary.UnitsGenerated, summary.UnitsWritten, summary.UnitsUnchanged)
	if len(summary.PrunedFiles) > 0 {
		fmt.Fprintf(r.out, "Removed %d stale units\n", len(summary.PrunedFiles))
	}
	if summary.Warnings > 0 {
		fmt.Fprintf(r.out, "Warnings: %d\n", summary.Warnings)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
	if r.verbose && len(summary.PrunedFiles) > 0 {
		fmt.Fprintf(r.out, "\nRemoved files:\n")
		for _, file := range summary.PrunedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
