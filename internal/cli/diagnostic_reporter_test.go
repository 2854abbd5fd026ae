package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	derrors "github.com/toyz/delegate/internal/errors"
	"github.com/toyz/delegate/internal/models"
)

func init() {
	color.NoColor = true
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterTo(false, &buf, &buf)

	reporter.ReportWarning("Parent.X is forwarded twice", "Mark only one member")

	output := buf.String()
	assert.Contains(t, output, "! Parent.X is forwarded twice")
	assert.Contains(t, output, "   - Mark only one member")
}

func TestDiagnosticReporter_ReportGeneratorError(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterTo(false, &buf, &buf)

	reporter.ReportError(&models.GeneratorError{
		Type:    models.ErrorTypeGeneration,
		File:    "family.go",
		Line:    12,
		Message: "cannot forward Parent.Child: it is a *types.Const",
		Suggestions: []string{
			"Place //delegate::to on a struct field",
		},
		Context: map[string]interface{}{
			"member_name": "Child",
			"source":      "package family",
		},
	})

	output := buf.String()
	for _, expected := range []string{
		"ERROR: Code Generation Failed",
		"Type: Code Generation Error",
		"Message: cannot forward Parent.Child",
		"Location: family.go:12",
		"Member Name: Child",
		"1. Place //delegate::to on a struct field",
		"Forwarding Requirements:",
	} {
		assert.Contains(t, output, expected)
	}
	assert.NotContains(t, output, "package family")
}

func TestDiagnosticReporter_ReportDelegateError(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterTo(true, &buf, &buf)

	multi := &derrors.MultipleErrors{}
	multi.Add(derrors.CollisionError("Parent", "X", []string{"member Child", "member Child2"}))
	multi.Add(derrors.CollisionError("Parent", "Close", []string{"method Parent.Close", "member Child"}))

	reporter.ReportError(derrors.WrapGenerateError("example.com/fam/family.Parent", multi))

	output := buf.String()
	assert.Contains(t, output, "Type: Code Generation Error")
	assert.Contains(t, output, "Parent")
	assert.Contains(t, output, "Error Chain:")
}

func TestDiagnosticReporter_ReportBasicError(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterTo(false, &buf, &buf)

	reporter.ReportError(fmt.Errorf("go.mod file not found above /tmp/x"))

	output := buf.String()
	assert.Contains(t, output, "Message: go.mod file not found above /tmp/x")
	assert.Contains(t, output, "This appears to be a module-related issue")
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	summary := GenerationSummary{
		PackagesProcessed: 3,
		MembersFound:      4,
		UnitsGenerated:    2,
		UnitsWritten:      1,
		UnitsUnchanged:    1,
		Warnings:          1,
		GeneratedFiles:    []string{"family/autogen_delegate_parent.go", "zoo/autogen_delegate_cage.go"},
		PrunedFiles:       []string{"family/autogen_delegate_old.go"},
	}

	t.Run("write", func(t *testing.T) {
		var buf bytes.Buffer
		NewDiagnosticReporterTo(false, &buf, &buf).ReportSuccess(summary)

		output := buf.String()
		for _, expected := range []string{
			"Code Generation Completed Successfully!",
			"Processed 3 packages",
			"Found 4 marked members",
			"Generated 2 units (1 written, 1 unchanged)",
			"Removed 1 stale units",
			"Warnings: 1",
			"family/autogen_delegate_parent.go",
		} {
			assert.Contains(t, output, expected)
		}
		assert.NotContains(t, output, "Removed files:")
	})

	t.Run("dry run", func(t *testing.T) {
		var buf bytes.Buffer
		dry := summary
		dry.DryRun = true
		NewDiagnosticReporterTo(true, &buf, &buf).ReportSuccess(dry)

		assert.Contains(t, buf.String(), "Dry Run Completed")
		assert.Contains(t, buf.String(), "family/autogen_delegate_old.go")
	})
}

func TestFormatContextKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"member", "Member"},
		{"member_name", "Member Name"},
		{"provided_module", "Provided Module"},
		{"another_test_key", "Another Test Key"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatContextKey(tt.input))
		})
	}
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "b", "a"}))
	assert.Empty(t, dedupe(nil))
}
