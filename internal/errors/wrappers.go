package errors

import "fmt"

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s", item), cause)
}

// WrapLoadError wraps package loading failures
func WrapLoadError(pattern string, cause error) *BaseError {
	return Wrap(LoadErrorCode, fmt.Sprintf("failed to load packages %s", pattern), cause).
		WithContext("pattern", pattern).
		WithSuggestions(
			"Run 'go build' on the package to see the underlying error",
			"Check that the directory belongs to the module being processed",
		)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause).
		WithContext("unit", item)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName).
		WithContext("stage", operation)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(source, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, source)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source).
		WithContext("operation", operation)
}

// ResolutionError reports a marked member whose symbol is neither a field nor an accessor
func ResolutionError(member, kind string, loc SourceLocation) *BaseError {
	return Newf(ResolutionErrorCode, "marked member %s resolved to unsupported %s", member, kind).
		WithLocation(loc).
		WithContext("member", member).
		WithContext("kind", kind).
		WithSuggestions("Only struct fields and zero-argument accessor methods can carry //delegate::to")
}

// CollisionError reports a forwarded name that clashes inside one container
func CollisionError(container, name string, origins []string) *BaseError {
	return Newf(CollisionErrorCode, "forwarded member %s.%s is declared more than once", container, name).
		WithContext("container", container).
		WithContext("name", name).
		WithContext("origins", origins).
		WithSuggestions(
			"Mark only one of the members that provide this name",
			"Tag the conflicting field with `delegate:\"-\"` to skip it",
			"Disable strict mode to let the compiler report the collision",
		)
}
