package errors

import "slices"

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithCause sets the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// ValidationError creates a validation (usage) error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// RenderError creates a template rendering error.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Fatal()
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}

// ConfigParseError reports a configuration file that cannot be decoded.
func ConfigParseError(path string, cause error) *ClassifiedError {
	return WrapError(cause, CategoryConfig, "parse configuration").
		Fatal().
		WithContext("path", path).
		Build()
}

// MissingSectionError reports required fragment keys absent from the loaded sections.
func MissingSectionError(missing []string) *ClassifiedError {
	keys := slices.Clone(missing)
	slices.Sort(keys)
	return NewError(CategorySections, "missing required sections").
		Fatal().
		WithContext("missing", keys).
		Build()
}

// NoTargetsEnabledError reports that no output target was selected.
func NoTargetsEnabledError() *ClassifiedError {
	return NewError(CategoryTargets, "no output targets enabled").
		Fatal().
		Build()
}

// IsConfigParse reports whether err is a ConfigParseError.
func IsConfigParse(err error) bool { return HasCategory(err, CategoryConfig) }

// IsMissingSection reports whether err is a MissingSectionError.
func IsMissingSection(err error) bool { return HasCategory(err, CategorySections) }

// IsNoTargetsEnabled reports whether err is a NoTargetsEnabledError.
func IsNoTargetsEnabled(err error) bool { return HasCategory(err, CategoryTargets) }

// MissingKeys returns the missing section keys carried by a MissingSectionError.
func MissingKeys(err error) []string {
	classified, ok := AsClassified(err)
	if !ok {
		return nil
	}
	keys, _ := classified.Context().GetStrings("missing")
	return keys
}
