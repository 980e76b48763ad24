// Package errors provides the classified error primitives used across pvlsite.
//
// A ClassifiedError carries a category, a severity, a human message, an optional
// cause and structured context. The generator's error taxonomy is expressed as
// constructors on top of the fluent builder:
//
//   - ConfigParseError: the configuration file is not valid JSON for the schema
//   - MissingSectionError: one or more required fragments are absent
//   - NoTargetsEnabledError: neither flags nor configuration select an output target
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page").
//		WithContext("path", path).
//		Build()
//
// The CLI adapter turns any error into an exit status and a user-facing line.
package errors
