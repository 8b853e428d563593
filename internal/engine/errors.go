package engine

import "fmt"

// InvalidInputError indicates a caller-supplied value the engine cannot
// compute on, such as a negative price or a non-positive term. It is raised
// before any arithmetic runs, so partial results never escape.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}

// ConfigurationError indicates a rate schedule that cannot support the
// requested computation: unsorted breakpoints or brackets, or a tier table
// that fails to cover the requested house count.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rate schedule: %s", e.Detail)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

func configError(format string, args ...interface{}) error {
	return &ConfigurationError{Detail: fmt.Sprintf(format, args...)}
}
