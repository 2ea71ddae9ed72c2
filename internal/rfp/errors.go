package rfp

import "fmt"

// ValidationError reports malformed input: an RFP or catalog item that breaks
// its invariants, or a pipeline parameter out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigurationError reports a lookup key missing from a reference table.
type ConfigurationError struct {
	Table string
	Key   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s has no entry for %q", e.Table, e.Key)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
