package normalize

import "fmt"

// ProcessError is a schema mismatch: a payload is missing a field the target
// table requires, or carries a value that cannot be coerced to the target
// type. It is fatal for the payload it names and for nothing else.
type ProcessError struct {
	Table  string
	Field  string
	Reason string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("schema mismatch in %s.%s: %s", e.Table, e.Field, e.Reason)
}

func mismatch(table, field, format string, args ...any) *ProcessError {
	return &ProcessError{Table: table, Field: field, Reason: fmt.Sprintf(format, args...)}
}
