package model

import "fmt"

// ValidationError reports a single field that failed a format or
// required-ness check. It is transient: produced by validators, consumed by
// the wizard or the submission pipeline, never persisted.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}
