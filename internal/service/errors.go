package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kavirajan452/poel-step-registeration-form/internal/model"
)

var (
	ErrTokenInvalid    = errors.New("intake token mismatch")
	ErrFormTypeInvalid = errors.New("unknown form type")
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("registration not found")
)

// ValidationErrors aggregates the per-field failures of one submission.
type ValidationErrors []model.ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FileConstraintError reports an upload rejected by the size or content-type
// limits. The upload is discarded; no record is created.
type FileConstraintError struct {
	Field  string
	Reason string
}

func (e *FileConstraintError) Error() string {
	return fmt.Sprintf("file %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps a storage or database failure inside the submission
// pipeline. Op names the step that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
