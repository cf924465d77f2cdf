package lifecycle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrValidation matches every rejected request.
	ErrValidation = errors.New("validation failed")
	ErrJobLocked  = errors.New("job is locked")
)

// ValidationError is a user-facing rejection. Nothing was written when one is returned.
type ValidationError struct {
	// Fields maps a request field to the rule it broke.
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := ErrValidation.Error()
	if e.Err != nil && !errors.Is(e.Err, ErrValidation) {
		msg = e.Err.Error()
	}
	if len(e.Fields) == 0 {
		return msg
	}

	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, f := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}, Err: ErrValidation}
}

func locked(id string) *ValidationError {
	return &ValidationError{Err: fmt.Errorf("%w: %s", ErrJobLocked, id)}
}

// fromValidator flattens validator errors into field -> rule.
func fromValidator(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields, Err: ErrValidation}
}
