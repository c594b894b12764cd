package requirements

import (
	"errors"
	"fmt"

	"github.com/vk/schematemplate/internal/tabledef"
)

// ErrMissingDependency matches every dependency validation failure.
var ErrMissingDependency = errors.New("missing dependency")

// MissingDependencyError names the dependency that could not be resolved.
type MissingDependencyError struct {
	Name   string
	Kind   tabledef.Kind
	Reason string
}

// Error implements the error interface.
func (e *MissingDependencyError) Error() string {
	msg := fmt.Sprintf("requiring %s: %s", e.Kind, e.Name)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is makes the error match ErrMissingDependency.
func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}
