package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRegistration matches attempts to register a template twice.
	ErrDuplicateRegistration = errors.New("duplicate registration")
	// ErrAlreadyDeclared is returned by a second Declare on the same registry.
	ErrAlreadyDeclared = errors.New("registry already declared")
)

// DuplicateRegistrationError names the template registered twice.
type DuplicateRegistrationError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("duplicated table: %s", e.Name)
}

// Is makes the error match ErrDuplicateRegistration.
func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}
