package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no API key was found in the flag, the
	// environment or the configuration file.
	ErrMissingCredential = errors.New("missing OpenAI API key")

	// ErrMissingVariable means a prompt template references a slot that was
	// not supplied.
	ErrMissingVariable = errors.New("missing template variable")

	// ErrBackendFailure wraps every error raised by a model backend.
	ErrBackendFailure = errors.New("model backend failure")

	// ErrEmptyResponse means the backend answered without usable text.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrUnknownSetting is returned for configuration keys that do not exist.
	ErrUnknownSetting = errors.New("unknown configuration key")
)

// MissingVariableError names the template and slot that could not be filled.
type MissingVariableError struct {
	Kind string
	Slot string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("%s: %q required by %s prompt", ErrMissingVariable, e.Slot, e.Kind)
}

func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// BackendError records which backend failed.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrBackendFailure, e.Backend, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendFailure, e.Err}
}
