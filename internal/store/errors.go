package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound      = errors.New("template not found")
	ErrAlreadyExists = errors.New("template already exists")
)

// TemplateNotFoundError indicates a template does not exist.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

func (e *TemplateNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError indicates a template name is already taken.
type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("template already exists: %s", e.Name)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// InvalidDocumentError indicates a stored template could not be decoded.
type InvalidDocumentError struct {
	Path string
	Err  error
}

func (e *InvalidDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid template document at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid template document at %s", e.Path)
}

func (e *InvalidDocumentError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a template name was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template validation failed: %s - %s", e.Field, e.Reason)
}
