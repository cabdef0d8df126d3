package tree

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrNameConflict      = errors.New("name conflict")
	ErrAtRoot            = errors.New("already at root")
	ErrCircularReference = errors.New("circular reference")
	ErrInvalidName       = errors.New("invalid folder name")
)

// NotFoundError indicates a folder name or path segment does not exist.
type NotFoundError struct {
	Name string
	Path []string
}

func (e *NotFoundError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("folder not found: %s (in /%s)", e.Name, strings.Join(e.Path, "/"))
	}
	return fmt.Sprintf("folder not found: %s", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NameConflictError indicates a sibling with the same name already exists.
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("folder already exists: %s", e.Name)
}

func (e *NameConflictError) Is(target error) bool {
	return target == ErrNameConflict
}

// AtRootError indicates an attempt to navigate above the root.
type AtRootError struct{}

func (e *AtRootError) Error() string {
	return "cannot navigate up: already at root"
}

func (e *AtRootError) Is(target error) bool {
	return target == ErrAtRoot
}

// CircularReferenceError indicates a merge would make a subtree contain itself.
type CircularReferenceError struct {
	Target []string
	Reason string
}

func (e *CircularReferenceError) Error() string {
	msg := fmt.Sprintf("circular reference: cannot copy into /%s", strings.Join(e.Target, "/"))
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *CircularReferenceError) Is(target error) bool {
	return target == ErrCircularReference
}

// InvalidNameError indicates a folder name that cannot be used on disk.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid folder name %q: %s", e.Name, e.Reason)
}

func (e *InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}
