// Package materialize creates real directories matching a template tree.
package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tormodhaugland/ft/internal/log"
	"github.com/tormodhaugland/ft/internal/tree"
)

// FS is the filesystem the engine writes to.
type FS interface {
	// CreateDirectory creates path and any missing parents. An existing
	// directory is not an error.
	CreateDirectory(path string) error
	HomeDirectory() (string, error)
}

// OSFS is the real filesystem.
type OSFS struct{}

func (OSFS) CreateDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (OSFS) HomeDirectory() (string, error) {
	return os.UserHomeDir()
}

// Engine walks a tree and creates one directory per folder.
type Engine struct {
	FS     FS
	DryRun bool
}

// New returns an engine on the real filesystem.
func New() *Engine {
	return &Engine{FS: OSFS{}}
}

// Result lists what was (or, in dry-run mode, would be) created.
type Result struct {
	Root    string   `json:"root"`
	Created []string `json:"created"`
	DryRun  bool     `json:"dry_run,omitempty"`
}

// Materialize creates dest and then a directory for every folder under root,
// depth-first with parents before children. The tree is not modified.
// The context is checked before each directory, so cancellation stops the walk
// between steps; directories already created are left in place.
func (e *Engine) Materialize(ctx context.Context, root *tree.Node, dest string) (*Result, error) {
	dest, err := e.ResolveDestination(dest)
	if err != nil {
		return nil, err
	}

	result := &Result{Root: dest, DryRun: e.DryRun}
	if err := e.mkdir(ctx, dest, result); err != nil {
		return result, err
	}

	err = root.Walk(func(path []string, _ *tree.Node) error {
		return e.mkdir(ctx, filepath.Join(append([]string{dest}, path...)...), result)
	})
	return result, err
}

func (e *Engine) mkdir(ctx context.Context, path string, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := log.FromContext(ctx)
	if e.DryRun {
		logger.Verbosef("would create %s\n", path)
		result.Created = append(result.Created, path)
		return nil
	}
	if err := e.FS.CreateDirectory(path); err != nil {
		return &DirectoryError{Path: path, Err: err}
	}
	logger.Verbosef("created %s\n", path)
	result.Created = append(result.Created, path)
	return nil
}

// ResolveDestination expands a leading ~ and defaults an empty destination to the
// home directory. Relative paths are made absolute.
func (e *Engine) ResolveDestination(dest string) (string, error) {
	if dest == "" || dest == "~" || strings.HasPrefix(dest, "~/") {
		home, err := e.FS.HomeDirectory()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		if len(dest) > 2 {
			return filepath.Join(home, dest[2:]), nil
		}
		return home, nil
	}
	return filepath.Abs(dest)
}

// DirectoryError indicates a directory could not be created.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("creating directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}
