package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tormodhaugland/ft/internal/fs"
	"github.com/tormodhaugland/ft/internal/tree"
)

// DirBackend stores one document per template in a directory,
// e.g. ~/.config/ft/templates/webapp.json.
type DirBackend struct {
	dir   string
	codec Codec
}

// NewDirBackend returns a backend rooted at dir. A nil codec defaults to JSON.
// The directory is created on first write.
func NewDirBackend(dir string, codec Codec) *DirBackend {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &DirBackend{dir: dir, codec: codec}
}

// Dir returns the templates directory.
func (b *DirBackend) Dir() string {
	return b.dir
}

// Path returns the document path for a template name.
func (b *DirBackend) Path(name string) string {
	return filepath.Join(b.dir, name+b.codec.Ext())
}

func (b *DirBackend) Read(_ context.Context, name string) (*tree.Node, error) {
	path := b.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateNotFoundError{Name: name}
		}
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	root, err := b.codec.Unmarshal(data)
	if err != nil {
		return nil, &InvalidDocumentError{Path: path, Err: err}
	}
	return root, nil
}

// Write encodes root and replaces the document atomically.
func (b *DirBackend) Write(_ context.Context, name string, root *tree.Node) error {
	data, err := b.codec.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding template %s: %w", name, err)
	}

	if err := fs.WriteFileAtomic(b.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("writing template %s: %w", name, err)
	}
	return nil
}

func (b *DirBackend) Exists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(b.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking template %s: %w", name, err)
	}
	return !info.IsDir(), nil
}

// Names lists templates with this backend's extension, skipping hidden files.
func (b *DirBackend) Names(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading templates directory %s: %w", b.dir, err)
	}

	ext := b.codec.Ext()
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		if strings.HasPrefix(file, ".") || !strings.HasSuffix(file, ext) {
			continue
		}
		name := strings.TrimSuffix(file, ext)
		if ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (b *DirBackend) Delete(_ context.Context, name string) error {
	if err := os.Remove(b.Path(name)); err != nil {
		if os.IsNotExist(err) {
			return &TemplateNotFoundError{Name: name}
		}
		return fmt.Errorf("deleting template %s: %w", name, err)
	}
	return nil
}
