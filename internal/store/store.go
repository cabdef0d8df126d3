// Package store keeps the catalog of named folder templates on top of a
// pluggable persistence backend.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tormodhaugland/ft/internal/tree"
)

// Store is a catalog of named templates. Loaded trees stay resident so repeated
// loads return the same instance. Mutating calls are serialized per template
// name; a resident *tree.Tree itself has no locking, so callers that share a
// Store across goroutines should mutate trees through Update.
type Store struct {
	backend Backend

	mu       sync.Mutex
	resident map[string]*tree.Tree
	locks    map[string]*sync.Mutex
}

// New returns a store over backend.
func New(backend Backend) *Store {
	return &Store{
		backend:  backend,
		resident: make(map[string]*tree.Tree),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Create registers a new empty template and writes it to the backend.
func (s *Store) Create(ctx context.Context, name string) (*tree.Tree, error) {
	return s.create(ctx, name, tree.New())
}

// Import registers a new template with the given root.
func (s *Store) Import(ctx context.Context, name string, root *tree.Node) (*tree.Tree, error) {
	return s.create(ctx, name, tree.FromNode(root))
}

func (s *Store) create(ctx context.Context, name string, t *tree.Tree) (*tree.Tree, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	unlock := s.lockNames(name)
	defer unlock()

	if err := s.ensureAbsent(ctx, name); err != nil {
		return nil, err
	}
	if err := s.backend.Write(ctx, name, t.Root()); err != nil {
		return nil, err
	}
	s.setResident(name, t)
	return t, nil
}

// Load returns the resident template, reading it from the backend on first use.
func (s *Store) Load(ctx context.Context, name string) (*tree.Tree, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	unlock := s.lockNames(name)
	defer unlock()
	return s.load(ctx, name)
}

func (s *Store) load(ctx context.Context, name string) (*tree.Tree, error) {
	if t := s.getResident(name); t != nil {
		return t, nil
	}
	root, err := s.backend.Read(ctx, name)
	if err != nil {
		return nil, err
	}
	t := tree.FromNode(root)
	s.setResident(name, t)
	return t, nil
}

// Save writes a resident template back to the backend.
func (s *Store) Save(ctx context.Context, name string) error {
	unlock := s.lockNames(name)
	defer unlock()

	t := s.getResident(name)
	if t == nil {
		return &TemplateNotFoundError{Name: name}
	}
	return s.backend.Write(ctx, name, t.Root())
}

// Update loads a template, applies fn to a copy and saves the result, all while
// holding the template's lock. The copy replaces the resident tree only once it
// is written, so a failing fn or write leaves the template as it was.
func (s *Store) Update(ctx context.Context, name string, fn func(*tree.Tree) error) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	unlock := s.lockNames(name)
	defer unlock()

	t, err := s.load(ctx, name)
	if err != nil {
		return err
	}
	work := tree.FromNode(t.Root().Clone())
	if err := work.NavigateTo(t.CurrentPath()); err != nil {
		return err
	}
	if err := fn(work); err != nil {
		return err
	}
	if err := s.backend.Write(ctx, name, work.Root()); err != nil {
		return err
	}
	s.setResident(name, work)
	return nil
}

// Delete removes a template from memory and from the backend.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	unlock := s.lockNames(name)
	defer unlock()

	wasResident := s.getResident(name) != nil
	if !wasResident {
		exists, err := s.backend.Exists(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			return &TemplateNotFoundError{Name: name}
		}
	}

	if err := s.backend.Delete(ctx, name); err != nil {
		if !(wasResident && errors.Is(err, ErrNotFound)) {
			return err
		}
	}
	s.dropResident(name)
	return nil
}

// Rename moves a template to a new name, keeping its tree.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	if oldName == newName {
		_, err := s.Load(ctx, oldName)
		return err
	}
	unlock := s.lockNames(oldName, newName)
	defer unlock()

	if err := s.ensureAbsent(ctx, newName); err != nil {
		return err
	}
	t, err := s.load(ctx, oldName)
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, newName, t.Root()); err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, oldName); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	s.dropResident(oldName)
	s.setResident(newName, t)
	return nil
}

// Duplicate creates dst as a deep copy of src.
func (s *Store) Duplicate(ctx context.Context, src, dst string) (*tree.Tree, error) {
	if err := ValidateName(dst); err != nil {
		return nil, err
	}
	if src == dst {
		return nil, &AlreadyExistsError{Name: dst}
	}
	unlock := s.lockNames(src, dst)
	defer unlock()

	if err := s.ensureAbsent(ctx, dst); err != nil {
		return nil, err
	}
	source, err := s.load(ctx, src)
	if err != nil {
		return nil, err
	}
	t := tree.FromNode(source.Root().Clone())
	if err := s.backend.Write(ctx, dst, t.Root()); err != nil {
		return nil, err
	}
	s.setResident(dst, t)
	return t, nil
}

// List returns every template name known to the backend, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.backend.Names(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a template is resident or stored.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if s.getResident(name) != nil {
		return true, nil
	}
	return s.backend.Exists(ctx, name)
}

// IsResident reports whether a template is loaded.
func (s *Store) IsResident(name string) bool {
	return s.getResident(name) != nil
}

// Evict drops a template from memory without saving it.
func (s *Store) Evict(name string) {
	unlock := s.lockNames(name)
	defer unlock()
	s.dropResident(name)
}

func (s *Store) ensureAbsent(ctx context.Context, name string) error {
	if s.getResident(name) != nil {
		return &AlreadyExistsError{Name: name}
	}
	exists, err := s.backend.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return &AlreadyExistsError{Name: name}
	}
	return nil
}

// lockNames acquires the per-template locks in sorted order and returns the
// matching release function.
func (s *Store) lockNames(names ...string) func() {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	s.mu.Lock()
	var held []*sync.Mutex
	for i, name := range sorted {
		if i > 0 && sorted[i-1] == name {
			continue
		}
		l, ok := s.locks[name]
		if !ok {
			l = &sync.Mutex{}
			s.locks[name] = l
		}
		held = append(held, l)
	}
	s.mu.Unlock()

	for _, l := range held {
		l.Lock()
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func (s *Store) getResident(name string) *tree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resident[name]
}

func (s *Store) setResident(name string, t *tree.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resident[name] = t
}

func (s *Store) dropResident(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resident, name)
}
