package tree

import (
	"strings"
)

// Tree is a folder template: a root folder plus a navigation cursor.
// A Tree has no internal synchronization; callers serialize access.
type Tree struct {
	root *Node
	path []string
}

// New returns a tree with an empty root folder.
func New() *Tree {
	return &Tree{root: NewNode()}
}

// FromNode returns a tree that takes ownership of root. A nil root yields an empty tree.
func FromNode(root *Node) *Tree {
	if root == nil {
		root = NewNode()
	}
	return &Tree{root: root}
}

// Root returns the root folder.
func (t *Tree) Root() *Node {
	return t.root
}

// CurrentPath returns a copy of the cursor path from the root.
func (t *Tree) CurrentPath() []string {
	return append([]string(nil), t.path...)
}

// AtRoot reports whether the cursor is at the root.
func (t *Tree) AtRoot() bool {
	return len(t.path) == 0
}

// Current returns the folder under the cursor.
func (t *Tree) Current() *Node {
	node, err := t.Resolve(t.path)
	if err != nil {
		// The cursor is kept valid by every mutation; fall back to root if that ever breaks.
		t.path = nil
		return t.root
	}
	return node
}

// CurrentChildren returns the raw child names at the cursor in insertion order.
func (t *Tree) CurrentChildren() []string {
	return t.Current().Names()
}

// Resolve returns the folder at path, relative to the root.
func (t *Tree) Resolve(path []string) (*Node, error) {
	node := t.root
	for i, name := range path {
		child := node.Child(name)
		if child == nil {
			return nil, &NotFoundError{Name: name, Path: append([]string(nil), path[:i]...)}
		}
		node = child
	}
	return node, nil
}

// NavigateInto moves the cursor into the named child of the current folder.
func (t *Tree) NavigateInto(name string) error {
	if !t.Current().Has(name) {
		return &NotFoundError{Name: name, Path: t.CurrentPath()}
	}
	t.path = append(t.path, name)
	return nil
}

// NavigateUp moves the cursor to the parent folder.
func (t *Tree) NavigateUp() error {
	if len(t.path) == 0 {
		return &AtRootError{}
	}
	t.path = t.path[:len(t.path)-1]
	return nil
}

// NavigateTo replaces the cursor with path. The cursor is unchanged on error.
func (t *Tree) NavigateTo(path []string) error {
	if _, err := t.Resolve(path); err != nil {
		return err
	}
	t.path = append([]string(nil), path...)
	return nil
}

// CreateFolders adds an empty folder for each trimmed, non-empty name not already
// present in the current folder. Duplicates are skipped silently, including
// repeats within the same call. All names are validated before any folder is added.
// It returns the names that were actually created.
func (t *Tree) CreateFolders(names ...string) ([]string, error) {
	cleaned := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		cleaned = append(cleaned, name)
	}

	current := t.Current()
	var created []string
	for _, name := range cleaned {
		if current.Has(name) {
			continue
		}
		current.Add(name)
		created = append(created, name)
	}
	return created, nil
}

// DeleteFolder removes the named child, and its subtree, from the current folder.
func (t *Tree) DeleteFolder(name string) error {
	if t.Current().detach(name) == nil {
		return &NotFoundError{Name: name, Path: t.CurrentPath()}
	}
	return nil
}

// RenameFolder renames a child of the current folder, keeping its subtree.
// Renaming a folder to its own name is a no-op. The renamed folder moves to the
// end of the child order.
func (t *Tree) RenameFolder(oldName, newName string) error {
	current := t.Current()
	if !current.Has(oldName) {
		return &NotFoundError{Name: oldName, Path: t.CurrentPath()}
	}
	newName = strings.TrimSpace(newName)
	if newName == oldName {
		return nil
	}
	if err := ValidateName(newName); err != nil {
		return err
	}
	if current.Has(newName) {
		return &NameConflictError{Name: newName}
	}
	child := current.detach(oldName)
	current.attach(newName, child)
	return nil
}

// CopyInto merges the children of source into the folder at targetPath.
// Names missing from the target are created; names present on both sides are
// merged recursively, so existing descendants are kept (union at every level).
//
// The source is snapshotted before anything is written. If source is this
// tree's root, or the target folder is reachable from source, the call fails
// with a CircularReferenceError and the tree is left unchanged.
func (t *Tree) CopyInto(source *Node, targetPath []string) error {
	target, err := t.Resolve(targetPath)
	if err != nil {
		return err
	}
	if source == nil {
		return nil
	}
	if source == t.root {
		return &CircularReferenceError{Target: targetPath, Reason: "source is the root of this template"}
	}

	snap, err := snapshot(source, target, make(map[*Node]bool))
	if err != nil {
		cerr := err.(*CircularReferenceError)
		cerr.Target = append([]string(nil), targetPath...)
		return cerr
	}

	merge(target, snap)
	return nil
}

// snapshot deep-copies n, failing if target is reachable from n or a node repeats.
func snapshot(n, target *Node, visited map[*Node]bool) (*Node, error) {
	if n == target {
		return nil, &CircularReferenceError{Reason: "target is inside the source subtree"}
	}
	if visited[n] {
		return nil, &CircularReferenceError{Reason: "source subtree contains a cycle"}
	}
	visited[n] = true

	out := NewNode()
	for _, name := range n.names {
		child, err := snapshot(n.children[name], target, visited)
		if err != nil {
			return nil, err
		}
		out.attach(name, child)
	}
	return out, nil
}

// merge adds src's children into dst. src must be a private snapshot: its nodes
// are attached to dst directly.
func merge(dst, src *Node) {
	for _, name := range src.names {
		srcChild := src.children[name]
		if existing := dst.Child(name); existing != nil {
			merge(existing, srcChild)
			continue
		}
		dst.attach(name, srcChild)
	}
}
