// Package tree provides the in-memory folder template model: an ordered tree of
// folder names with a navigation cursor, mutation operations and a recursive
// merge-copy used to compose templates.
package tree

import (
	"strings"
)

// Node is a folder. Every node is a folder; a node without children is an empty folder.
// Children are keyed by a name unique among siblings and kept in insertion order.
type Node struct {
	names    []string
	children map[string]*Node
}

// NewNode returns an empty folder.
func NewNode() *Node {
	return &Node{children: make(map[string]*Node)}
}

// Names returns the child names in insertion order.
func (n *Node) Names() []string {
	return append([]string(nil), n.names...)
}

// Child returns the named child, or nil if absent.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// Has reports whether a child with the given name exists.
func (n *Node) Has(name string) bool {
	_, ok := n.children[name]
	return ok
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.names)
}

// Add inserts an empty folder and returns it. If the name exists the existing child
// is returned unchanged. The name is not validated; use ValidateName first.
func (n *Node) Add(name string) *Node {
	if child, ok := n.children[name]; ok {
		return child
	}
	child := NewNode()
	n.attach(name, child)
	return child
}

func (n *Node) attach(name string, child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	n.names = append(n.names, name)
	n.children[name] = child
}

func (n *Node) detach(name string) *Node {
	child, ok := n.children[name]
	if !ok {
		return nil
	}
	delete(n.children, name)
	for i, existing := range n.names {
		if existing == name {
			n.names = append(n.names[:i], n.names[i+1:]...)
			break
		}
	}
	return child
}

// Clone returns a deep copy sharing no nodes with n.
func (n *Node) Clone() *Node {
	out := NewNode()
	for _, name := range n.names {
		out.attach(name, n.children[name].Clone())
	}
	return out
}

// Count returns the number of descendants, excluding n itself.
func (n *Node) Count() int {
	total := 0
	for _, name := range n.names {
		total += 1 + n.children[name].Count()
	}
	return total
}

// Depth returns the length of the longest path below n. An empty folder has depth 0.
func (n *Node) Depth() int {
	deepest := 0
	for _, name := range n.names {
		if d := 1 + n.children[name].Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// WalkFunc is called for every descendant with its path relative to the walk root.
// Returning a non-nil error stops the walk.
type WalkFunc func(path []string, node *Node) error

// Walk visits every descendant depth-first, parents before children, in child order.
func (n *Node) Walk(fn WalkFunc) error {
	return n.walk(nil, fn)
}

func (n *Node) walk(prefix []string, fn WalkFunc) error {
	for _, name := range n.names {
		path := append(append([]string(nil), prefix...), name)
		child := n.children[name]
		if err := fn(path, child); err != nil {
			return err
		}
		if err := child.walk(path, fn); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether a and b have the same shape, including child order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.names) != len(b.names) {
		return false
	}
	for i, name := range a.names {
		if b.names[i] != name {
			return false
		}
		if !Equal(a.children[name], b.children[name]) {
			return false
		}
	}
	return true
}

// ValidateName checks that a trimmed folder name is usable as a directory name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "name is empty"}
	case name == "." || name == "..":
		return &InvalidNameError{Name: name, Reason: "reserved name"}
	case strings.ContainsAny(name, `/\`):
		return &InvalidNameError{Name: name, Reason: "name contains a path separator"}
	case strings.ContainsRune(name, 0):
		return &InvalidNameError{Name: name, Reason: "name contains a NUL byte"}
	}
	return nil
}
