// Package host defines the minimal host-tree API the reconciler composes.
//
// A host tree is whatever the virtual tree is rendered into: a browser DOM,
// a terminal widget tree, or the in-memory document in package memdom. The
// reconciler never inspects host nodes; it only passes handles back to the
// Tree that created them.
package host

// Node is an opaque handle to a node owned by a host tree.
//
// Handles must be comparable; the reconciler relies on == to check whether
// a node was reused across a patch.
type Node interface{}

// Tree is the set of host operations consumed by the reconciler.
//
// Mutating operations return an error when the host rejects them. The
// reconciler wraps and propagates those errors and never retries.
type Tree interface {
	// CreateElement creates a detached element node.
	CreateElement(tag string) (Node, error)

	// CreateText creates a detached text node.
	CreateText(text string) (Node, error)

	// CreateMarker creates a detached, invisible placeholder node.
	CreateMarker() (Node, error)

	// InsertBefore inserts child into parent before ref. A nil ref appends.
	// Inserting a node that is already attached moves it.
	InsertBefore(parent, child, ref Node) error

	// RemoveChild detaches child from parent.
	RemoveChild(parent, child Node) error

	// SetAttribute sets a string attribute on an element.
	SetAttribute(el Node, name, value string) error

	// SetProperty sets a non-string property (listener, object) on an element.
	SetProperty(el Node, name string, value any) error

	// RemoveAttribute clears both the attribute and any property stored
	// under name.
	RemoveAttribute(el Node, name string) error

	// SetText replaces the content of a text node.
	SetText(n Node, text string) error

	// Parent returns the parent of n, or nil when n is detached.
	Parent(n Node) Node

	// NextSibling returns the node following n in its parent, or nil.
	NextSibling(n Node) Node
}
