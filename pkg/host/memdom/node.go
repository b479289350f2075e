package memdom

import "sort"

// NodeType distinguishes the kinds of host nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Node is a single node of a Document.
type Node struct {
	id       uint64
	typ      NodeType
	tag      string
	data     string
	attrs    map[string]string
	props    map[string]any
	parent   *Node
	children []*Node
	doc      *Document
}

// ID returns the node's document-unique identifier.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the element tag, or "" for text and comment nodes.
func (n *Node) Tag() string { return n.tag }

// Data returns the content of a text or comment node.
func (n *Node) Data() string { return n.data }

// ParentNode returns the parent node, or nil when detached.
func (n *Node) ParentNode() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Attr returns an attribute value and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// AttrNames returns the sorted attribute names.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Property returns a property value and whether it is present.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.props[name]
	return v, ok
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	switch n.typ {
	case TextNode:
		return n.data
	case CommentNode:
		return ""
	}
	var out []byte
	for _, c := range n.children {
		out = append(out, c.TextContent()...)
	}
	return string(out)
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if i := p.indexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}
