package memdom

import (
	"errors"
	"fmt"

	"github.com/vango-dev/graft/pkg/host"
)

// Common document errors.
var (
	ErrForeignNode = errors.New("memdom: node does not belong to this document")
	ErrNotElement  = errors.New("memdom: node is not an element")
	ErrNotText     = errors.New("memdom: node is not a text node")
	ErrNotChild    = errors.New("memdom: node is not a child of parent")
	ErrCycle       = errors.New("memdom: insertion would create a cycle")
	ErrEmptyName   = errors.New("memdom: empty attribute name")
)

// Document is an in-memory host tree. It is not safe for concurrent use.
type Document struct {
	nextID   uint64
	recorder Recorder
}

var _ host.Tree = (*Document)(nil)

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// SetRecorder installs r to observe every mutation. A nil r disables recording.
func (d *Document) SetRecorder(r Recorder) {
	d.recorder = r
}

func (d *Document) record(m Mutation) {
	if d.recorder != nil {
		d.recorder.Record(m)
	}
}

func (d *Document) newNode(typ NodeType) *Node {
	d.nextID++
	return &Node{id: d.nextID, typ: typ, doc: d}
}

// node converts a host handle into one of this document's nodes.
func (d *Document) node(h host.Node) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil || n.doc != d {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, h)
	}
	return n, nil
}

func (d *Document) element(h host.Node) (*Node, error) {
	n, err := d.node(h)
	if err != nil {
		return nil, err
	}
	if n.typ != ElementNode {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotElement, n.typ, n.id)
	}
	return n, nil
}

// CreateElement implements host.Tree.
func (d *Document) CreateElement(tag string) (host.Node, error) {
	if tag == "" {
		return nil, errors.New("memdom: empty tag name")
	}
	n := d.newNode(ElementNode)
	n.tag = tag
	d.record(Mutation{Op: OpCreateElement, Node: n.id, Name: tag})
	return n, nil
}

// CreateText implements host.Tree.
func (d *Document) CreateText(text string) (host.Node, error) {
	n := d.newNode(TextNode)
	n.data = text
	d.record(Mutation{Op: OpCreateText, Node: n.id, Value: text})
	return n, nil
}

// CreateMarker implements host.Tree. Markers serialize as empty comments.
func (d *Document) CreateMarker() (host.Node, error) {
	n := d.newNode(CommentNode)
	d.record(Mutation{Op: OpCreateMarker, Node: n.id})
	return n, nil
}

// InsertBefore implements host.Tree.
func (d *Document) InsertBefore(parent, child, ref host.Node) error {
	p, err := d.element(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if c.contains(p) {
		return ErrCycle
	}

	var r *Node
	if ref != nil {
		if r, err = d.node(ref); err != nil {
			return err
		}
		if r.parent != p {
			return fmt.Errorf("%w: ref #%d", ErrNotChild, r.id)
		}
		if r == c {
			return nil
		}
	}

	c.detach()
	c.parent = p
	if r == nil {
		p.children = append(p.children, c)
	} else {
		i := p.indexOf(r)
		p.children = append(p.children, nil)
		copy(p.children[i+1:], p.children[i:])
		p.children[i] = c
	}

	m := Mutation{Op: OpInsert, Node: c.id, Parent: p.id}
	if r != nil {
		m.Ref = r.id
	}
	d.record(m)
	return nil
}

// RemoveChild implements host.Tree.
func (d *Document) RemoveChild(parent, child host.Node) error {
	p, err := d.element(parent)
	if err != nil {
		return err
	}
	c, err := d.node(child)
	if err != nil {
		return err
	}
	if c.parent != p {
		return fmt.Errorf("%w: #%d", ErrNotChild, c.id)
	}
	c.detach()
	d.record(Mutation{Op: OpRemove, Node: c.id, Parent: p.id})
	return nil
}

// SetAttribute implements host.Tree.
func (d *Document) SetAttribute(el host.Node, name, value string) error {
	n, err := d.element(el)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	d.record(Mutation{Op: OpSetAttr, Node: n.id, Name: name, Value: value})
	return nil
}

// SetProperty implements host.Tree.
func (d *Document) SetProperty(el host.Node, name string, value any) error {
	n, err := d.element(el)
	if err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
	d.record(Mutation{Op: OpSetProp, Node: n.id, Name: name, Value: describe(value)})
	return nil
}

// RemoveAttribute implements host.Tree.
func (d *Document) RemoveAttribute(el host.Node, name string) error {
	n, err := d.element(el)
	if err != nil {
		return err
	}
	_, hadAttr := n.attrs[name]
	_, hadProp := n.props[name]
	if !hadAttr && !hadProp {
		return nil
	}
	delete(n.attrs, name)
	delete(n.props, name)
	d.record(Mutation{Op: OpRemoveAttr, Node: n.id, Name: name})
	return nil
}

// SetText implements host.Tree.
func (d *Document) SetText(h host.Node, text string) error {
	n, err := d.node(h)
	if err != nil {
		return err
	}
	if n.typ != TextNode {
		return fmt.Errorf("%w: %s #%d", ErrNotText, n.typ, n.id)
	}
	n.data = text
	d.record(Mutation{Op: OpSetText, Node: n.id, Value: text})
	return nil
}

// Parent implements host.Tree.
func (d *Document) Parent(h host.Node) host.Node {
	n, err := d.node(h)
	if err != nil || n.parent == nil {
		return nil
	}
	return n.parent
}

// NextSibling implements host.Tree.
func (d *Document) NextSibling(h host.Node) host.Node {
	n, err := d.node(h)
	if err != nil || n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(siblings) {
		return nil
	}
	return siblings[i+1]
}

// Dispatch invokes the listener stored under name on el.
// Listeners may be func(any) or func(). It reports whether one ran.
func (d *Document) Dispatch(el host.Node, name string, event any) bool {
	n, err := d.node(el)
	if err != nil {
		return false
	}
	switch fn := n.props[name].(type) {
	case func(any):
		fn(event)
		return true
	case func():
		fn()
		return true
	default:
		return false
	}
}

func describe(v any) string {
	switch v.(type) {
	case func(any), func():
		return "listener"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
