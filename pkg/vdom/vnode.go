package vdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/graft/pkg/host"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindText     VKind = iota // Text content
	KindVoid                  // Empty placeholder marker
	KindNative                // <div>, <button>, etc.
	KindFunction              // Function component
	KindClass                 // Class component with a live instance
	KindForeign               // Component owned by a foreign framework
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindVoid:
		return "Void"
	case KindNative:
		return "Native"
	case KindFunction:
		return "Function"
	case KindClass:
		return "Class"
	case KindForeign:
		return "Foreign"
	default:
		return "Unknown"
	}
}

// IsComponent reports whether the kind is one of the component kinds.
func (k VKind) IsComponent() bool {
	return k == KindFunction || k == KindClass || k == KindForeign
}

// VNode is the virtual tree node.
//
// Kind, Key, Tag and Type never change after creation, and Props and
// Children are fixed as well: a new render produces a new VNode. Rendered,
// Native and Meta are owned by the reconciler and are moved, never copied,
// from a previous node to its successor during a patch.
type VNode struct {
	Kind     VKind    // Node type
	Key      string   // Reconciliation key
	Tag      string   // Element tag name for KindNative
	Type     any      // *Function, *Class or ForeignType for component kinds
	Props    Props    // Attributes, inputs and callbacks
	Children []*VNode // Normalized children for KindNative
	Text     string   // Content for KindText

	Rendered *VNode    // Last render output of a Function or Class node
	Native   host.Node // Host node currently occupied by this VNode
	Meta     Meta      // Kind-specific instance data
}

// Meta carries the instance data of a mounted component node.
type Meta struct {
	// Instance is the live instance of a Class node.
	Instance Instance

	// Foreign is the bridge state of a Foreign node.
	Foreign *ForeignRef
}

// ForeignRef tracks a foreign component instance and its output wiring.
type ForeignRef struct {
	// Handle is the adapter-owned instance handle.
	Handle any

	// Subs maps output names to adapter subscriptions.
	Subs map[string]any
}

// IsMounted reports whether the node currently occupies a host node.
func (v *VNode) IsMounted() bool {
	return v != nil && v.Native != nil
}

// SameType reports whether a and b may share a host node across a patch:
// kind, tag, component type and key must all be equal.
func SameType(a, b *VNode) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Kind == b.Kind &&
		a.Tag == b.Tag &&
		a.Key == b.Key &&
		sameRef(a.Type, b.Type)
}

// sameRef compares component references without panicking on
// non-comparable values, which are never considered equal.
func sameRef(a, b any) (eq bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// TypeName returns a display name for the node's tag or component type.
func (v *VNode) TypeName() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindNative:
		return v.Tag
	case KindText:
		return "#text"
	case KindVoid:
		return "#void"
	}
	switch t := v.Type.(type) {
	case *Function:
		return t.Name
	case *Class:
		return t.Name
	case ForeignType:
		return t.ForeignName()
	case nil:
		return "<untyped>"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// String returns a compact, single-line description of the subtree.
func (v *VNode) String() string {
	var b strings.Builder
	v.describe(&b)
	return b.String()
}

func (v *VNode) describe(b *strings.Builder) {
	if v == nil {
		b.WriteString("<nil>")
		return
	}
	switch v.Kind {
	case KindText:
		fmt.Fprintf(b, "%q", v.Text)
		return
	case KindVoid:
		b.WriteString("<void>")
		return
	}
	b.WriteByte('<')
	b.WriteString(v.TypeName())
	if v.Key != "" {
		fmt.Fprintf(b, " key=%q", v.Key)
	}
	b.WriteByte('>')
	for _, c := range v.Children {
		c.describe(b)
	}
	b.WriteString("</")
	b.WriteString(v.TypeName())
	b.WriteByte('>')
}
