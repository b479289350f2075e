// Package vdom is the node model of graft's virtual tree.
//
// A VNode is a closed tagged union over six kinds: Text, Void, Native,
// Function, Class and Foreign. Shared fields live on VNode itself; the
// kind-specific instance data a mounted node carries lives in Meta.
//
// # Building Trees
//
// Raw descriptors are built with H or the tag helpers and then normalized:
//
//	raw := vdom.Div(vdom.ClassName("card"),
//	    vdom.H1("Title"),
//	    vdom.H(Counter, vdom.Props{"start": 3}),
//	)
//	node, err := vdom.NormalizeRoot(raw)
//
// Normalization turns nil and booleans into Void nodes, strings and numbers
// into Text nodes, flattens nested lists, and maps each Element to the node
// kind its type selects.
//
// # Identity
//
// SameType is the single reuse criterion used by the reconciler: two nodes
// may share a host node only if kind, tag, component type and key are all
// equal.
package vdom
