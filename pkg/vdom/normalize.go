package vdom

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/graft/internal/errors"
)

// Normalize converts a raw child descriptor into a flat list of nodes.
//
//   - nil, booleans and nil pointers become Void nodes
//   - strings, numbers and fmt.Stringers become Text nodes
//   - *VNode values pass through unchanged
//   - *Element values become Native or component nodes
//   - slices are flattened, however deeply nested
//   - an error value aborts normalization and is returned as is
func Normalize(raw any) ([]*VNode, error) {
	var out []*VNode
	if err := normalizeInto(&out, raw, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeRoot normalizes a component's render output to exactly one node.
// Empty output becomes a Void node; more than one node is an error.
func NormalizeRoot(raw any) (*VNode, error) {
	nodes, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return &VNode{Kind: KindVoid}, nil
	case 1:
		return nodes[0], nil
	default:
		return nil, errors.New("E202").
			WithDetailf("render produced %d root nodes", len(nodes)).
			WithSuggestion("Wrap sibling nodes in a single Native element")
	}
}

func normalizeInto(out *[]*VNode, raw any, path string) error {
	switch v := raw.(type) {
	case nil, bool:
		*out = append(*out, &VNode{Kind: KindVoid})
	case *VNode:
		if v == nil {
			*out = append(*out, &VNode{Kind: KindVoid})
			return nil
		}
		*out = append(*out, v)
	case *Element:
		if v == nil {
			*out = append(*out, &VNode{Kind: KindVoid})
			return nil
		}
		node, err := fromElement(v, path)
		if err != nil {
			return err
		}
		*out = append(*out, node)
	case []any:
		for _, c := range v {
			if err := normalizeInto(out, c, path); err != nil {
				return err
			}
		}
	case []*VNode:
		for _, c := range v {
			if err := normalizeInto(out, c, path); err != nil {
				return err
			}
		}
	case []*Element:
		for _, c := range v {
			if err := normalizeInto(out, c, path); err != nil {
				return err
			}
		}
	case error:
		// A render function reports failure by returning an error.
		return v
	default:
		if s, ok := Stringify(v); ok {
			*out = append(*out, &VNode{Kind: KindText, Text: s})
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			for i := 0; i < rv.Len(); i++ {
				if err := normalizeInto(out, rv.Index(i).Interface(), path); err != nil {
					return err
				}
			}
			return nil
		}
		return errors.New("E200").
			WithPath(pathOrRoot(path)).
			WithDetailf("cannot normalize child of type %T", v)
	}
	return nil
}

func fromElement(el *Element, parent string) (*VNode, error) {
	node := &VNode{}
	props := el.Props.Clone()

	if raw, ok := props["key"]; ok {
		delete(props, "key")
		if raw != nil {
			key, ok := Stringify(raw)
			if !ok {
				return nil, errors.New("E200").
					WithPath(pathOrRoot(parent)).
					WithDetailf("key of type %T is not a string or number", raw)
			}
			node.Key = key
		}
	}

	switch t := el.Type.(type) {
	case string:
		if t == "" {
			return nil, errors.New("E200").
				WithPath(pathOrRoot(parent)).
				WithDetail("native element without tag")
		}
		node.Kind = KindNative
		node.Tag = t
	case *Function:
		if t == nil || t.Render == nil {
			return nil, malformedComponent(parent, "function component without render")
		}
		node.Kind = KindFunction
		node.Type = t
	case *Class:
		if t == nil || t.New == nil {
			return nil, malformedComponent(parent, "class component without constructor")
		}
		node.Kind = KindClass
		node.Type = t
	case ForeignType:
		if reflect.ValueOf(t).Kind() == reflect.Pointer && reflect.ValueOf(t).IsNil() {
			return nil, malformedComponent(parent, "nil foreign component type")
		}
		node.Kind = KindForeign
		node.Type = t
	default:
		return nil, errors.New("E200").
			WithPath(pathOrRoot(parent)).
			WithDetailf("element type %T is not a tag or component", el.Type)
	}

	path := parent + "/" + node.TypeName()
	children, err := normalizeChildren(el.Children, path)
	if err != nil {
		return nil, err
	}

	if node.Kind == KindNative {
		delete(props, ChildrenProp)
		node.Children = children
	} else if len(children) > 0 {
		if props == nil {
			props = make(Props)
		}
		props[ChildrenProp] = children
	}
	node.Props = props
	return node, nil
}

func normalizeChildren(raw []any, path string) ([]*VNode, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]*VNode, 0, len(raw))
	for _, c := range raw {
		if err := normalizeInto(&out, c, path); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func malformedComponent(path, detail string) error {
	return errors.New("E200").WithPath(pathOrRoot(path)).WithDetail(detail)
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// Validate checks that node and its Native descendants carry the fields
// their kinds require.
func Validate(node *VNode) error {
	return validate(node, "")
}

// Check validates a single node without descending into its children.
func Check(node *VNode) error {
	return check(node, "")
}

func validate(node *VNode, parent string) error {
	if err := check(node, parent); err != nil {
		return err
	}
	path := parent + "/" + node.TypeName()
	for i, c := range node.Children {
		if err := validate(c, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func check(node *VNode, path string) error {
	if node == nil {
		return errors.New("E200").WithPath(pathOrRoot(path)).WithDetail("nil node")
	}
	switch node.Kind {
	case KindText, KindVoid:
		return nil
	case KindNative:
		if node.Tag == "" {
			return errors.New("E200").WithPath(pathOrRoot(path)).WithDetail("native node without tag")
		}
		return nil
	case KindFunction:
		if f, ok := node.Type.(*Function); !ok || f == nil || f.Render == nil {
			return malformedComponent(path, "function node without *Function type")
		}
		return nil
	case KindClass:
		if c, ok := node.Type.(*Class); !ok || c == nil || c.New == nil {
			return malformedComponent(path, "class node without *Class type")
		}
		return nil
	case KindForeign:
		if _, ok := node.Type.(ForeignType); !ok {
			return malformedComponent(path, "foreign node without ForeignType")
		}
		return nil
	default:
		return errors.New("E201").WithPath(pathOrRoot(path)).WithDetailf("kind %d", node.Kind)
	}
}
