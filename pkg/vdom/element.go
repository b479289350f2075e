package vdom

// Element is a raw element descriptor, the input of normalization.
//
// Type selects the node kind: a string builds a Native node, a *Function,
// *Class or ForeignType builds the matching component node.
type Element struct {
	Type     any
	Props    Props
	Children []any
}

// H builds an element descriptor.
func H(typ any, props Props, children ...any) *Element {
	return &Element{Type: typ, Props: props, Children: children}
}

// Attr is a single prop assignment used by the variadic tag helpers.
type Attr struct {
	Key   string
	Value any
}

// El builds an element from a tag and a mixed argument list.
// Arguments can be: nil, Attr, []Attr, Props, or any child value
// (strings, numbers, *Element, *VNode, slices of those).
func El(tag string, args ...any) *Element {
	el := &Element{Type: tag}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			el.setProp(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				el.setProp(a.Key, a.Value)
			}
		case Props:
			for k, val := range v {
				el.setProp(k, val)
			}
		default:
			el.Children = append(el.Children, v)
		}
	}
	return el
}

func (e *Element) setProp(key string, value any) {
	if key == "" {
		return
	}
	if e.Props == nil {
		e.Props = make(Props)
	}
	e.Props[key] = value
}

func attr(key string, value any) Attr { return Attr{Key: key, Value: value} }

// Key sets the reconciliation key.
func Key(key any) Attr { return attr("key", key) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// ClassName sets the className prop.
func ClassName(class string) Attr { return attr("className", class) }

// Title sets the title attribute.
func Title(title string) Attr { return attr("title", title) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Hidden sets the hidden attribute.
func Hidden(hidden bool) Attr { return attr("hidden", hidden) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// On attaches a listener for event (e.g. "click").
func On(event string, handler any) Attr { return attr("on"+event, handler) }

// OnClick attaches a click listener.
func OnClick(handler any) Attr { return On("click", handler) }

// OnInput attaches an input listener.
func OnInput(handler any) Attr { return On("input", handler) }

func Div(args ...any) *Element    { return El("div", args...) }
func Span(args ...any) *Element   { return El("span", args...) }
func P(args ...any) *Element      { return El("p", args...) }
func H1(args ...any) *Element     { return El("h1", args...) }
func Ul(args ...any) *Element     { return El("ul", args...) }
func Li(args ...any) *Element     { return El("li", args...) }
func Button(args ...any) *Element { return El("button", args...) }
func Input(args ...any) *Element  { return El("input", args...) }

// If returns node when condition holds and nil (a Void node) otherwise.
func If(condition bool, node any) any {
	if condition {
		return node
	}
	return nil
}

// Range maps items to child descriptors.
func Range[T any](items []T, fn func(item T, index int) any) []any {
	out := make([]any, 0, len(items))
	for i, item := range items {
		out = append(out, fn(item, i))
	}
	return out
}
