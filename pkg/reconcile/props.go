package reconcile

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// attrName maps a prop name to the host attribute it is written as.
func attrName(name string) string {
	switch name {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return name
}

func skipProp(name string) bool {
	return name == "key" || name == vdom.ChildrenProp
}

// isListener reports whether a prop is an event listener: a func value, or
// a name like onClick whose third letter is upper case.
func isListener(name string, value any) bool {
	if len(name) > 2 && strings.HasPrefix(name, "on") && unicode.IsUpper(rune(name[2])) {
		return true
	}
	return value != nil && reflect.TypeOf(value).Kind() == reflect.Func
}

// hostName is the name a prop occupies on the host element.
func hostName(name string, value any) string {
	if isListener(name, value) {
		return strings.ToLower(name)
	}
	return attrName(name)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// setProp writes one prop onto el.
func setProp(tree host.Tree, el host.Node, name string, value any) error {
	if skipProp(name) {
		return nil
	}
	if value == nil {
		return hostErr("remove attribute "+hostName(name, nil), tree.RemoveAttribute(el, hostName(name, nil)))
	}
	if isListener(name, value) {
		lower := strings.ToLower(name)
		return hostErr("set property "+lower, tree.SetProperty(el, lower, value))
	}

	attr := attrName(name)
	switch v := value.(type) {
	case bool:
		if v {
			return hostErr("set attribute "+attr, tree.SetAttribute(el, attr, ""))
		}
		return hostErr("remove attribute "+attr, tree.RemoveAttribute(el, attr))
	case string:
		return hostErr("set attribute "+attr, tree.SetAttribute(el, attr, v))
	}
	if isNumber(value) {
		s, _ := vdom.Stringify(value)
		return hostErr("set attribute "+attr, tree.SetAttribute(el, attr, s))
	}
	return hostErr("set property "+attr, tree.SetProperty(el, attr, value))
}

// removeProp clears a prop that was previously set to prev.
func removeProp(tree host.Tree, el host.Node, name string, prev any) error {
	if skipProp(name) {
		return nil
	}
	n := hostName(name, prev)
	return hostErr("remove attribute "+n, tree.RemoveAttribute(el, n))
}

// applyProps writes every prop of a freshly created element, in name order.
func applyProps(tree host.Tree, el host.Node, props vdom.Props) error {
	for _, name := range props.Keys() {
		if err := setProp(tree, el, name, props[name]); err != nil {
			return err
		}
	}
	return nil
}

// diffProps updates el from prev to next over the union of prop names.
func diffProps(tree host.Tree, el host.Node, prev, next vdom.Props) error {
	for _, name := range unionKeys(prev, next) {
		nv, inNext := next[name]
		pv, inPrev := prev[name]
		switch {
		case !inNext:
			if err := removeProp(tree, el, name, pv); err != nil {
				return err
			}
		case inPrev && vdom.PropEqual(pv, nv):
			continue
		default:
			if err := setProp(tree, el, name, nv); err != nil {
				return err
			}
		}
	}
	return nil
}

func unionKeys(a, b vdom.Props) []string {
	merged := make(vdom.Props, len(a)+len(b))
	for k := range a {
		merged[k] = nil
	}
	for k := range b {
		merged[k] = nil
	}
	return merged.Keys()
}
