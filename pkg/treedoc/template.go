package treedoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vango-dev/graft/internal/errors"
)

type tplKind uint8

const (
	tplEmpty tplKind = iota
	tplValue
	tplList
	tplElement
)

// template is a parsed node template.
type template struct {
	kind tplKind
	path string

	value any         // tplValue
	items []*template // tplList

	tag       string
	component string
	island    string
	key       any
	props     map[string]any
	children  []*template
	cond      any
	each      any
	as        string
}

var templateFields = map[string]bool{
	"tag": true, "component": true, "island": true, "key": true,
	"props": true, "children": true, "if": true, "each": true, "as": true,
}

func invalid(path, format string, args ...any) error {
	return errors.New("E230").WithPath(path).WithDetailf(format, args...)
}

func parseTemplate(raw any, path string) (*template, error) {
	switch v := raw.(type) {
	case nil:
		return &template{kind: tplEmpty, path: path}, nil
	case []any:
		t := &template{kind: tplList, path: path}
		for i, item := range v {
			child, err := parseTemplate(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			t.items = append(t.items, child)
		}
		return t, nil
	case map[string]any:
		return parseElement(v, path)
	case string, bool, int, int64, uint64, float64:
		return &template{kind: tplValue, path: path, value: v}, nil
	default:
		return nil, invalid(path, "unsupported template value %T", raw)
	}
}

func parseElement(m map[string]any, path string) (*template, error) {
	var unknown []string
	for k := range m {
		if !templateFields[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, invalid(path, "unknown template fields: %s", strings.Join(unknown, ", "))
	}

	t := &template{kind: tplElement, path: path, key: m["key"], cond: m["if"], each: m["each"]}

	var err error
	kinds := 0
	if t.tag, err = stringField(m, "tag", path); err != nil {
		return nil, err
	}
	if t.component, err = stringField(m, "component", path); err != nil {
		return nil, err
	}
	if t.island, err = stringField(m, "island", path); err != nil {
		return nil, err
	}
	if t.as, err = stringField(m, "as", path); err != nil {
		return nil, err
	}
	for _, s := range []string{t.tag, t.component, t.island} {
		if s != "" {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, invalid(path, "a node needs exactly one of tag, component or island")
	}
	if t.as != "" && t.each == nil {
		return nil, invalid(path, "as without each")
	}
	if t.as == "" {
		t.as = "item"
	}

	if raw, ok := m["props"]; ok && raw != nil {
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, invalid(path, "props must be a mapping, got %T", raw)
		}
		t.props = props
	}

	if raw, ok := m["children"]; ok && raw != nil {
		items, ok := raw.([]any)
		if !ok {
			items = []any{raw}
		}
		for i, item := range items {
			child, err := parseTemplate(item, fmt.Sprintf("%s/%s[%d]", path, t.name(), i))
			if err != nil {
				return nil, err
			}
			t.children = append(t.children, child)
		}
	}
	return t, nil
}

func stringField(m map[string]any, name, path string) (string, error) {
	raw, ok := m[name]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid(path, "%s must be a string, got %T", name, raw)
	}
	return s, nil
}

func (t *template) name() string {
	switch {
	case t.tag != "":
		return t.tag
	case t.component != "":
		return t.component
	default:
		return t.island
	}
}

// walk visits t and every nested template.
func (t *template) walk(fn func(*template) error) error {
	if t == nil {
		return nil
	}
	if err := fn(t); err != nil {
		return err
	}
	for _, c := range t.items {
		if err := c.walk(fn); err != nil {
			return err
		}
	}
	for _, c := range t.children {
		if err := c.walk(fn); err != nil {
			return err
		}
	}
	return nil
}
