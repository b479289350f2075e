package treedoc

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/vango-dev/graft/internal/errors"
)

type rawDocument struct {
	Vars       map[string]any `yaml:"vars"`
	Components map[string]any `yaml:"components"`
	Root       any            `yaml:"root"`
}

// Document is a loaded tree document.
type Document struct {
	lib  *Library
	root *template
	vars map[string]any
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	lib *Library
}

// WithLibrary loads the document into an existing library, so that its
// components keep the identities of earlier documents with the same names.
func WithLibrary(lib *Library) Option {
	return func(o *loadOptions) { o.lib = lib }
}

// Load parses a YAML tree document. Without WithLibrary a fresh library
// with no islands is used.
func Load(data []byte, opts ...Option) (*Document, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.lib == nil {
		o.lib = NewLibrary()
	}

	var raw rawDocument
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.Strict()); err != nil {
		return nil, errors.New("E230").WithDetail(yaml.FormatError(err, false, true)).Wrap(err)
	}
	if raw.Root == nil {
		return nil, invalid("root", "document has no root")
	}

	tpls := make(map[string]*template, len(raw.Components))
	for name, body := range raw.Components {
		if name == "" {
			return nil, invalid("components", "component with empty name")
		}
		tpl, err := parseTemplate(plain(body), name)
		if err != nil {
			return nil, err
		}
		tpls[name] = tpl
	}
	root, err := parseTemplate(plain(raw.Root), "root")
	if err != nil {
		return nil, err
	}

	if err := checkRefs(o.lib, tpls, root); err != nil {
		return nil, err
	}
	if err := checkCycles(tpls); err != nil {
		return nil, err
	}

	vars, _ := plain(raw.Vars).(map[string]any)
	o.lib.install(tpls, vars)
	return &Document{lib: o.lib, root: root, vars: vars}, nil
}

// Library returns the library holding the document's components.
func (d *Document) Library() *Library { return d.lib }

// Build evaluates the root template. The result is raw vdom input for
// Normalize or reconcile.Root.Render.
func (d *Document) Build() (any, error) {
	env := make(map[string]any, len(d.vars))
	for k, v := range d.vars {
		env[k] = v
	}
	return d.lib.build(d.root, env)
}

func checkRefs(lib *Library, tpls map[string]*template, root *template) error {
	check := func(t *template) error {
		if t.kind != tplElement {
			return nil
		}
		if t.component != "" {
			if _, ok := tpls[t.component]; !ok {
				return invalid(t.path, "unknown component %q", t.component)
			}
		}
		if t.island != "" && !lib.hasIsland(t.island) {
			return invalid(t.path, "unknown island %q", t.island)
		}
		return nil
	}
	for _, name := range sortedNames(tpls) {
		if err := tpls[name].walk(check); err != nil {
			return err
		}
	}
	return root.walk(check)
}

// checkCycles rejects components that render themselves, directly or
// through other components.
func checkCycles(tpls map[string]*template) error {
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int, len(tpls))

	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		switch state[name] {
		case active:
			return invalid(name, "component cycle: %v", append(stack, name))
		case done:
			return nil
		}
		state[name] = active
		stack = append(stack, name)
		err := tpls[name].walk(func(t *template) error {
			if t.kind == tplElement && t.component != "" {
				return visit(t.component, stack)
			}
			return nil
		})
		if err != nil {
			return err
		}
		state[name] = done
		return nil
	}

	for _, name := range sortedNames(tpls) {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

func sortedNames(tpls map[string]*template) []string {
	names := make([]string, 0, len(tpls))
	for name := range tpls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// plain converts decoded YAML into string-keyed maps.
func plain(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = plain(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}
