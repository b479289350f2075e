package treedoc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Library owns the component functions and foreign types that documents
// refer to by name.
type Library struct {
	mu      sync.RWMutex
	funcs   map[string]*vdom.Function
	tpls    map[string]*template
	vars    map[string]any
	foreign map[string]vdom.ForeignType
	progs   programs
}

// NewLibrary returns an empty library that resolves island names against
// the given foreign types.
func NewLibrary(foreign ...vdom.ForeignType) *Library {
	l := &Library{
		funcs:   make(map[string]*vdom.Function),
		tpls:    make(map[string]*template),
		foreign: make(map[string]vdom.ForeignType),
	}
	l.Register(foreign...)
	return l
}

// Register makes foreign types available as islands, keyed by ForeignName.
func (l *Library) Register(types ...vdom.ForeignType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range types {
		l.foreign[t.ForeignName()] = t
	}
}

// Component returns the function for a component name, or nil if no
// loaded document has declared it.
func (l *Library) Component(name string) *vdom.Function {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.funcs[name]
}

// Names returns the components of the most recently loaded document.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.tpls))
	for name := range l.tpls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// install replaces the active templates and variables. Functions are
// created once per name and reused across documents.
func (l *Library) install(tpls map[string]*template, vars map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tpls = tpls
	l.vars = vars
	for name := range tpls {
		if _, ok := l.funcs[name]; ok {
			continue
		}
		name := name
		l.funcs[name] = vdom.Func(name, func(props vdom.Props) any {
			return l.render(name, props)
		})
	}
}

func (l *Library) render(name string, props vdom.Props) any {
	l.mu.RLock()
	tpl, ok := l.tpls[name]
	vars := l.vars
	l.mu.RUnlock()
	if !ok {
		return errors.New("E230").
			WithPath(name).
			WithDetail("component is not declared by the current document")
	}

	env := make(map[string]any, len(vars)+len(props)+1)
	for k, v := range vars {
		env[k] = v
	}
	for k, v := range props {
		env[k] = v
	}
	env["props"] = map[string]any(props)

	out, err := l.build(tpl, env)
	if err != nil {
		return err
	}
	return out
}

func (l *Library) resolve(t *template) (any, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch {
	case t.tag != "":
		return t.tag, nil
	case t.component != "":
		if fn, ok := l.funcs[t.component]; ok {
			return fn, nil
		}
		return nil, invalid(t.path, "unknown component %q", t.component)
	default:
		if ft, ok := l.foreign[t.island]; ok {
			return ft, nil
		}
		return nil, invalid(t.path, "unknown island %q", t.island)
	}
}

func (l *Library) hasIsland(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.foreign[name]
	return ok
}

// build evaluates a template into raw vdom input.
func (l *Library) build(t *template, env map[string]any) (any, error) {
	switch t.kind {
	case tplEmpty:
		return nil, nil
	case tplValue:
		return l.progs.evalValue(t.value, env, t.path)
	case tplList:
		out := make([]any, 0, len(t.items))
		for _, item := range t.items {
			v, err := l.build(item, env)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	if t.each == nil {
		return l.buildElement(t, env)
	}
	src, err := l.progs.evalValue(t.each, env, t.path+".each")
	if err != nil {
		return nil, err
	}
	items, err := sequence(src, t.path+".each")
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(items))
	for i, item := range items {
		scope := make(map[string]any, len(env)+2)
		for k, v := range env {
			scope[k] = v
		}
		scope[t.as] = item
		scope["index"] = i
		v, err := l.buildElement(t, scope)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (l *Library) buildElement(t *template, env map[string]any) (any, error) {
	if t.cond != nil {
		ok, err := l.progs.evalValue(t.cond, env, t.path+".if")
		if err != nil {
			return nil, err
		}
		if !truthy(ok) {
			return nil, nil
		}
	}

	typ, err := l.resolve(t)
	if err != nil {
		return nil, err
	}

	var props vdom.Props
	if len(t.props) > 0 || t.key != nil {
		props = make(vdom.Props, len(t.props)+1)
	}
	for name, raw := range t.props {
		v, err := l.progs.evalValue(raw, env, fmt.Sprintf("%s.props.%s", t.path, name))
		if err != nil {
			return nil, err
		}
		props[name] = v
	}
	if t.key != nil {
		key, err := l.progs.evalValue(t.key, env, t.path+".key")
		if err != nil {
			return nil, err
		}
		props["key"] = key
	}

	children := make([]any, 0, len(t.children))
	for _, c := range t.children {
		v, err := l.build(c, env)
		if err != nil {
			return nil, err
		}
		children = append(children, v)
	}
	return vdom.H(typ, props, children...), nil
}
