package reconcile

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Mount creates host nodes for node and its subtree and inserts the top
// one into container before ref. A nil ref appends.
//
// Mount returns the host node the subtree occupies, which is also stored
// in node.Native. A node that is already mounted is rejected: one VNode owns
// at most one host node.
func Mount(kit *Kit, node *vdom.VNode, container, ref host.Node) (host.Node, error) {
	if err := vdom.Check(node); err != nil {
		return nil, err
	}
	if node.IsMounted() {
		return nil, alreadyMounted(node)
	}

	var err error
	switch node.Kind {
	case vdom.KindText:
		err = mountLeaf(kit, node, container, ref, func() (host.Node, error) {
			return kit.tree.CreateText(node.Text)
		})
	case vdom.KindVoid:
		err = mountLeaf(kit, node, container, ref, kit.tree.CreateMarker)
	case vdom.KindNative:
		err = mountNative(kit, node, container, ref)
	case vdom.KindFunction:
		err = mountFunction(kit, node, container, ref)
	case vdom.KindClass:
		err = mountClass(kit, node, container, ref)
	case vdom.KindForeign:
		err = mountForeign(kit, node, container, ref)
	}
	if err != nil {
		kit.keep(node)
		return nil, err
	}

	kit.metrics.mounted(node.Kind)
	return node.Native, nil
}

func mountLeaf(kit *Kit, node *vdom.VNode, container, ref host.Node, create func() (host.Node, error)) error {
	n, err := create()
	if err != nil {
		return hostErr("create "+node.TypeName(), err)
	}
	if err := kit.tree.InsertBefore(container, n, ref); err != nil {
		return hostErr("insert "+node.TypeName(), err)
	}
	node.Native = n
	return nil
}

func mountNative(kit *Kit, node *vdom.VNode, container, ref host.Node) error {
	el, err := kit.tree.CreateElement(node.Tag)
	if err != nil {
		return hostErr("create <"+node.Tag+">", err)
	}
	if err := applyProps(kit.tree, el, node.Props); err != nil {
		return err
	}
	for _, child := range node.Children {
		if _, err := Mount(kit, child, el, nil); err != nil {
			return err
		}
	}
	if err := kit.tree.InsertBefore(container, el, ref); err != nil {
		return hostErr("insert <"+node.Tag+">", err)
	}
	node.Native = el
	return nil
}

func mountFunction(kit *Kit, node *vdom.VNode, container, ref host.Node) error {
	fn := node.Type.(*vdom.Function)
	rendered, err := vdom.NormalizeRoot(fn.Render(node.Props))
	if err != nil {
		return withComponentPath(err, node)
	}
	return mountRendered(kit, node, rendered, container, ref)
}

func mountClass(kit *Kit, node *vdom.VNode, container, ref host.Node) error {
	cls := node.Type.(*vdom.Class)
	inst := kit.newInstance(cls, node.Props)
	if inst == nil {
		return errors.New("E200").
			WithPath(node.TypeName()).
			WithDetail("class constructor returned a nil instance")
	}
	node.Meta.Instance = inst

	rendered, err := vdom.NormalizeRoot(inst.Render())
	if err != nil {
		return withComponentPath(err, node)
	}
	return mountRendered(kit, node, rendered, container, ref)
}

func mountRendered(kit *Kit, node, rendered *vdom.VNode, container, ref host.Node) error {
	if _, err := Mount(kit, rendered, container, ref); err != nil {
		return err
	}
	node.Rendered = rendered
	node.Native = rendered.Native
	return nil
}

func mountForeign(kit *Kit, node *vdom.VNode, container, ref host.Node) error {
	fa := kit.foreign
	if fa == nil {
		return foreignErrMissing(node)
	}
	typ := node.Type.(vdom.ForeignType)

	handle, err := fa.CreateInstance(typ, node.Props)
	if err != nil {
		return foreignErr("E221", node, err)
	}
	fr := &vdom.ForeignRef{Handle: handle, Subs: make(map[string]any)}
	node.Meta.Foreign = fr
	kit.logger.Debug("foreign instance created", "type", typ.ForeignName())

	if err := fa.PushInputs(handle, node.Props); err != nil {
		return foreignErr("E224", node, err)
	}
	for _, name := range fa.Outputs(handle) {
		cb, err := callback(kit, node, name, node.Props[name])
		if err != nil {
			return err
		}
		if cb == nil {
			continue
		}
		sub, err := fa.SubscribeOutput(handle, name, cb)
		if err != nil {
			return foreignErr("E223", node, err)
		}
		fr.Subs[name] = sub
	}
	if err := fa.DetectChanges(handle); err != nil {
		return foreignErr("E221", node, err)
	}

	root, err := fa.RootElement(handle)
	if err != nil {
		return foreignErr("E221", node, err)
	}
	if err := kit.tree.InsertBefore(container, root, ref); err != nil {
		return hostErr("insert "+node.TypeName(), err)
	}
	node.Native = root
	return nil
}

// callback adapts a prop value to an output callback. Values that are not
// funcs yield nil. A func must take at most one argument; emissions are
// passed to a typed argument when they are assignable or numerically
// convertible, and dropped with a warning otherwise.
func callback(kit *Kit, node *vdom.VNode, output string, v any) (func(any), error) {
	switch fn := v.(type) {
	case nil:
		return nil, nil
	case func(any):
		return fn, nil
	case func():
		return func(any) { fn() }, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func {
		return nil, nil
	}
	if rv.IsNil() {
		return nil, nil
	}
	t := rv.Type()
	if t.IsVariadic() || t.NumIn() > 1 {
		return nil, errors.New("E223").
			WithPath(node.TypeName()).
			WithDetailf("output %q: callback %s must take at most one argument", output, t)
	}
	if t.NumIn() == 0 {
		return func(any) { rv.Call(nil) }, nil
	}

	in := t.In(0)
	return func(value any) {
		arg, ok := convertArg(value, in)
		if !ok {
			kit.logger.Warn("output value does not fit callback",
				"type", node.TypeName(), "output", output,
				"value", fmt.Sprintf("%T", value), "want", in.String())
			return
		}
		rv.Call([]reflect.Value{arg})
	}, nil
}

func convertArg(value any, in reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch in.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(in), true
		}
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(in) {
		return v, true
	}
	if numeric(v.Kind()) && numeric(in.Kind()) {
		return v.Convert(in), true
	}
	return reflect.Value{}, false
}

func numeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func withComponentPath(err error, node *vdom.VNode) error {
	ge := errors.FromError(err, "E202")
	if ge.Path == "" || ge.Path == "/" {
		ge.Path = node.TypeName()
	} else {
		ge.Path = node.TypeName() + ge.Path
	}
	return ge
}
