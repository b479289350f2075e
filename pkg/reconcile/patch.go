package reconcile

import (
	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Patch updates the host tree from prev to next.
//
// When prev and next have the same type, next takes over prev's host node,
// instance and rendered output, and prev is cleared. Otherwise next is
// mounted in prev's place and prev is unmounted. container is the host
// parent of prev; it is used when prev's own parent cannot be resolved.
//
// A nil or unmounted prev mounts next into container; a nil next
// unmounts prev. A next that is already mounted is rejected.
func Patch(kit *Kit, prev, next *vdom.VNode, container host.Node) error {
	if prev == next {
		return nil
	}
	if next.IsMounted() {
		return alreadyMounted(next)
	}
	if err := patch(kit, prev, next, container); err != nil {
		kit.keep(prev, next)
		return err
	}
	return nil
}

func patch(kit *Kit, prev, next *vdom.VNode, container host.Node) error {
	if prev == nil {
		_, err := Mount(kit, next, container, nil)
		return err
	}
	if next == nil {
		return Unmount(kit, prev)
	}
	if err := vdom.Check(next); err != nil {
		return err
	}
	if !prev.IsMounted() {
		_, err := Mount(kit, next, container, nil)
		return err
	}
	if !vdom.SameType(prev, next) {
		return replace(kit, prev, next, container)
	}

	next.Native = prev.Native
	next.Meta = prev.Meta
	next.Rendered = prev.Rendered
	prevProps := prev.Props
	prevChildren := prev.Children
	prevText := prev.Text
	clearNode(prev)

	var err error
	switch next.Kind {
	case vdom.KindText:
		if prevText != next.Text {
			err = hostErr("set text", kit.tree.SetText(next.Native, next.Text))
		}
	case vdom.KindVoid:
	case vdom.KindNative:
		if err = diffProps(kit.tree, next.Native, prevProps, next.Props); err == nil {
			err = reconcileChildren(kit, next.Native, prevChildren, next.Children)
		}
	case vdom.KindFunction:
		fn := next.Type.(*vdom.Function)
		err = patchRendered(kit, next, fn.Render(next.Props), container)
	case vdom.KindClass:
		inst := next.Meta.Instance
		if r, ok := inst.(vdom.PropsReceiver); ok {
			r.ReceiveProps(next.Props)
		}
		err = patchRendered(kit, next, inst.Render(), container)
	case vdom.KindForeign:
		err = patchForeign(kit, prevProps, next)
	}
	if err != nil {
		return err
	}

	kit.metrics.patched(next.Kind, OutcomeReuse)
	return nil
}

// replace mounts next before prev's host node, then unmounts prev.
func replace(kit *Kit, prev, next *vdom.VNode, container host.Node) error {
	parent := container
	if prev.Native != nil {
		if p := kit.tree.Parent(prev.Native); p != nil {
			parent = p
		}
	}
	kit.logger.Debug("replace", "from", prev.TypeName(), "to", next.TypeName())

	if _, err := Mount(kit, next, parent, prev.Native); err != nil {
		return err
	}
	if err := Unmount(kit, prev); err != nil {
		return err
	}
	kit.metrics.patched(next.Kind, OutcomeReplace)
	return nil
}

func patchRendered(kit *Kit, node *vdom.VNode, raw any, container host.Node) error {
	rendered, err := vdom.NormalizeRoot(raw)
	if err != nil {
		return withComponentPath(err, node)
	}
	prev := node.Rendered
	if err := Patch(kit, prev, rendered, container); err != nil {
		return err
	}
	node.Rendered = rendered
	node.Native = rendered.Native
	return nil
}

func patchForeign(kit *Kit, prevProps vdom.Props, next *vdom.VNode) error {
	fa := kit.foreign
	if fa == nil {
		return foreignErrMissing(next)
	}
	fr := next.Meta.Foreign
	if fr == nil {
		return foreignErrMissing(next)
	}

	if err := fa.PushInputs(fr.Handle, next.Props); err != nil {
		return foreignErr("E224", next, err)
	}
	for _, name := range fa.Outputs(fr.Handle) {
		pv, nv := prevProps[name], next.Props[name]
		if vdom.PropEqual(pv, nv) {
			continue
		}
		if sub, ok := fr.Subs[name]; ok {
			delete(fr.Subs, name)
			if err := fa.Unsubscribe(sub); err != nil {
				return foreignErr("E223", next, err)
			}
		}
		cb, err := callback(kit, next, name, nv)
		if err != nil {
			return err
		}
		if cb == nil {
			continue
		}
		sub, err := fa.SubscribeOutput(fr.Handle, name, cb)
		if err != nil {
			return foreignErr("E223", next, err)
		}
		fr.Subs[name] = sub
	}
	return nil
}

func clearNode(n *vdom.VNode) {
	n.Native = nil
	n.Meta = vdom.Meta{}
	n.Rendered = nil
}
