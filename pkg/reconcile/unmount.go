package reconcile

import (
	stderrors "errors"
	"sort"

	"github.com/vango-dev/graft/pkg/vdom"
)

// Unmount tears node's subtree down depth-first and detaches its top host
// node from its parent. Class instances get WillUnmount before their
// rendered output is torn down; foreign instances lose their output
// subscriptions and are then destroyed.
//
// Unmounting an already unmounted node does nothing.
func Unmount(kit *Kit, node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	native := node.Native
	if err := teardown(kit, node); err != nil {
		return err
	}
	if native == nil {
		return nil
	}
	if parent := kit.tree.Parent(native); parent != nil {
		if err := kit.tree.RemoveChild(parent, native); err != nil {
			return hostErr("detach "+node.TypeName(), err)
		}
	}
	return nil
}

// sweep releases everything node and its descendants still own after a
// failed reconcile, including nodes mounted beneath parents that never
// finished mounting.
func sweep(kit *Kit, node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	if node.IsMounted() {
		return Unmount(kit, node)
	}
	var errs []error
	for _, c := range node.Children {
		errs = append(errs, sweep(kit, c))
	}
	errs = append(errs, sweep(kit, node.Rendered))
	if node.Kind == vdom.KindForeign {
		errs = append(errs, destroyForeign(kit, node))
	}
	clearNode(node)
	return stderrors.Join(errs...)
}

func teardown(kit *Kit, node *vdom.VNode) error {
	if node == nil || node.Native == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindNative:
		for _, child := range node.Children {
			if err := teardown(kit, child); err != nil {
				return err
			}
		}
	case vdom.KindFunction:
		if err := teardown(kit, node.Rendered); err != nil {
			return err
		}
	case vdom.KindClass:
		if u, ok := node.Meta.Instance.(vdom.Unmounter); ok {
			u.WillUnmount()
		}
		if err := teardown(kit, node.Rendered); err != nil {
			return err
		}
	case vdom.KindForeign:
		if err := destroyForeign(kit, node); err != nil {
			return err
		}
	}

	clearNode(node)
	kit.metrics.unmounted(node.Kind)
	return nil
}

func destroyForeign(kit *Kit, node *vdom.VNode) error {
	fr := node.Meta.Foreign
	if fr == nil {
		return nil
	}
	fa := kit.foreign
	if fa == nil {
		return foreignErrMissing(node)
	}

	names := make([]string, 0, len(fr.Subs))
	for name := range fr.Subs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sub := fr.Subs[name]
		delete(fr.Subs, name)
		if err := fa.Unsubscribe(sub); err != nil {
			return foreignErr("E223", node, err)
		}
	}

	// Cleared before destroy so a failed destroy is never retried.
	node.Meta.Foreign = nil
	if err := fa.DestroyInstance(fr.Handle); err != nil {
		return foreignErr("E222", node, err)
	}
	kit.logger.Debug("foreign instance destroyed", "type", node.TypeName())
	return nil
}
