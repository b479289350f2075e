package reconcile

import (
	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// reconcileChildren patches the children of a reused Native element.
//
// Keyed children are matched by key and unkeyed children by their position
// among the unkeyed ones. Old children left without a match are unmounted
// first. The new children are then placed from right to left, each before
// the host node of its right neighbour, and a host node is moved only when
// it is not already in place.
func reconcileChildren(kit *Kit, parent host.Node, prev, next []*vdom.VNode) error {
	matches := matchChildren(prev, next)

	matched := make(map[*vdom.VNode]bool, len(prev))
	for _, old := range matches {
		if old != nil {
			matched[old] = true
		}
	}
	for _, old := range prev {
		if !matched[old] {
			if err := Unmount(kit, old); err != nil {
				return err
			}
		}
	}

	var ref host.Node
	for i := len(next) - 1; i >= 0; i-- {
		child, old := next[i], matches[i]
		if old == nil {
			if _, err := Mount(kit, child, parent, ref); err != nil {
				return err
			}
		} else {
			if err := Patch(kit, old, child, parent); err != nil {
				return err
			}
			if kit.tree.NextSibling(child.Native) != ref {
				if err := kit.tree.InsertBefore(parent, child.Native, ref); err != nil {
					return hostErr("move "+child.TypeName(), err)
				}
			}
		}
		ref = child.Native
	}
	return nil
}

// matchChildren pairs each new child with the old child it reuses, or nil.
// When keys repeat, the first occurrence wins.
func matchChildren(prev, next []*vdom.VNode) []*vdom.VNode {
	keyed := make(map[string]*vdom.VNode)
	var unkeyed []*vdom.VNode
	for _, c := range prev {
		if c.Key == "" {
			unkeyed = append(unkeyed, c)
			continue
		}
		if _, dup := keyed[c.Key]; !dup {
			keyed[c.Key] = c
		}
	}

	matches := make([]*vdom.VNode, len(next))
	u := 0
	for i, c := range next {
		if c.Key != "" {
			if old, ok := keyed[c.Key]; ok {
				matches[i] = old
				delete(keyed, c.Key)
			}
			continue
		}
		if u < len(unkeyed) {
			matches[i] = unkeyed[u]
			u++
		}
	}
	return matches
}
