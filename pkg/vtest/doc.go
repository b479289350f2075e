// Package vtest provides testing helpers for graft trees.
//
// A Harness bundles an in-memory host document, a recorded mutation log,
// an island runtime and a reconcile.Root:
//
//	func TestList(t *testing.T) {
//	    h := vtest.New(t)
//	    h.MustRender(vdom.Ul(vdom.Li(vdom.Key("a"), "a")))
//	    h.Take()
//
//	    h.MustRender(vdom.Ul(vdom.Li(vdom.Key("a"), "b")))
//	    vtest.ExpectMutations(t, h, map[memdom.MutationOp]int{memdom.OpSetText: 1})
//	    vtest.ExpectHTML(t, h, "<ul><li>b</li></ul>")
//	}
//
// # Render Assertions
//
// For one-shot checks, render straight to a string:
//
//	vtest.ExpectContains(t, vdom.H(island.Badge, vdom.Props{"text": "hi"}), ">hi<")
//	vtest.ExpectNotContains(t, tree, "error")
package vtest
