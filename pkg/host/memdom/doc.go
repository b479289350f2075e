// Package memdom is an in-memory host tree.
//
// Document implements host.Tree over plain Go structs. It is the host used by
// the CLI, the live server and the test suites: every node gets a stable
// integer ID, mutations can be observed through a Recorder, and any subtree
// can be serialized to HTML.
//
//	doc := memdom.NewDocument()
//	root, _ := doc.CreateElement("div")
//	kit := reconcile.NewKit(doc)
//	_, err := reconcile.Mount(kit, tree, root, nil)
//	fmt.Println(memdom.InnerHTML(root.(*memdom.Node)))
//
// memdom is strict where a browser would be forgiving: inserting relative to
// a node that is not a child, removing a non-child, or handing it a node from
// another Document all return errors. This surfaces reconciler bugs in tests
// instead of hiding them.
package memdom
