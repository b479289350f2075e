// Package reconcile mounts, patches and unmounts virtual trees into a
// host tree.
//
// The entry points are Mount, Patch and Unmount. They take a *Kit, the
// render context that carries the host tree, the optional
// foreign component adapter, the logger, metrics and tracer.
//
//	doc := memdom.NewDocument()
//	container, _ := doc.CreateElement("main")
//	kit := reconcile.NewKit(doc)
//
//	root := reconcile.NewRoot(kit, container)
//	_ = root.Render(ctx, vdom.Div(vdom.ClassName("a"), "hello"))
//	_ = root.Render(ctx, vdom.Div(vdom.ClassName("b"), "hello"))
//
// The second Render reuses the <div> and its text node and only rewrites
// the class attribute.
//
// # Ownership
//
// A patch moves Native, Meta and Rendered from the previous node to the
// next one and clears them on the previous node. After a patch the
// previous tree must not be reused. A VNode that is already mounted is
// rejected by Mount and Patch with E200. Unmount tears a subtree down exactly
// once and detaches its top host node.
//
// # Errors
//
// Errors propagate to the caller unchanged in meaning. Host failures are
// wrapped as E210 and still match the host's sentinel errors with
// errors.Is. There is no retry and no rollback. A Root keeps the trees of a
// failed render and unmounts whatever they still own before it renders
// again.
package reconcile
