// Package island is a small component framework whose instances live
// outside the virtual tree.
//
// An island owns one host element and updates it imperatively. It has its
// own lifecycle (Init, Check, Destroy), its own change detection with the
// CheckAlways and OnPush strategies, and typed outputs that deliver events
// to subscribers.
//
// The reconciler embeds islands as Foreign nodes through Runtime, which
// implements the reconciler's foreign adapter:
//
//	rt := island.NewRuntime(doc)
//	kit := reconcile.NewKit(doc, reconcile.WithForeignAdapter(rt))
//
//	node := vdom.H(island.Counter, vdom.Props{
//	    "start":  1,
//	    "change": func(v any) { log.Println("count", v) },
//	})
//
// The reconciler runs change detection once, on mount. Later detection
// passes are the framework's own business: call Runtime.Tick after events.
//
// Every instance gets a child scope of the runtime's samber/do injector,
// named after the instance ID. The scope is shut down when the instance is
// destroyed.
package island
