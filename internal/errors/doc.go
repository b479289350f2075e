// Package errors provides structured, actionable errors for graft.
//
// Every error raised by the reconciler, the island runtime, the tree
// document loader and the wire codec is a *GraftError carrying a registry
// code. The code maps to a category, a short message and a longer detail.
//
// # Error Categories
//
// Errors are organized into categories that mirror how a caller should react:
//   - node: malformed virtual nodes (fatal, the tree was not validated)
//   - host: the host tree rejected an operation (propagated, never retried)
//   - foreign: the foreign component adapter failed (propagated so that
//     instance bookkeeping never silently diverges)
//   - document: tree document parsing or expression evaluation
//   - protocol: wire frame decoding
//
// # Usage
//
//	err := errors.New("E210").
//	    WithPath("div/ul/li[2]").
//	    WithDetail(`SetAttribute("class")`).
//	    Wrap(hostErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E210: Host operation failed
//	//
//	//   at div/ul/li[2]
//	//
//	//   SetAttribute("class")
package errors
