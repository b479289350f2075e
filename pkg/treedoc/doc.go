// Package treedoc builds virtual trees from YAML documents.
//
// A document declares optional variables, optional function components and
// a root template:
//
//	vars:
//	  items: [a, b, c]
//	components:
//	  Item:
//	    tag: li
//	    children: ["${props.label}"]
//	root:
//	  tag: ul
//	  props: {className: list}
//	  children:
//	    - component: Item
//	      each: "${items}"
//	      as: it
//	      key: "${it}"
//	      props: {label: "${upper(it)}"}
//
// A template is a scalar (text), a list of templates, or a mapping with
// exactly one of tag, component or island, plus optional key, props,
// children, if, each and as.
//
// Strings may embed expr-lang expressions as ${...}. A string that is a
// single expression evaluates to the expression's value; otherwise every
// expression is formatted into the string. Expressions see the document
// variables and, inside a component body, the component's props as both
// top-level names and the props map.
//
// Components are compiled into *vdom.Function values owned by a Library.
// Loading a new document into the same Library updates the component
// bodies but keeps the *vdom.Function identities, so successive documents
// patch each other's components in place.
package treedoc
