package vdom

// Function is a stateless component. Its identity is the pointer: two
// nodes refer to the same component only if they hold the same *Function.
type Function struct {
	Name   string
	Render func(props Props) any
}

// Func declares a function component.
func Func(name string, render func(props Props) any) *Function {
	return &Function{Name: name, Render: render}
}

// Class is a stateful component. Mount creates one Instance per node and
// the instance survives every patch that keeps the same *Class and key.
type Class struct {
	Name string
	New  func(props Props) Instance
}

// NewClass declares a class component.
func NewClass(name string, ctor func(props Props) Instance) *Class {
	return &Class{Name: name, New: ctor}
}

// Instance is a live class component.
type Instance interface {
	// Render returns the raw output for the instance's current state.
	Render() any
}

// PropsReceiver is implemented by instances that derive state from props.
// ReceiveProps is called with the new props before each re-render.
type PropsReceiver interface {
	ReceiveProps(next Props)
}

// Unmounter is implemented by instances that need teardown. WillUnmount
// runs once, before the instance's rendered subtree is unmounted.
type Unmounter interface {
	WillUnmount()
}

// ForeignType is a component type owned by a foreign component framework.
// Implementations are compared by identity and should be pointers.
type ForeignType interface {
	ForeignName() string
}
