package island

import (
	"github.com/vango-dev/graft/pkg/vdom"
)

// Strategy selects when a component's Check runs.
type Strategy uint8

const (
	// CheckAlways checks the component on every detection pass.
	CheckAlways Strategy = iota

	// OnPush checks the component only when an input changed or after
	// MarkForCheck.
	OnPush
)

// String returns the string representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case CheckAlways:
		return "CheckAlways"
	case OnPush:
		return "OnPush"
	default:
		return "Unknown"
	}
}

// Component is a live island instance.
type Component interface {
	// Init runs once, on the first detection pass, after the first inputs
	// have been bound.
	Init(ctx *Context) error

	// Check brings the host element up to date with the inputs.
	Check(ctx *Context) error

	// Destroy releases the component's resources.
	Destroy()
}

// Definition declares an island component type. Definitions are compared
// by pointer: declare each one once.
type Definition struct {
	Name string

	// Tag is the root element tag. Defaults to "div".
	Tag string

	// Inputs lists the props the component reads. Nil accepts every prop
	// that is not an output.
	Inputs []string

	// Outputs lists the events the component emits.
	Outputs []string

	Strategy Strategy

	New func(ctx *Context) Component
}

var _ vdom.ForeignType = (*Definition)(nil)

// ForeignName implements vdom.ForeignType.
func (d *Definition) ForeignName() string { return d.Name }

func (d *Definition) rootTag() string {
	if d.Tag == "" {
		return "div"
	}
	return d.Tag
}

func (d *Definition) isOutput(name string) bool {
	for _, o := range d.Outputs {
		if o == name {
			return true
		}
	}
	return false
}

// acceptsInput reports whether a prop is bound as an input.
func (d *Definition) acceptsInput(name string) bool {
	if name == vdom.ChildrenProp || name == "key" || d.isOutput(name) {
		return false
	}
	if d.Inputs == nil {
		return true
	}
	for _, in := range d.Inputs {
		if in == name {
			return true
		}
	}
	return false
}
