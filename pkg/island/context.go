package island

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Context is the handle of one island instance. The runtime passes it to
// every lifecycle call, and the reconciler holds it as the foreign handle.
type Context struct {
	id    uuid.UUID
	def   *Definition
	rt    *Runtime
	root  host.Node
	scope *do.Scope
	comp  Component

	inputs      vdom.Props
	changed     map[string]bool
	dirty       bool
	initialized bool
	destroyed   bool

	outputs map[string]*Emitter
}

// ID returns the instance ID.
func (c *Context) ID() uuid.UUID { return c.id }

// Definition returns the component's definition.
func (c *Context) Definition() *Definition { return c.def }

// Input returns the current value of an input, or nil.
func (c *Context) Input(name string) any { return c.inputs[name] }

// Inputs returns a copy of the bound inputs.
func (c *Context) Inputs() vdom.Props { return c.inputs.Clone() }

// Changed reports whether the input changed since the last check.
func (c *Context) Changed(name string) bool { return c.changed[name] }

// Root returns the island's root host element.
func (c *Context) Root() host.Node { return c.root }

// Tree returns the host tree the island renders into.
func (c *Context) Tree() host.Tree { return c.rt.tree }

// Injector returns the instance's dependency scope.
func (c *Context) Injector() do.Injector { return c.scope }

// Output returns the emitter for a declared output, or nil.
func (c *Context) Output(name string) *Emitter { return c.outputs[name] }

// Emit sends value to the subscribers of output.
func (c *Context) Emit(output string, value any) error {
	e, ok := c.outputs[output]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownOutput, c.def.Name, output)
	}
	e.Emit(value)
	return nil
}

// MarkForCheck schedules an OnPush component for the next detection pass.
func (c *Context) MarkForCheck() { c.dirty = true }

// Destroyed reports whether the instance has been destroyed.
func (c *Context) Destroyed() bool { return c.destroyed }

// bind stores the inputs the definition accepts and flags the ones whose
// value changed.
func (c *Context) bind(props vdom.Props) {
	next := make(vdom.Props, len(props))
	for name, v := range props {
		if c.def.acceptsInput(name) {
			next[name] = v
		}
	}
	for name, v := range next {
		old, had := c.inputs[name]
		if !had || !vdom.PropEqual(old, v) {
			c.changed[name] = true
			c.dirty = true
		}
	}
	for name := range c.inputs {
		if _, ok := next[name]; !ok {
			c.changed[name] = true
			c.dirty = true
		}
	}
	c.inputs = next
}

// detect runs one change-detection pass.
func (c *Context) detect() error {
	if c.destroyed {
		return fmt.Errorf("%w: %s", ErrDestroyed, c.id)
	}
	if !c.initialized {
		c.initialized = true
		if err := c.comp.Init(c); err != nil {
			return fmt.Errorf("init %s: %w", c.def.Name, err)
		}
	} else if c.def.Strategy == OnPush && !c.dirty {
		return nil
	}

	if err := c.comp.Check(c); err != nil {
		return fmt.Errorf("check %s: %w", c.def.Name, err)
	}
	c.dirty = false
	clear(c.changed)
	return nil
}
