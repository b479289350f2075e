package island

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/do/v2"
	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
)

// Common runtime errors.
var (
	ErrUnknownType   = errors.New("island: foreign type is not an island definition")
	ErrNoConstructor = errors.New("island: definition has no constructor")
	ErrUnknownOutput = errors.New("island: unknown output")
	ErrBadHandle     = errors.New("island: handle does not belong to this runtime")
	ErrBadSub        = errors.New("island: not an island subscription")
	ErrDestroyed     = errors.New("island: instance destroyed")
)

// Runtime owns live island instances and drives their change detection.
// It implements the reconciler's foreign adapter. It is not safe for
// concurrent use.
type Runtime struct {
	tree     host.Tree
	injector *do.RootScope
	logger   *slog.Logger

	live  map[uuid.UUID]*Context
	order []uuid.UUID
}

// Option configures a Runtime.
type Option func(*runtimeConfig)

type runtimeConfig struct {
	logger   *slog.Logger
	packages []func(do.Injector)
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *runtimeConfig) {
		c.logger = l
	}
}

// WithServices registers service packages in the root injector. Island
// instances resolve them from their own scope.
func WithServices(packages ...func(do.Injector)) Option {
	return func(c *runtimeConfig) {
		c.packages = append(c.packages, packages...)
	}
}

// NewRuntime creates a runtime that renders islands into tree.
func NewRuntime(tree host.Tree, opts ...Option) *Runtime {
	cfg := runtimeConfig{logger: slog.Default().With("component", "island")}
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := &Runtime{
		tree:     tree,
		injector: do.New(cfg.packages...),
		logger:   cfg.logger,
		live:     make(map[uuid.UUID]*Context),
	}
	do.ProvideValue(rt.injector, tree)
	do.ProvideValue(rt.injector, rt)
	return rt
}

// Injector returns the root injector.
func (rt *Runtime) Injector() do.Injector { return rt.injector }

// Live returns the number of live instances.
func (rt *Runtime) Live() int { return len(rt.live) }

// Instances returns the live instances in creation order.
func (rt *Runtime) Instances() []*Context {
	out := make([]*Context, 0, len(rt.order))
	for _, id := range rt.order {
		out = append(out, rt.live[id])
	}
	return out
}

// Tick runs one detection pass over every live instance, in creation
// order. It returns the joined errors of the failing instances.
func (rt *Runtime) Tick() error {
	var errs []error
	for _, c := range rt.Instances() {
		if c.destroyed {
			continue
		}
		if err := c.detect(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close destroys every live instance and shuts the root injector down.
func (rt *Runtime) Close() error {
	var errs []error
	for _, c := range rt.Instances() {
		if err := rt.DestroyInstance(c); err != nil {
			errs = append(errs, err)
		}
	}
	_ = rt.injector.Shutdown()
	return errors.Join(errs...)
}

func (rt *Runtime) handle(h any) (*Context, error) {
	c, ok := h.(*Context)
	if !ok || c == nil || c.rt != rt {
		return nil, fmt.Errorf("%w: %T", ErrBadHandle, h)
	}
	return c, nil
}

// CreateInstance creates an island and its root element. Inputs are bound
// by the following PushInputs call.
func (rt *Runtime) CreateInstance(typ vdom.ForeignType, _ vdom.Props) (any, error) {
	def, ok := typ.(*Definition)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ.ForeignName())
	}
	if def.New == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoConstructor, def.Name)
	}

	root, err := rt.tree.CreateElement(def.rootTag())
	if err != nil {
		return nil, err
	}
	if err := rt.tree.SetAttribute(root, "data-island", def.Name); err != nil {
		return nil, err
	}

	id := uuid.New()
	c := &Context{
		id:      id,
		def:     def,
		rt:      rt,
		root:    root,
		scope:   rt.injector.Scope(id.String()),
		inputs:  vdom.Props{},
		changed: make(map[string]bool),
		outputs: make(map[string]*Emitter, len(def.Outputs)),
	}
	for _, name := range def.Outputs {
		c.outputs[name] = NewEmitter(name)
	}
	do.ProvideValue(c.scope, c)

	comp := def.New(c)
	if comp == nil {
		_ = c.scope.Shutdown()
		return nil, fmt.Errorf("%w: %s returned nil", ErrNoConstructor, def.Name)
	}
	c.comp = comp

	rt.live[id] = c
	rt.order = append(rt.order, id)
	rt.logger.Debug("island created", "name", def.Name, "id", id)
	return c, nil
}

// PushInputs binds new inputs. Changed inputs mark OnPush islands dirty.
func (rt *Runtime) PushInputs(h any, inputs vdom.Props) error {
	c, err := rt.handle(h)
	if err != nil {
		return err
	}
	if c.destroyed {
		return fmt.Errorf("%w: %s", ErrDestroyed, c.id)
	}
	c.bind(inputs)
	return nil
}

// Outputs returns the declared outputs of the island.
func (rt *Runtime) Outputs(h any) []string {
	c, err := rt.handle(h)
	if err != nil {
		return nil
	}
	return c.def.Outputs
}

// SubscribeOutput registers cb on an output.
func (rt *Runtime) SubscribeOutput(h any, name string, cb func(any)) (any, error) {
	c, err := rt.handle(h)
	if err != nil {
		return nil, err
	}
	e, ok := c.outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownOutput, c.def.Name, name)
	}
	return e.Subscribe(cb), nil
}

// Unsubscribe removes a subscription returned by SubscribeOutput.
func (rt *Runtime) Unsubscribe(sub any) error {
	s, ok := sub.(*Subscription)
	if !ok {
		return fmt.Errorf("%w: %T", ErrBadSub, sub)
	}
	s.Unsubscribe()
	return nil
}

// DetectChanges runs one detection pass on a single island.
func (rt *Runtime) DetectChanges(h any) error {
	c, err := rt.handle(h)
	if err != nil {
		return err
	}
	return c.detect()
}

// DestroyInstance destroys the island and shuts its scope down.
func (rt *Runtime) DestroyInstance(h any) error {
	c, err := rt.handle(h)
	if err != nil {
		return err
	}
	if c.destroyed {
		return fmt.Errorf("%w: %s", ErrDestroyed, c.id)
	}
	c.destroyed = true
	c.comp.Destroy()
	for _, e := range c.outputs {
		e.clear()
	}
	_ = c.scope.Shutdown()

	delete(rt.live, c.id)
	for i, id := range rt.order {
		if id == c.id {
			rt.order = append(rt.order[:i], rt.order[i+1:]...)
			break
		}
	}
	rt.logger.Debug("island destroyed", "name", c.def.Name, "id", c.id)
	return nil
}

// RootElement returns the island's root element.
func (rt *Runtime) RootElement(h any) (host.Node, error) {
	c, err := rt.handle(h)
	if err != nil {
		return nil, err
	}
	return c.root, nil
}
