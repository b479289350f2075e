package reconcile

import (
	"log/slog"

	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "graft"

// ForeignAdapter bridges Foreign nodes to a foreign component framework.
//
// Handles and subscriptions are opaque to the reconciler. Inputs are the
// node's full props.
type ForeignAdapter interface {
	CreateInstance(typ vdom.ForeignType, inputs vdom.Props) (any, error)
	PushInputs(handle any, inputs vdom.Props) error
	Outputs(handle any) []string
	SubscribeOutput(handle any, name string, cb func(any)) (any, error)
	Unsubscribe(sub any) error
	DetectChanges(handle any) error
	DestroyInstance(handle any) error
	RootElement(handle any) (host.Node, error)
}

// InstanceFactory creates the live instance of a class component.
type InstanceFactory func(cls *vdom.Class, props vdom.Props) vdom.Instance

// Kit is the context shared by every reconciler call. Besides its
// configuration it collects the nodes a failed Mount or Patch left behind,
// which a Root sweeps before its next render.
type Kit struct {
	tree        host.Tree
	foreign     ForeignAdapter
	newInstance InstanceFactory
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer

	debris []*vdom.VNode
}

// Option configures a Kit.
type Option func(*Kit)

// WithForeignAdapter installs the adapter used for Foreign nodes.
func WithForeignAdapter(a ForeignAdapter) Option {
	return func(k *Kit) {
		k.foreign = a
	}
}

// WithInstanceFactory overrides how class instances are created.
func WithInstanceFactory(f InstanceFactory) Option {
	return func(k *Kit) {
		if f != nil {
			k.newInstance = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kit) {
		if l != nil {
			k.logger = l
		}
	}
}

// WithMetrics sets the metrics sink. A nil sink disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(k *Kit) {
		k.metrics = m
	}
}

// WithTracer sets the tracer used by Root.
func WithTracer(t trace.Tracer) Option {
	return func(k *Kit) {
		if t != nil {
			k.tracer = t
		}
	}
}

// NewKit creates a Kit over tree.
func NewKit(tree host.Tree, opts ...Option) *Kit {
	k := &Kit{
		tree:        tree,
		newInstance: defaultInstance,
		logger:      slog.Default().With("component", "reconcile"),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func defaultInstance(cls *vdom.Class, props vdom.Props) vdom.Instance {
	return cls.New(props)
}

// Tree returns the host tree.
func (k *Kit) Tree() host.Tree { return k.tree }

// Foreign returns the foreign adapter, or nil.
func (k *Kit) Foreign() ForeignAdapter { return k.foreign }

func (k *Kit) keep(nodes ...*vdom.VNode) {
	for _, n := range nodes {
		if n != nil {
			k.debris = append(k.debris, n)
		}
	}
}

func (k *Kit) takeDebris() []*vdom.VNode {
	d := k.debris
	k.debris = nil
	return d
}

// Metrics returns the metrics sink, or nil.
func (k *Kit) Metrics() *Metrics { return k.metrics }
