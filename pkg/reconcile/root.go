package reconcile

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/vdom"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Root owns the tree rendered into one host container.
//
// Root does not schedule: every Render reconciles synchronously. It is not
// safe for concurrent use.
type Root struct {
	kit       *Kit
	container host.Node
	current   *vdom.VNode

	// stale holds the trees of a failed render. They still own whatever
	// they mounted and are swept before the next render.
	stale []*vdom.VNode
}

// NewRoot creates a Root that renders into container.
func NewRoot(kit *Kit, container host.Node) *Root {
	return &Root{kit: kit, container: container}
}

// Container returns the host container.
func (r *Root) Container() host.Node { return r.container }

// Current returns the tree mounted by the last successful Render, or nil
// once a Render has failed.
func (r *Root) Current() *vdom.VNode { return r.current }

// Render normalizes raw to a single node and mounts it, or patches the
// current tree to it.
//
// When mounting or patching fails the host mutations already made stay in
// place, and the failed trees are unmounted at the start of the next Render
// or Unmount, which then mounts from scratch.
func (r *Root) Render(ctx context.Context, raw any) (err error) {
	op := "patch"
	if r.current == nil {
		op = "mount"
	}
	_, span := r.kit.tracer.Start(ctx, "graft.render",
		trace.WithAttributes(attribute.String("graft.op", op)))
	start := time.Now()
	defer func() {
		r.kit.metrics.observeRender(time.Since(start))
		endSpan(span, err)
	}()

	next, err := vdom.NormalizeRoot(raw)
	if err != nil {
		return err
	}
	if err = vdom.Validate(next); err != nil {
		return err
	}
	if next != r.current && next.IsMounted() {
		return alreadyMounted(next)
	}
	span.SetAttributes(attribute.String("graft.root", next.TypeName()))

	if err = r.sweep(); err != nil {
		return err
	}

	if r.current == nil {
		_, err = Mount(r.kit, next, r.container, nil)
	} else {
		err = Patch(r.kit, r.current, next, r.container)
	}
	if err != nil {
		if r.current != nil {
			r.stale = append(r.stale, r.current)
		}
		r.stale = append(r.stale, r.kit.takeDebris()...)
		r.current = nil
		return err
	}
	r.current = next
	return nil
}

// sweep unmounts the trees left by a failed render.
func (r *Root) sweep() error {
	if len(r.stale) == 0 {
		return nil
	}
	stale := r.stale
	r.stale = nil

	var errs []error
	for _, n := range stale {
		errs = append(errs, sweep(r.kit, n))
	}
	r.kit.logger.Debug("swept failed render", "trees", len(stale))
	return stderrors.Join(errs...)
}

// Unmount tears the current tree down, along with any trees left by a
// failed render.
func (r *Root) Unmount(ctx context.Context) (err error) {
	if r.current == nil && len(r.stale) == 0 {
		return nil
	}
	_, span := r.kit.tracer.Start(ctx, "graft.unmount")
	defer func() { endSpan(span, err) }()

	err = stderrors.Join(r.sweep(), Unmount(r.kit, r.current))
	r.current = nil
	return err
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
