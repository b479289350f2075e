package vtest

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/host/memdom"
	"github.com/vango-dev/graft/pkg/island"
	"github.com/vango-dev/graft/pkg/reconcile"
)

// Harness renders into a recorded in-memory document with an island runtime
// as the foreign adapter.
type Harness struct {
	Doc       *memdom.Document
	Container *memdom.Node
	Runtime   *island.Runtime
	Root      *reconcile.Root
	Log       *memdom.Log

	tb testing.TB
}

// New creates a harness rendering into a <main> container. The runtime is
// closed when the test ends.
//
// Example:
//
//	h := vtest.New(t)
//	h.MustRender(vdom.Div("hi"))
//	vtest.ExpectHTML(t, h, "<div>hi</div>")
func New(tb testing.TB, opts ...reconcile.Option) *Harness {
	tb.Helper()
	doc := memdom.NewDocument()
	c, err := doc.CreateElement("main")
	if err != nil {
		tb.Fatalf("create container: %v", err)
	}

	rt := island.NewRuntime(doc)
	tb.Cleanup(func() { _ = rt.Close() })

	opts = append([]reconcile.Option{reconcile.WithForeignAdapter(rt)}, opts...)
	h := &Harness{
		Doc:       doc,
		Container: c.(*memdom.Node),
		Runtime:   rt,
		Root:      reconcile.NewRoot(reconcile.NewKit(doc, opts...), c),
		Log:       &memdom.Log{},
		tb:        tb,
	}
	doc.SetRecorder(h.Log)
	return h
}

// Render reconciles the root against raw.
func (h *Harness) Render(raw any) error {
	return h.Root.Render(context.Background(), raw)
}

// MustRender reconciles the root against raw and fails the test on error.
func (h *Harness) MustRender(raw any) {
	h.tb.Helper()
	if err := h.Render(raw); err != nil {
		h.tb.Fatalf("render: %v", err)
	}
}

// Tick runs one island detection pass.
func (h *Harness) Tick() error {
	return h.Runtime.Tick()
}

// Unmount tears the tree down.
func (h *Harness) Unmount() error {
	return h.Root.Unmount(context.Background())
}

// Take returns the mutations recorded since the last Take.
func (h *Harness) Take() []memdom.Mutation {
	return h.Log.Take()
}

// Dispatch invokes the listener stored under name on node.
func (h *Harness) Dispatch(node host.Node, name string, event any) bool {
	return h.Doc.Dispatch(node, name, event)
}

// HTML returns the inner HTML of the container.
func (h *Harness) HTML() string {
	return memdom.InnerHTML(h.Container)
}

// RenderToString mounts raw into a fresh document and returns its HTML.
//
// Example:
//
//	html, err := vtest.RenderToString(vdom.Ul(vdom.Li("a")))
func RenderToString(raw any) (string, error) {
	doc := memdom.NewDocument()
	c, _ := doc.CreateElement("main")
	rt := island.NewRuntime(doc)
	defer func() { _ = rt.Close() }()

	root := reconcile.NewRoot(reconcile.NewKit(doc, reconcile.WithForeignAdapter(rt)), c)
	if err := root.Render(context.Background(), raw); err != nil {
		return "", err
	}
	if err := rt.Tick(); err != nil {
		return "", err
	}
	return memdom.InnerHTML(c.(*memdom.Node)), nil
}

// ExpectHTML asserts that the harness container holds exactly want.
func ExpectHTML(t testing.TB, h *Harness, want string) {
	t.Helper()
	if got := h.HTML(); got != want {
		t.Errorf("HTML mismatch\n got: %s\nwant: %s", truncate(got, 500), want)
	}
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, vdom.H(island.Badge, vdom.Props{"text": "x"}), ">x<")
func ExpectContains(t testing.TB, raw any, expected string) {
	t.Helper()
	html, err := RenderToString(raw)
	if err != nil {
		t.Errorf("render: %v", err)
		return
	}
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, raw any, unexpected string) {
	t.Helper()
	html, err := RenderToString(raw)
	if err != nil {
		t.Errorf("render: %v", err)
		return
	}
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectMutations asserts the number of mutations of each op recorded since
// the last Take, and clears the log.
//
// Example:
//
//	vtest.ExpectMutations(t, h, map[memdom.MutationOp]int{memdom.OpSetText: 1})
func ExpectMutations(t testing.TB, h *Harness, want map[memdom.MutationOp]int) {
	t.Helper()
	got := make(map[memdom.MutationOp]int)
	for _, m := range h.Take() {
		got[m.Op]++
	}
	for op, n := range want {
		if got[op] != n {
			t.Errorf("%s mutations = %d, want %d", op, got[op], n)
		}
	}
	for op, n := range got {
		if _, ok := want[op]; !ok {
			t.Errorf("unexpected %d %s mutations", n, op)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
