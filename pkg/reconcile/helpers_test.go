package reconcile

import (
	"fmt"
	"testing"

	"github.com/vango-dev/graft/pkg/host"
	"github.com/vango-dev/graft/pkg/host/memdom"
	"github.com/vango-dev/graft/pkg/vdom"
)

type fixture struct {
	doc       *memdom.Document
	log       *memdom.Log
	container *memdom.Node
	foreign   *fakeAdapter
	kit       *Kit
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	doc := memdom.NewDocument()
	c, err := doc.CreateElement("main")
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		doc:       doc,
		log:       &memdom.Log{},
		container: c.(*memdom.Node),
		foreign:   newFakeAdapter(doc),
	}
	doc.SetRecorder(f.log)
	opts = append([]Option{WithForeignAdapter(f.foreign)}, opts...)
	f.kit = NewKit(doc, opts...)
	return f
}

func (f *fixture) html() string {
	return memdom.InnerHTML(f.container)
}

func (f *fixture) mount(t *testing.T, raw any) *vdom.VNode {
	t.Helper()
	node, err := vdom.NormalizeRoot(raw)
	if err != nil {
		t.Fatalf("NormalizeRoot() error = %v", err)
	}
	if _, err := Mount(f.kit, node, f.container, nil); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return node
}

func (f *fixture) patch(t *testing.T, prev *vdom.VNode, raw any) *vdom.VNode {
	t.Helper()
	next, err := vdom.NormalizeRoot(raw)
	if err != nil {
		t.Fatalf("NormalizeRoot() error = %v", err)
	}
	f.log.Take()
	if err := Patch(f.kit, prev, next, f.container); err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	return next
}

func asNode(t *testing.T, n host.Node) *memdom.Node {
	t.Helper()
	mn, ok := n.(*memdom.Node)
	if !ok || mn == nil {
		t.Fatalf("host node = %T, want *memdom.Node", n)
	}
	return mn
}

// fakeWidget is a foreign component type with a fixed set of outputs.
type fakeWidget struct {
	name    string
	outputs []string
}

func (w *fakeWidget) ForeignName() string { return w.name }

type fakeInstance struct {
	typ        *fakeWidget
	root       host.Node
	inputs     vdom.Props
	subs       map[string]*fakeSub
	detections int
	destroyed  bool
}

type fakeSub struct {
	inst *fakeInstance
	name string
	cb   func(any)
}

// emit delivers v to the current subscriber of output name.
func (i *fakeInstance) emit(name string, v any) {
	if s, ok := i.subs[name]; ok {
		s.cb(v)
	}
}

// fakeAdapter is a ForeignAdapter that records every call.
type fakeAdapter struct {
	doc   *memdom.Document
	calls []string
	live  map[*fakeInstance]bool
	fail  map[string]error
}

func newFakeAdapter(doc *memdom.Document) *fakeAdapter {
	return &fakeAdapter{doc: doc, live: make(map[*fakeInstance]bool), fail: make(map[string]error)}
}

func (a *fakeAdapter) record(call string) error {
	a.calls = append(a.calls, call)
	return a.fail[call]
}

func (a *fakeAdapter) instances() []*fakeInstance {
	out := make([]*fakeInstance, 0, len(a.live))
	for i := range a.live {
		out = append(out, i)
	}
	return out
}

func (a *fakeAdapter) CreateInstance(typ vdom.ForeignType, inputs vdom.Props) (any, error) {
	if err := a.record("create"); err != nil {
		return nil, err
	}
	w := typ.(*fakeWidget)
	root, err := a.doc.CreateElement("x-" + w.name)
	if err != nil {
		return nil, err
	}
	inst := &fakeInstance{typ: w, root: root, subs: make(map[string]*fakeSub)}
	a.live[inst] = true
	return inst, nil
}

func (a *fakeAdapter) PushInputs(h any, inputs vdom.Props) error {
	if err := a.record("push"); err != nil {
		return err
	}
	inst := h.(*fakeInstance)
	inst.inputs = inputs
	return a.doc.SetAttribute(inst.root, "data-label", inputs.GetString("label"))
}

func (a *fakeAdapter) Outputs(h any) []string {
	return h.(*fakeInstance).typ.outputs
}

func (a *fakeAdapter) SubscribeOutput(h any, name string, cb func(any)) (any, error) {
	if err := a.record("subscribe:" + name); err != nil {
		return nil, err
	}
	inst := h.(*fakeInstance)
	s := &fakeSub{inst: inst, name: name, cb: cb}
	inst.subs[name] = s
	return s, nil
}

func (a *fakeAdapter) Unsubscribe(sub any) error {
	s := sub.(*fakeSub)
	if err := a.record("unsubscribe:" + s.name); err != nil {
		return err
	}
	if s.inst.subs[s.name] == s {
		delete(s.inst.subs, s.name)
	}
	return nil
}

func (a *fakeAdapter) DetectChanges(h any) error {
	if err := a.record("detect"); err != nil {
		return err
	}
	h.(*fakeInstance).detections++
	return nil
}

func (a *fakeAdapter) DestroyInstance(h any) error {
	if err := a.record("destroy"); err != nil {
		return err
	}
	inst := h.(*fakeInstance)
	inst.destroyed = true
	delete(a.live, inst)
	return nil
}

func (a *fakeAdapter) RootElement(h any) (host.Node, error) {
	if err := a.record("root"); err != nil {
		return nil, err
	}
	return h.(*fakeInstance).root, nil
}

// counter is a class component that records its lifecycle into events.
type counter struct {
	start  int
	events *[]string
}

func (c *counter) Render() any {
	*c.events = append(*c.events, fmt.Sprintf("render %d", c.start))
	return vdom.Span(c.start)
}

func (c *counter) ReceiveProps(p vdom.Props) {
	*c.events = append(*c.events, "receive")
	c.start, _ = p["start"].(int)
}

func (c *counter) WillUnmount() {
	*c.events = append(*c.events, "unmount")
}

func newCounterClass(events *[]string) *vdom.Class {
	return vdom.NewClass("Counter", func(p vdom.Props) vdom.Instance {
		start, _ := p["start"].(int)
		*events = append(*events, "new")
		return &counter{start: start, events: events}
	})
}
