package reconcile

import (
	"errors"
	"reflect"
	"testing"

	graferrors "github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/host/memdom"
	"github.com/vango-dev/graft/pkg/vdom"
)

func TestMountKinds(t *testing.T) {
	var events []string
	greet := vdom.Func("Greet", func(p vdom.Props) any {
		return vdom.P("hi ", p.GetString("name"))
	})
	widget := &fakeWidget{name: "chart"}

	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"text", "hello", "hello"},
		{"void", nil, "<!---->"},
		{"native", vdom.Div(vdom.ClassName("box"), vdom.Span("a"), 1), `<div class="box"><span>a</span>1</div>`},
		{"function", vdom.H(greet, vdom.Props{"name": "bob"}), "<p>hi bob</p>"},
		{"class", vdom.H(newCounterClass(&events), vdom.Props{"start": 3}), "<span>3</span>"},
		{"foreign", vdom.H(widget, vdom.Props{"label": "x"}), `<x-chart data-label="x"></x-chart>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			node := f.mount(t, tt.raw)
			if got := f.html(); got != tt.want {
				t.Errorf("html = %q, want %q", got, tt.want)
			}
			if node.Native == nil || f.container.Child(0) != node.Native {
				t.Error("node.Native should be the container's child")
			}
		})
	}
}

func TestMountNativeInsertsOnce(t *testing.T) {
	f := newFixture(t)
	f.mount(t, vdom.Ul(vdom.Li("a"), vdom.Li("b")))

	inserts := 0
	for _, m := range f.log.Entries() {
		if m.Op == memdom.OpInsert && m.Parent == f.container.ID() {
			inserts++
		}
	}
	if inserts != 1 {
		t.Errorf("inserts into container = %d, want 1", inserts)
	}
}

func TestMountBeforeRef(t *testing.T) {
	f := newFixture(t)
	last := f.mount(t, "last")

	node, err := vdom.NormalizeRoot("first")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Mount(f.kit, node, f.container, last.Native); err != nil {
		t.Fatal(err)
	}
	if got := f.html(); got != "firstlast" {
		t.Errorf("html = %q, want firstlast", got)
	}
}

func TestMountComponentAliasesRenderedNative(t *testing.T) {
	inner := vdom.Func("Inner", func(vdom.Props) any { return vdom.Div("in") })
	outer := vdom.Func("Outer", func(vdom.Props) any { return vdom.H(inner, nil) })

	f := newFixture(t)
	node := f.mount(t, vdom.H(outer, nil))

	if node.Rendered == nil || node.Rendered.Rendered == nil {
		t.Fatal("rendered chain not recorded")
	}
	if node.Native != node.Rendered.Native || node.Native != node.Rendered.Rendered.Native {
		t.Error("component Native should alias its rendered root")
	}
}

func TestMountForeignOrder(t *testing.T) {
	widget := &fakeWidget{name: "w", outputs: []string{"change", "close"}}
	f := newFixture(t)
	f.mount(t, vdom.H(widget, vdom.Props{"change": func(any) {}}))

	want := []string{"create", "push", "subscribe:change", "detect", "root"}
	if !reflect.DeepEqual(f.foreign.calls, want) {
		t.Errorf("calls = %v, want %v", f.foreign.calls, want)
	}
}

func TestMountForeignChildrenPassThroughInputs(t *testing.T) {
	widget := &fakeWidget{name: "w"}
	f := newFixture(t)
	f.mount(t, vdom.H(widget, vdom.Props{"label": "a"}, "child"))

	inst := f.foreign.instances()[0]
	if len(inst.inputs.Children()) != 1 {
		t.Errorf("children input = %v", inst.inputs.Children())
	}
}

func TestMountErrors(t *testing.T) {
	t.Run("foreign without adapter", func(t *testing.T) {
		f := newFixture(t)
		kit := NewKit(f.doc)
		node, _ := vdom.NormalizeRoot(vdom.H(&fakeWidget{name: "w"}, nil))
		_, err := Mount(kit, node, f.container, nil)
		if !graferrors.HasCode(err, "E220") {
			t.Errorf("error = %v, want E220", err)
		}
	})

	t.Run("foreign create fails", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("boom")
		f.foreign.fail["create"] = boom
		node, _ := vdom.NormalizeRoot(vdom.H(&fakeWidget{name: "w"}, nil))
		_, err := Mount(f.kit, node, f.container, nil)
		if !graferrors.HasCode(err, "E221") || !errors.Is(err, boom) {
			t.Errorf("error = %v, want E221 wrapping boom", err)
		}
	})

	t.Run("host rejects insert", func(t *testing.T) {
		f := newFixture(t)
		text, _ := f.doc.CreateText("not a parent")
		node := &vdom.VNode{Kind: vdom.KindText, Text: "x"}
		_, err := Mount(f.kit, node, text, nil)
		if !graferrors.HasCode(err, "E210") || !errors.Is(err, memdom.ErrNotElement) {
			t.Errorf("error = %v, want E210 wrapping ErrNotElement", err)
		}
	})

	t.Run("malformed node", func(t *testing.T) {
		f := newFixture(t)
		_, err := Mount(f.kit, &vdom.VNode{Kind: vdom.KindNative}, f.container, nil)
		if !graferrors.HasCode(err, "E200") {
			t.Errorf("error = %v, want E200", err)
		}
	})

	t.Run("multiple roots", func(t *testing.T) {
		f := newFixture(t)
		pair := vdom.Func("Pair", func(vdom.Props) any { return []any{"a", "b"} })
		node, _ := vdom.NormalizeRoot(vdom.H(pair, nil))
		_, err := Mount(f.kit, node, f.container, nil)
		if !graferrors.HasCode(err, "E202") {
			t.Errorf("error = %v, want E202", err)
		}
	})

	t.Run("nil class instance", func(t *testing.T) {
		f := newFixture(t)
		cls := vdom.NewClass("Nil", func(vdom.Props) vdom.Instance { return nil })
		node, _ := vdom.NormalizeRoot(vdom.H(cls, nil))
		_, err := Mount(f.kit, node, f.container, nil)
		if !graferrors.HasCode(err, "E200") {
			t.Errorf("error = %v, want E200", err)
		}
	})
}

func TestInstanceFactory(t *testing.T) {
	var events []string
	cls := newCounterClass(&events)
	var made []string
	f := newFixture(t, WithInstanceFactory(func(c *vdom.Class, p vdom.Props) vdom.Instance {
		made = append(made, c.Name)
		return c.New(p)
	}))
	f.mount(t, vdom.H(cls, vdom.Props{"start": 1}))

	if !reflect.DeepEqual(made, []string{"Counter"}) {
		t.Errorf("factory calls = %v", made)
	}
}

func TestMountForeignTypedCallbacks(t *testing.T) {
	widget := &fakeWidget{name: "w", outputs: []string{"change", "count", "done"}}
	f := newFixture(t)

	var text string
	var total float64
	done := 0
	f.mount(t, vdom.H(widget, vdom.Props{
		"change": func(s string) { text = s },
		"count":  func(n float64) { total += n },
		"done":   func() { done++ },
	}))
	inst := f.foreign.instances()[0]
	if len(inst.subs) != 3 {
		t.Fatalf("subs = %d, want 3", len(inst.subs))
	}

	inst.emit("change", "hello")
	inst.emit("change", 42)
	inst.emit("count", 2)
	inst.emit("count", 0.5)
	inst.emit("done", nil)

	if text != "hello" {
		t.Errorf("change received %q, want hello", text)
	}
	if total != 2.5 {
		t.Errorf("count total = %v, want 2.5", total)
	}
	if done != 1 {
		t.Errorf("done = %d, want 1", done)
	}
}

func TestMountForeignRejectsUnusableCallback(t *testing.T) {
	widget := &fakeWidget{name: "w", outputs: []string{"change"}}
	f := newFixture(t)

	node, _ := vdom.NormalizeRoot(vdom.H(widget, vdom.Props{"change": func(a, b string) {}}))
	_, err := Mount(f.kit, node, f.container, nil)
	if !graferrors.HasCode(err, "E223") {
		t.Errorf("error = %v, want E223", err)
	}
}

func TestMountRejectsLiveNode(t *testing.T) {
	widget := &fakeWidget{name: "w"}
	f := newFixture(t)

	shared, _ := vdom.NormalizeRoot(vdom.H(widget, nil))
	prev := f.mount(t, vdom.Div(shared))
	native := shared.Native

	next, _ := vdom.NormalizeRoot(vdom.Span(shared))
	err := Patch(f.kit, prev, next, f.container)
	if !graferrors.HasCode(err, "E200") {
		t.Errorf("Patch() error = %v, want E200", err)
	}
	if shared.Native != native || shared.Meta.Foreign == nil {
		t.Error("live node should keep its host node and foreign instance")
	}
	if len(f.foreign.live) != 1 {
		t.Errorf("live instances = %d, want 1", len(f.foreign.live))
	}

	if _, err := Mount(f.kit, shared, f.container, nil); !graferrors.HasCode(err, "E200") {
		t.Errorf("Mount() error = %v, want E200", err)
	}
	if err := Patch(f.kit, nil, shared, f.container); !graferrors.HasCode(err, "E200") {
		t.Errorf("Patch(nil, live) error = %v, want E200", err)
	}
}
