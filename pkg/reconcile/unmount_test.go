package reconcile

import (
	"errors"
	"reflect"
	"testing"

	graferrors "github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/vdom"
)

func TestMountUnmountRoundTrip(t *testing.T) {
	var events []string
	cls := newCounterClass(&events)
	fn := vdom.Func("Wrap", func(p vdom.Props) any { return vdom.Div(p.Children()) })
	widget := &fakeWidget{name: "w", outputs: []string{"change"}}

	tests := []struct {
		name string
		raw  any
	}{
		{"text", "hello"},
		{"void", nil},
		{"native", vdom.Ul(vdom.Li(vdom.Key("a"), "a"), vdom.Li(vdom.OnClick(func() {}), "b"))},
		{"function", vdom.H(fn, nil, "x", vdom.H(cls, nil))},
		{"class", vdom.H(cls, vdom.Props{"start": 9})},
		{"foreign", vdom.H(widget, vdom.Props{"change": func(any) {}})},
		{"nested foreign", vdom.Div(vdom.H(widget, vdom.Props{"change": func(any) {}}), vdom.H(widget, nil))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sentinel, _ := f.doc.CreateText("keep")
			if err := f.doc.InsertBefore(f.container, sentinel, nil); err != nil {
				t.Fatal(err)
			}
			before := f.html()

			node, _ := vdom.NormalizeRoot(tt.raw)
			if _, err := Mount(f.kit, node, f.container, sentinel); err != nil {
				t.Fatal(err)
			}
			if f.html() == before {
				t.Fatal("mount did not change the container")
			}
			if err := Unmount(f.kit, node); err != nil {
				t.Fatal(err)
			}

			if got := f.html(); got != before {
				t.Errorf("html = %q, want %q", got, before)
			}
			if n := len(f.foreign.live); n != 0 {
				t.Errorf("live foreign instances = %d, want 0", n)
			}
			for inst := range f.foreign.live {
				if len(inst.subs) != 0 {
					t.Errorf("leaked subscriptions: %v", inst.subs)
				}
			}
			if node.Native != nil || node.Rendered != nil || node.Meta != (vdom.Meta{}) {
				t.Error("unmounted node should be cleared")
			}
		})
	}
}

func TestUnmountOrder(t *testing.T) {
	var events []string
	cls := newCounterClass(&events)
	widget := &fakeWidget{name: "w", outputs: []string{"a", "b"}}
	f := newFixture(t)

	node := f.mount(t, vdom.Div(
		vdom.H(cls, nil),
		vdom.H(widget, vdom.Props{"a": func() {}, "b": func() {}}),
	))
	f.foreign.calls = nil
	events = nil

	if err := Unmount(f.kit, node); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(events, []string{"unmount"}) {
		t.Errorf("class events = %v", events)
	}
	want := []string{"unsubscribe:a", "unsubscribe:b", "destroy"}
	if !reflect.DeepEqual(f.foreign.calls, want) {
		t.Errorf("foreign calls = %v, want %v", f.foreign.calls, want)
	}
}

func TestUnmountTwiceIsNoop(t *testing.T) {
	var events []string
	f := newFixture(t)
	node := f.mount(t, vdom.H(newCounterClass(&events), nil))

	if err := Unmount(f.kit, node); err != nil {
		t.Fatal(err)
	}
	if err := Unmount(f.kit, node); err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range events {
		if e == "unmount" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("WillUnmount calls = %d, want 1", count)
	}
}

func TestUnmountForeignDestroyFails(t *testing.T) {
	f := newFixture(t)
	node := f.mount(t, vdom.H(&fakeWidget{name: "w"}, nil))
	boom := errors.New("boom")
	f.foreign.fail["destroy"] = boom

	err := Unmount(f.kit, node)
	if !graferrors.HasCode(err, "E222") || !errors.Is(err, boom) {
		t.Errorf("error = %v, want E222 wrapping boom", err)
	}
	if node.Meta.Foreign != nil {
		t.Error("foreign ref should be dropped even when destroy fails")
	}
}
