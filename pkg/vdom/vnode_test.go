package vdom

import "testing"

type foreignStub struct{ name string }

func (f *foreignStub) ForeignName() string { return f.name }

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindText, "Text"},
		{KindVoid, "Void"},
		{KindNative, "Native"},
		{KindFunction, "Function"},
		{KindClass, "Class"},
		{KindForeign, "Foreign"},
		{VKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSameType(t *testing.T) {
	fnA := Func("A", func(Props) any { return nil })
	fnB := Func("B", func(Props) any { return nil })
	foreign := &foreignStub{name: "widget"}

	tests := []struct {
		name string
		a, b *VNode
		want bool
	}{
		{"same tag", &VNode{Kind: KindNative, Tag: "div"}, &VNode{Kind: KindNative, Tag: "div"}, true},
		{"different tag", &VNode{Kind: KindNative, Tag: "p"}, &VNode{Kind: KindNative, Tag: "span"}, false},
		{"different key", &VNode{Kind: KindNative, Tag: "li", Key: "a"}, &VNode{Kind: KindNative, Tag: "li", Key: "b"}, false},
		{"text and text", &VNode{Kind: KindText, Text: "a"}, &VNode{Kind: KindText, Text: "b"}, true},
		{"text and void", &VNode{Kind: KindText}, &VNode{Kind: KindVoid}, false},
		{"same function", &VNode{Kind: KindFunction, Type: fnA}, &VNode{Kind: KindFunction, Type: fnA}, true},
		{"different function", &VNode{Kind: KindFunction, Type: fnA}, &VNode{Kind: KindFunction, Type: fnB}, false},
		{"same foreign", &VNode{Kind: KindForeign, Type: foreign}, &VNode{Kind: KindForeign, Type: foreign}, true},
		{"nil side", nil, &VNode{Kind: KindVoid}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameType(tt.a, tt.b); got != tt.want {
				t.Errorf("SameType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameTypeNonComparable(t *testing.T) {
	a := &VNode{Kind: KindForeign, Type: []int{1}}
	b := &VNode{Kind: KindForeign, Type: []int{1}}
	if SameType(a, b) {
		t.Error("non-comparable types should never match")
	}
}

func TestVNodeString(t *testing.T) {
	node := &VNode{Kind: KindNative, Tag: "ul", Children: []*VNode{
		{Kind: KindNative, Tag: "li", Key: "a", Children: []*VNode{{Kind: KindText, Text: "one"}}},
		{Kind: KindVoid},
	}}
	want := `<ul><li key="a">"one"</li><void></ul>`
	if got := node.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestTypeName(t *testing.T) {
	cls := NewClass("Counter", func(Props) Instance { return nil })
	tests := []struct {
		node *VNode
		want string
	}{
		{&VNode{Kind: KindNative, Tag: "div"}, "div"},
		{&VNode{Kind: KindText}, "#text"},
		{&VNode{Kind: KindVoid}, "#void"},
		{&VNode{Kind: KindClass, Type: cls}, "Counter"},
		{&VNode{Kind: KindForeign, Type: &foreignStub{name: "chart"}}, "chart"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		if got := tt.node.TypeName(); got != tt.want {
			t.Errorf("TypeName() = %q, want %q", got, tt.want)
		}
	}
}
