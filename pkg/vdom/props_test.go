package vdom

import "testing"

type label string

func (l label) String() string { return "label:" + string(l) }

func TestPropEqual(t *testing.T) {
	ptr := &struct{ n int }{1}
	m := map[string]int{"a": 1}
	s := []int{1, 2}
	fn := func() {}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil nil", nil, nil, true},
		{"nil value", nil, 0, false},
		{"same string", "a", "a", true},
		{"different string", "a", "b", false},
		{"int and int64", 1, int64(1), false},
		{"same int", 42, 42, true},
		{"same float", 1.5, 1.5, true},
		{"same bool", true, true, true},
		{"same pointer", ptr, ptr, true},
		{"equal pointees", ptr, &struct{ n int }{1}, false},
		{"same map", m, m, true},
		{"equal maps", m, map[string]int{"a": 1}, false},
		{"same slice", s, s, true},
		{"resliced", s, s[:1], false},
		{"func", fn, fn, false},
		{"comparable struct", struct{ A int }{1}, struct{ A int }{1}, true},
		{"struct with slice field", struct{ A any }{[]int{1}}, struct{ A any }{[]int{1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PropEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("PropEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in     any
		want   string
		wantOK bool
	}{
		{"x", "x", true},
		{42, "42", true},
		{int64(-7), "-7", true},
		{uint8(200), "200", true},
		{3.25, "3.25", true},
		{float32(0.5), "0.5", true},
		{true, "true", true},
		{label("a"), "label:a", true},
		{[]int{1}, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := Stringify(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Stringify(%v) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPropsHelpers(t *testing.T) {
	p := Props{"b": 2, "a": "x", ChildrenProp: []*VNode{{Kind: KindVoid}}}

	keys := p.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "children" {
		t.Errorf("Keys() = %v", keys)
	}
	if p.GetString("b") != "2" {
		t.Errorf("GetString(b) = %q, want 2", p.GetString("b"))
	}
	if p.GetString("missing") != "" {
		t.Error("GetString of a missing key should be empty")
	}
	if len(p.Children()) != 1 {
		t.Errorf("Children() len = %d, want 1", len(p.Children()))
	}

	clone := p.Clone()
	clone["a"] = "y"
	if p["a"] != "x" {
		t.Error("Clone should not alias the original map")
	}
	var nilProps Props
	if nilProps.Get("a") != nil || nilProps.Clone() != nil {
		t.Error("nil Props should be readable")
	}
}
