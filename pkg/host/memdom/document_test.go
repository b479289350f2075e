package memdom

import (
	"errors"
	"testing"
)

func mustElement(t *testing.T, d *Document, tag string) *Node {
	t.Helper()
	n, err := d.CreateElement(tag)
	if err != nil {
		t.Fatalf("CreateElement(%q): %v", tag, err)
	}
	return n.(*Node)
}

func mustText(t *testing.T, d *Document, text string) *Node {
	t.Helper()
	n, err := d.CreateText(text)
	if err != nil {
		t.Fatalf("CreateText(%q): %v", text, err)
	}
	return n.(*Node)
}

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{ElementNode, "Element"},
		{TextNode, "Text"},
		{CommentNode, "Comment"},
		{NodeType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("NodeType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestInsertAppendAndBefore(t *testing.T) {
	d := NewDocument()
	root := mustElement(t, d, "ul")
	a := mustElement(t, d, "li")
	b := mustElement(t, d, "li")
	c := mustElement(t, d, "li")

	if err := d.InsertBefore(root, a, nil); err != nil {
		t.Fatal(err)
	}
	if err := d.InsertBefore(root, c, nil); err != nil {
		t.Fatal(err)
	}
	if err := d.InsertBefore(root, b, c); err != nil {
		t.Fatal(err)
	}

	want := []*Node{a, b, c}
	for i, n := range want {
		if root.Child(i) != n {
			t.Errorf("child %d = #%d, want #%d", i, root.Child(i).ID(), n.ID())
		}
	}
	if d.NextSibling(a) != b || d.NextSibling(c) != nil {
		t.Error("NextSibling mismatch")
	}
	if d.Parent(b) != root {
		t.Error("Parent(b) != root")
	}
}

func TestInsertMovesAttachedNode(t *testing.T) {
	d := NewDocument()
	root := mustElement(t, d, "div")
	a := mustText(t, d, "a")
	b := mustText(t, d, "b")
	_ = d.InsertBefore(root, a, nil)
	_ = d.InsertBefore(root, b, nil)

	if err := d.InsertBefore(root, b, a); err != nil {
		t.Fatal(err)
	}
	if got := InnerHTML(root); got != "ba" {
		t.Errorf("InnerHTML = %q, want %q", got, "ba")
	}
	if root.ChildCount() != 2 {
		t.Errorf("ChildCount = %d, want 2", root.ChildCount())
	}

	other := mustElement(t, d, "span")
	if err := d.InsertBefore(other, a, nil); err != nil {
		t.Fatal(err)
	}
	if root.ChildCount() != 1 || a.ParentNode() != other {
		t.Error("moving across parents should detach from the old parent")
	}
}

func TestInsertErrors(t *testing.T) {
	d := NewDocument()
	root := mustElement(t, d, "div")
	child := mustElement(t, d, "p")
	stray := mustText(t, d, "x")
	text := mustText(t, d, "t")

	if err := d.InsertBefore(text, child, nil); !errors.Is(err, ErrNotElement) {
		t.Errorf("insert into text: err = %v, want ErrNotElement", err)
	}
	if err := d.InsertBefore(root, child, stray); !errors.Is(err, ErrNotChild) {
		t.Errorf("insert before stray: err = %v, want ErrNotChild", err)
	}
	_ = d.InsertBefore(root, child, nil)
	if err := d.InsertBefore(child, root, nil); !errors.Is(err, ErrCycle) {
		t.Errorf("cycle: err = %v, want ErrCycle", err)
	}

	other := NewDocument()
	foreign, _ := other.CreateText("z")
	if err := d.InsertBefore(root, foreign, nil); !errors.Is(err, ErrForeignNode) {
		t.Errorf("foreign node: err = %v, want ErrForeignNode", err)
	}
	if err := d.InsertBefore(root, "not a node", nil); !errors.Is(err, ErrForeignNode) {
		t.Errorf("bogus handle: err = %v, want ErrForeignNode", err)
	}
}

func TestRemoveChild(t *testing.T) {
	d := NewDocument()
	root := mustElement(t, d, "div")
	a := mustText(t, d, "a")
	_ = d.InsertBefore(root, a, nil)

	if err := d.RemoveChild(root, a); err != nil {
		t.Fatal(err)
	}
	if root.ChildCount() != 0 || a.ParentNode() != nil {
		t.Error("child not detached")
	}
	if err := d.RemoveChild(root, a); !errors.Is(err, ErrNotChild) {
		t.Errorf("second remove: err = %v, want ErrNotChild", err)
	}
}

func TestAttributesAndProperties(t *testing.T) {
	d := NewDocument()
	el := mustElement(t, d, "button")

	if err := d.SetAttribute(el, "class", "primary"); err != nil {
		t.Fatal(err)
	}
	clicks := 0
	if err := d.SetProperty(el, "onclick", func() { clicks++ }); err != nil {
		t.Fatal(err)
	}
	if v, ok := el.Attr("class"); !ok || v != "primary" {
		t.Errorf("Attr(class) = %q, %v", v, ok)
	}
	if !d.Dispatch(el, "onclick", nil) || clicks != 1 {
		t.Errorf("Dispatch did not run listener, clicks = %d", clicks)
	}

	var got any
	_ = d.SetProperty(el, "onpress", func(ev any) { got = ev })
	d.Dispatch(el, "onpress", 42)
	if got != 42 {
		t.Errorf("event = %v, want 42", got)
	}

	if err := d.RemoveAttribute(el, "onclick"); err != nil {
		t.Fatal(err)
	}
	if d.Dispatch(el, "onclick", nil) {
		t.Error("listener should be gone")
	}
	if err := d.SetAttribute(el, "", "x"); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: err = %v", err)
	}

	text := mustText(t, d, "t")
	if err := d.SetAttribute(text, "id", "x"); !errors.Is(err, ErrNotElement) {
		t.Errorf("attr on text: err = %v, want ErrNotElement", err)
	}
}

func TestSetText(t *testing.T) {
	d := NewDocument()
	n := mustText(t, d, "before")
	if err := d.SetText(n, "after"); err != nil {
		t.Fatal(err)
	}
	if n.Data() != "after" {
		t.Errorf("Data = %q", n.Data())
	}
	el := mustElement(t, d, "p")
	if err := d.SetText(el, "x"); !errors.Is(err, ErrNotText) {
		t.Errorf("SetText on element: err = %v, want ErrNotText", err)
	}
}

func TestSerialization(t *testing.T) {
	d := NewDocument()
	root := mustElement(t, d, "div")
	p := mustElement(t, d, "p")
	br := mustElement(t, d, "br")
	marker, _ := d.CreateMarker()

	_ = d.SetAttribute(p, "title", `say "hi"`)
	_ = d.SetAttribute(p, "class", "a&b")
	_ = d.SetAttribute(root, "hidden", "")
	_ = d.InsertBefore(p, mustText(t, d, "1 < 2"), nil)
	_ = d.InsertBefore(root, p, nil)
	_ = d.InsertBefore(root, br, nil)
	_ = d.InsertBefore(root, marker, nil)

	want := `<div hidden><p class="a&amp;b" title="say &quot;hi&quot;">1 &lt; 2</p><br><!----></div>`
	if got := OuterHTML(root); got != want {
		t.Errorf("OuterHTML =\n%s\nwant\n%s", got, want)
	}
	if got := root.TextContent(); got != "1 < 2" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestIndentHTML(t *testing.T) {
	d := NewDocument()
	container := mustElement(t, d, "main")
	ul := mustElement(t, d, "ul")
	li := mustElement(t, d, "li")
	nested := mustElement(t, d, "li")
	b := mustElement(t, d, "b")

	_ = d.InsertBefore(li, mustText(t, d, "one"), nil)
	_ = d.InsertBefore(b, mustText(t, d, "two"), nil)
	_ = d.InsertBefore(nested, b, nil)
	_ = d.InsertBefore(ul, li, nil)
	_ = d.InsertBefore(ul, nested, nil)
	_ = d.InsertBefore(container, ul, nil)
	_ = d.InsertBefore(container, mustText(t, d, "tail"), nil)

	want := "<ul>\n  <li>one</li>\n  <li>\n    <b>two</b>\n  </li>\n</ul>\ntail\n"
	if got := IndentHTML(container, "  "); got != want {
		t.Errorf("IndentHTML =\n%s\nwant\n%s", got, want)
	}
}

func TestEscapeAttrWhitespace(t *testing.T) {
	if got := escapeAttr("a\nb\tc"); got != "a&#10;b&#9;c" {
		t.Errorf("escapeAttr = %q", got)
	}
	if got := escapeHTML("<'x'>"); got != "&lt;&#39;x&#39;&gt;" {
		t.Errorf("escapeHTML = %q", got)
	}
}

func TestRecorder(t *testing.T) {
	d := NewDocument()
	var log Log
	d.SetRecorder(&log)

	root := mustElement(t, d, "div")
	txt := mustText(t, d, "hi")
	_ = d.InsertBefore(root, txt, nil)
	_ = d.SetText(txt, "bye")
	_ = d.SetAttribute(root, "id", "x")
	_ = d.RemoveAttribute(root, "id")
	_ = d.RemoveAttribute(root, "missing")
	_ = d.RemoveChild(root, txt)

	wantOps := []MutationOp{OpCreateElement, OpCreateText, OpInsert, OpSetText, OpSetAttr, OpRemoveAttr, OpRemove}
	entries := log.Entries()
	if len(entries) != len(wantOps) {
		t.Fatalf("recorded %d mutations, want %d: %v", len(entries), len(wantOps), entries)
	}
	for i, op := range wantOps {
		if entries[i].Op != op {
			t.Errorf("entry %d op = %s, want %s", i, entries[i].Op, op)
		}
	}
	if log.Count(OpSetText) != 1 {
		t.Errorf("Count(SetText) = %d", log.Count(OpSetText))
	}
	if got := entries[2].String(); got != "append #2 into #1" {
		t.Errorf("String() = %q", got)
	}

	taken := log.Take()
	if len(taken) != len(wantOps) || log.Len() != 0 {
		t.Error("Take should drain the log")
	}
}
