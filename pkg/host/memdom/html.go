package memdom

import (
	"io"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

// InnerHTML serializes the children of n.
func InnerHTML(n *Node) string {
	var b strings.Builder
	for _, c := range n.children {
		writeNode(&b, c)
	}
	return b.String()
}

// WriteHTML streams the serialization of n to w.
func WriteHTML(w io.Writer, n *Node) error {
	_, err := io.WriteString(w, OuterHTML(n))
	return err
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.typ {
	case TextNode:
		b.WriteString(escapeHTML(n.data))
	case CommentNode:
		b.WriteString("<!---->")
	case ElementNode:
		writeOpenTag(b, n)
		if voidElements[n.tag] && len(n.children) == 0 {
			return
		}
		for _, c := range n.children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.tag)
		b.WriteByte('>')
	}
}

func writeOpenTag(b *strings.Builder, n *Node) {
	b.WriteByte('<')
	b.WriteString(n.tag)
	for _, name := range n.AttrNames() {
		b.WriteByte(' ')
		b.WriteString(name)
		if v := n.attrs[name]; v != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
}

// IndentHTML serializes the children of n with one node per line.
// Elements whose only child is text stay on a single line.
func IndentHTML(n *Node, indent string) string {
	var b strings.Builder
	for _, c := range n.children {
		writeIndented(&b, c, indent, 0)
	}
	return b.String()
}

func writeIndented(b *strings.Builder, n *Node, indent string, depth int) {
	pad := strings.Repeat(indent, depth)
	inline := n.typ != ElementNode || len(n.children) == 0 ||
		(len(n.children) == 1 && n.children[0].typ == TextNode)
	if inline {
		b.WriteString(pad)
		writeNode(b, n)
		b.WriteByte('\n')
		return
	}

	b.WriteString(pad)
	writeOpenTag(b, n)
	b.WriteByte('\n')
	for _, c := range n.children {
		writeIndented(b, c, indent, depth+1)
	}
	b.WriteString(pad)
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteString(">\n")
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text content.
func escapeHTML(s string) string { return textEscaper.Replace(s) }

// escapeAttr escapes attribute values, including whitespace that would
// otherwise be normalized by an HTML parser.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
