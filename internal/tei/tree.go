// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"encoding/xml"
	"strings"

	"github.com/antchfx/xmlquery"
)

func newElement(name string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
}

func newText(text string) *xmlquery.Node {
	return &xmlquery.Node{Type: xmlquery.TextNode, Data: text}
}

// markerWithText builds <name>text</name>.
func markerWithText(name, text string) *xmlquery.Node {
	el := newElement(name)
	appendChild(el, newText(text))
	return el
}

func appendChild(parent, child *xmlquery.Node) {
	child.Parent = parent
	child.NextSibling = nil
	child.PrevSibling = parent.LastChild
	if parent.LastChild != nil {
		parent.LastChild.NextSibling = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

func insertFirst(parent, child *xmlquery.Node) {
	child.Parent = parent
	child.PrevSibling = nil
	child.NextSibling = parent.FirstChild
	if parent.FirstChild != nil {
		parent.FirstChild.PrevSibling = child
	} else {
		parent.LastChild = child
	}
	parent.FirstChild = child
}

// replaceNode substitutes repl for old at the same position in old's parent.
func replaceNode(old, repl *xmlquery.Node) {
	repl.Parent = old.Parent
	repl.PrevSibling = old.PrevSibling
	repl.NextSibling = old.NextSibling
	if old.PrevSibling != nil {
		old.PrevSibling.NextSibling = repl
	} else if old.Parent != nil {
		old.Parent.FirstChild = repl
	}
	if old.NextSibling != nil {
		old.NextSibling.PrevSibling = repl
	} else if old.Parent != nil {
		old.Parent.LastChild = repl
	}
	old.Parent = nil
	old.PrevSibling = nil
	old.NextSibling = nil
}

func removeNode(n *xmlquery.Node) {
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else if n.Parent != nil {
		n.Parent.LastChild = n.PrevSibling
	}
	n.Parent = nil
	n.PrevSibling = nil
	n.NextSibling = nil
}

// adoptChildren moves every child of src under dst, preserving order.
func adoptChildren(dst, src *xmlquery.Node) {
	for c := src.FirstChild; c != nil; {
		next := c.NextSibling
		appendChild(dst, c)
		c = next
	}
	src.FirstChild = nil
	src.LastChild = nil
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// serialize writes n and its subtree as markup. Element names use the local
// name only, empty elements self-close, text is entity-escaped, and comments
// and processing instructions are dropped. Residual markup this produces is
// consumed by string passes, so the output favors regular shape over
// round-trip fidelity.
func serialize(n *xmlquery.Node, b *strings.Builder) {
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		b.WriteString(textEscaper.Replace(n.Data))
		return
	case xmlquery.CommentNode, xmlquery.DeclarationNode, xmlquery.NotationNode:
		return
	case xmlquery.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			serialize(c, b)
		}
		return
	}

	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		b.WriteString(attrName(a.Name))
		b.WriteString(`="`)
		b.WriteString(textEscaper.Replace(a.Value))
		b.WriteByte('"')
	}
	if n.FirstChild == nil {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		serialize(c, b)
	}
	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteByte('>')
}

func attrName(name xml.Name) string {
	if name.Space != "" {
		return name.Space + ":" + name.Local
	}
	return name.Local
}
