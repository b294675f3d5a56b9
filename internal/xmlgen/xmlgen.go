// Package xmlgen renders document trees to the indented XML dialect read by
// the file manager's theme loader.
package xmlgen

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/opus-themer/internal/doctree"
)

// Declaration is written at the top of every document.
const Declaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// NamePrefix is prepended to element names that do not start with a letter,
// underscore, or colon.
const NamePrefix = "x_"

// fallbackRoot names the root element when neither a root name nor a first
// key is available.
const fallbackRoot = "root"

const indentUnit = "  "

var invalidNameChars = regexp.MustCompile(`[^A-Za-z0-9_:.\-]`)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape replaces the five XML special characters with entity references.
// The replacement is a single pass, so entities it produces are never
// escaped again.
func Escape(s string) string {
	return escaper.Replace(s)
}

// SanitizeName turns an arbitrary key into a legal element name. Attribute
// names never go through here.
func SanitizeName(name string) string {
	if name == "" {
		return NamePrefix
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !isNameStart(first) {
		name = NamePrefix + name
	}
	return invalidNameChars.ReplaceAllString(name, "_")
}

func isNameStart(r rune) bool {
	return r == '_' || r == ':' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Serialize renders tree as a complete XML document.
//
// When rootName is empty the first key of the top-level mapping is used. If
// that key holds a non-null value, the value is rendered under the key's
// name; otherwise the whole tree is rendered under that name.
func Serialize(tree *doctree.Node, rootName string) string {
	var b strings.Builder
	b.WriteString(Declaration)

	name := rootName
	if name == "" {
		if key, ok := tree.RootKey(); ok {
			name = key
		} else {
			name = fallbackRoot
		}
	}

	if child, ok := tree.Get(name); ok && child != nil && child.Kind != doctree.KindNull {
		writeNode(&b, child, name, 0)
	} else {
		writeNode(&b, tree, name, 0)
	}
	return b.String()
}

// Write streams the output of Serialize to w.
func Write(w io.Writer, tree *doctree.Node, rootName string) error {
	_, err := io.WriteString(w, Serialize(tree, rootName))
	return err
}

func writeNode(b *strings.Builder, n *doctree.Node, name string, level int) {
	if n == nil {
		return
	}

	switch n.Kind {
	case doctree.KindNull:
		return
	case doctree.KindSequence:
		// Items repeat the parent's tag; sequences add no wrapper element.
		for _, item := range n.Items {
			writeNode(b, item, name, level)
		}
	case doctree.KindScalar:
		tag := SanitizeName(name)
		writeIndent(b, level)
		b.WriteString("<" + tag + ">")
		b.WriteString(Escape(n.Value))
		b.WriteString("</" + tag + ">\n")
	case doctree.KindMapping:
		writeMapping(b, n, name, level)
	}
}

func writeMapping(b *strings.Builder, n *doctree.Node, name string, level int) {
	tag := SanitizeName(name)
	writeIndent(b, level)
	b.WriteString("<" + tag)

	if n.HasAttrs() {
		for pair := n.Attrs.Oldest(); pair != nil; pair = pair.Next() {
			b.WriteString(" " + pair.Key + `="` + Escape(pair.Value) + `"`)
		}
	}

	if n.Len() == 0 {
		b.WriteString(" />\n")
		return
	}

	b.WriteString(">\n")
	for pair := n.Children.Oldest(); pair != nil; pair = pair.Next() {
		writeNode(b, pair.Value, pair.Key, level+1)
	}
	writeIndent(b, level)
	b.WriteString("</" + tag + ">\n")
}

func writeIndent(b *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		b.WriteString(indentUnit)
	}
}
