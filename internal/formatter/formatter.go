// Package formatter walks a value tree and emits indented block markup.
// Its conventions mirror the parser's so a stringify/parse round trip is
// stable.
package formatter

import (
	"strings"

	"github.com/lovelace-tools/go-popups/internal/scalar"
	"github.com/lovelace-tools/go-popups/internal/value"
)

const defaultIndent = 2

// Format renders the tree as block markup with the given indent width.
// A non-positive width falls back to the default of two spaces.
func Format(v value.Value, indentSize int) string {
	if indentSize <= 0 {
		indentSize = defaultIndent
	}
	if isLeaf(v) {
		return leaf(v) + "\n"
	}
	return strings.Join(renderLines(v, indentSize, 0), "\n") + "\n"
}

// isLeaf reports whether v serializes on a single line: scalars and
// empty containers.
func isLeaf(v value.Value) bool {
	switch node := v.(type) {
	case *value.Sequence:
		return node.Len() == 0
	case *value.Mapping:
		return node.Len() == 0
	}
	return true
}

func leaf(v value.Value) string {
	switch v.(type) {
	case *value.Sequence:
		return "[]"
	case *value.Mapping:
		return "{}"
	}
	return scalar.Format(v)
}

func formatKey(key string) string {
	if scalar.NeedsQuote(key) {
		return scalar.Quote(key)
	}
	return key
}

// renderLines serializes a non-empty container into fully indented
// lines.
func renderLines(v value.Value, indentSize, level int) []string {
	pad := strings.Repeat(" ", indentSize*level)
	var lines []string

	switch node := v.(type) {
	case *value.Mapping:
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			head := pad + formatKey(key) + ":"
			if isLeaf(child) {
				lines = append(lines, head+" "+leaf(child))
				continue
			}
			lines = append(lines, head)
			lines = append(lines, renderLines(child, indentSize, level+1)...)
		}
	case *value.Sequence:
		for _, item := range node.Items {
			if isLeaf(item) {
				lines = append(lines, pad+"- "+leaf(item))
				continue
			}
			// The nested container's first line is folded onto the dash;
			// the remaining lines already sit one indent step deeper than
			// the dash.
			nested := renderLines(item, indentSize, level+1)
			lines = append(lines, pad+"- "+strings.TrimLeft(nested[0], " "))
			lines = append(lines, nested[1:]...)
		}
	}
	return lines
}
