// Package parser turns markup text into a value tree. It is a
// single-pass, line-oriented state machine: a stack of frames, one per
// open container, keyed by the indentation column the container was
// declared at.
package parser

import (
	"strings"

	"github.com/lovelace-tools/go-popups/internal/scalar"
	"github.com/lovelace-tools/go-popups/internal/scanner"
	"github.com/lovelace-tools/go-popups/internal/value"
)

type frameKind int

const (
	mappingFrame frameKind = iota
	sequenceFrame
)

// frame is one entry of the parse stack. Each frame exclusively owns
// the container it builds; the parent is implicit in stack position.
// A mapping frame may carry a pending key: a key seen with no inline
// value, whose container-versus-scalar nature is decided by the next
// line.
type frame struct {
	kind     frameKind
	mapping  *value.Mapping
	sequence *value.Sequence
	indent   int

	pendingKey    string
	pendingIndent int
	hasPending    bool
}

// resolvePending binds an empty mapping under a pending key that never
// received children. Called when the frame closes or is dedented past.
func (f *frame) resolvePending() {
	if f.hasPending {
		f.mapping.Set(f.pendingKey, value.NewMapping())
		f.hasPending = false
	}
}

// Parse builds the document tree. The root of every document is a
// mapping.
func Parse(data []byte) (*value.Mapping, error) {
	root := value.NewMapping()
	stack := []*frame{{kind: mappingFrame, mapping: root, indent: -1}}
	top := func() *frame { return stack[len(stack)-1] }

	for _, line := range scanner.Scan(string(data)) {
		// Dedent: close every container the line is not nested inside.
		// The comparison is non-strict so a line at a frame's own indent
		// continues the parent instead of the frame.
		for len(stack) > 1 && top().indent >= line.Indent {
			top().resolvePending()
			stack = stack[:len(stack)-1]
		}

		if top().hasPending {
			if line.Indent > top().pendingIndent {
				parent := top()
				if strings.HasPrefix(line.Content, "-") {
					child := value.NewSequence()
					parent.mapping.Set(parent.pendingKey, child)
					stack = append(stack, &frame{
						kind:     sequenceFrame,
						sequence: child,
						indent:   parent.pendingIndent,
					})
				} else {
					child := value.NewMapping()
					parent.mapping.Set(parent.pendingKey, child)
					stack = append(stack, &frame{
						kind:    mappingFrame,
						mapping: child,
						indent:  parent.pendingIndent,
					})
				}
				parent.hasPending = false
			} else {
				// A key with no children is a key pointing to an
				// empty object.
				top().resolvePending()
			}
		}

		var err error
		if strings.HasPrefix(line.Content, "-") {
			stack, err = parseSequenceItem(stack, line)
		} else {
			err = parseMappingEntry(top(), line)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, f := range stack {
		f.resolvePending()
	}
	return root, nil
}

func parseSequenceItem(stack []*frame, line scanner.Line) ([]*frame, error) {
	top := stack[len(stack)-1]
	if top.kind != sequenceFrame {
		return nil, &SyntaxError{Line: line.Number, Msg: "list item without array context"}
	}

	// The key of a folded "- key:" line sits past the dash and its
	// spacing; pending-key depth decisions must use that column, not the
	// dash column.
	offset := 1
	for offset < len(line.Content) && line.Content[offset] == ' ' {
		offset++
	}
	item := strings.TrimSpace(line.Content[1:])
	if item == "" {
		// A bare dash opens an element whose body follows on the
		// indented lines below.
		elem := value.NewMapping()
		top.sequence.Append(elem)
		return append(stack, &frame{kind: mappingFrame, mapping: elem, indent: line.Indent}), nil
	}

	idx := scalar.FindKeyColon(item)
	if idx < 0 {
		v, err := scalar.Parse(item)
		if err != nil {
			return nil, &SyntaxError{Line: line.Number, Err: err}
		}
		top.sequence.Append(v)
		return stack, nil
	}

	key := scalar.DecodeKey(strings.TrimSpace(item[:idx]))
	if key == "" {
		return nil, &SyntaxError{Line: line.Number, Msg: "sequence item has no resolvable key"}
	}
	rest := strings.TrimSpace(item[idx+1:])
	elem := value.NewMapping()
	top.sequence.Append(elem)
	next := &frame{kind: mappingFrame, mapping: elem, indent: line.Indent}
	if rest == "" {
		next.pendingKey = key
		next.pendingIndent = line.Indent + offset
		next.hasPending = true
	} else {
		v, err := scalar.Parse(rest)
		if err != nil {
			return nil, &SyntaxError{Line: line.Number, Err: err}
		}
		elem.Set(key, v)
	}
	// The element frame is opened either way, so sibling keys at a
	// greater indent can attach to the element.
	return append(stack, next), nil
}

func parseMappingEntry(top *frame, line scanner.Line) error {
	if top.kind != mappingFrame {
		return &SyntaxError{Line: line.Number, Msg: "mapping entry without object context"}
	}
	idx := scalar.FindKeyColon(line.Content)
	if idx < 0 {
		return &SyntaxError{Line: line.Number, Msg: "unable to parse line"}
	}
	key := scalar.DecodeKey(strings.TrimSpace(line.Content[:idx]))
	if key == "" {
		return &SyntaxError{Line: line.Number, Msg: "mapping entry has no resolvable key"}
	}
	rest := strings.TrimSpace(line.Content[idx+1:])
	if rest == "" {
		top.pendingKey = key
		top.pendingIndent = line.Indent
		top.hasPending = true
		return nil
	}
	v, err := scalar.Parse(rest)
	if err != nil {
		return &SyntaxError{Line: line.Number, Err: err}
	}
	top.mapping.Set(key, v)
	return nil
}
