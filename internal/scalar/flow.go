package scalar

import (
	"strings"

	"github.com/lovelace-tools/go-popups/internal/value"
)

// splitState tracks quoting and bracket depth while scanning a flow
// collection body, so separators inside nested constructs are ignored.
type splitState struct {
	inSingle bool
	inDouble bool
	depth    int
	slashes  int // consecutive backslashes seen immediately before this byte
}

func (st *splitState) step(c byte) {
	switch {
	case st.inSingle:
		if c == '\'' {
			st.inSingle = false
		}
	case st.inDouble:
		if c == '"' && st.slashes%2 == 0 {
			st.inDouble = false
		}
	default:
		switch c {
		case '\'':
			st.inSingle = true
		case '"':
			if st.slashes%2 == 0 {
				st.inDouble = true
			}
		case '[', '{':
			st.depth++
		case ']', '}':
			if st.depth > 0 {
				st.depth--
			}
		}
	}
	if c == '\\' {
		st.slashes++
	} else {
		st.slashes = 0
	}
}

// quiet reports whether the scanner is outside every quoted span and
// every nested bracket pair.
func (st *splitState) quiet() bool {
	return !st.inSingle && !st.inDouble && st.depth == 0
}

// splitFlow breaks a flow collection body on top-level commas.
func splitFlow(body string) []string {
	var parts []string
	var st splitState
	start := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == ',' && st.quiet() {
			parts = append(parts, body[start:i])
			start = i + 1
			st.slashes = 0
			continue
		}
		st.step(c)
	}
	parts = append(parts, body[start:])
	return parts
}

// splitKey finds the first colon of a fragment that is outside any
// quoted span, returning -1 when the fragment has none.
func splitKey(fragment string) int {
	var st splitState
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == ':' && st.quiet() {
			return i
		}
		st.step(fragment[i])
	}
	return -1
}

func parseFlowSequence(body string) (value.Value, error) {
	seq := value.NewSequence()
	if strings.TrimSpace(body) == "" {
		return seq, nil
	}
	for _, part := range splitFlow(body) {
		v, err := Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		seq.Append(v)
	}
	return seq, nil
}

func parseFlowMapping(body string) (value.Value, error) {
	m := value.NewMapping()
	if strings.TrimSpace(body) == "" {
		return m, nil
	}
	for _, part := range splitFlow(body) {
		fragment := strings.TrimSpace(part)
		idx := splitKey(fragment)
		if idx < 0 {
			return nil, &FragmentError{Fragment: fragment}
		}
		key := DecodeKey(strings.TrimSpace(fragment[:idx]))
		v, err := Parse(strings.TrimSpace(fragment[idx+1:]))
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

// DecodeKey strips and decodes the quotes of a mapping key that was
// serialized in quoted form. Bare keys pass through untouched.
func DecodeKey(key string) string {
	if isQuoted(key) {
		return Unquote(key)
	}
	return key
}

// FindKeyColon locates the first top-level colon of a mapping line,
// skipping colons inside quoted spans. Exported for the block parser.
func FindKeyColon(line string) int {
	return splitKey(line)
}
