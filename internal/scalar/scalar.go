// Package scalar implements the leaf-token grammar of the markup: the
// typed scalar forms (null, boolean, numbers, quoted and bare strings)
// and the inline flow collections that can appear in scalar position.
package scalar

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lovelace-tools/go-popups/internal/value"
)

var (
	intRe   = regexp.MustCompile(`^[-+]?[0-9]+$`)
	floatRe = regexp.MustCompile(`^[-+]?[0-9]*\.[0-9]+$`)
	bareRe  = regexp.MustCompile(`^[-A-Za-z0-9_.]+$`)
)

// Parse converts a trimmed scalar token into a typed value. Recognition
// order matters: keywords first, then numbers, then quoted strings, then
// flow collections; anything left is a bare string returned verbatim.
func Parse(raw string) (value.Value, error) {
	switch raw {
	case "", "null", "~":
		return value.Null{}, nil
	case "true", "True":
		return value.Bool(true), nil
	case "false", "False":
		return value.Bool(false), nil
	}

	if intRe.MatchString(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err == nil {
			return value.Int(n), nil
		}
		// Overflowing digit runs fall through to a bare string.
	}
	if floatRe.MatchString(raw) {
		f, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return value.Float(f), nil
		}
	}

	if isQuoted(raw) {
		return value.String(Unquote(raw)), nil
	}

	if strings.HasPrefix(raw, "[") {
		if !strings.HasSuffix(raw, "]") {
			return nil, &UnterminatedError{Fragment: raw, Close: ']'}
		}
		return parseFlowSequence(raw[1 : len(raw)-1])
	}
	if strings.HasPrefix(raw, "{") {
		if !strings.HasSuffix(raw, "}") {
			return nil, &UnterminatedError{Fragment: raw, Close: '}'}
		}
		return parseFlowMapping(raw[1 : len(raw)-1])
	}

	return value.String(raw), nil
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')
}

// Unquote decodes a quoted string token. Double quotes understand the
// \n, \" and \\ escapes; single quotes only the doubled-quote escape.
func Unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	body := s[1 : len(s)-1]
	if s[0] == '\'' {
		return strings.ReplaceAll(body, "''", "'")
	}
	var out strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			switch body[i+1] {
			case 'n':
				out.WriteByte('\n')
				i++
				continue
			case '"':
				out.WriteByte('"')
				i++
				continue
			case '\\':
				out.WriteByte('\\')
				i++
				continue
			}
		}
		out.WriteByte(c)
	}
	return out.String()
}

// Format renders a leaf value back to its scalar text form. Containers
// are the serializer's business and are not accepted here.
func Format(v value.Value) string {
	switch node := v.(type) {
	case value.Null:
		return "null"
	case value.Bool:
		if node {
			return "true"
		}
		return "false"
	case value.Int:
		return strconv.FormatInt(int64(node), 10)
	case value.Float:
		f := float64(node)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "null"
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		// Keep the decimal point so the text re-parses as a float.
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case value.String:
		s := string(node)
		if NeedsQuote(s) {
			return Quote(s)
		}
		return s
	}
	return "null"
}

// NeedsQuote reports whether s must be double-quoted to survive a
// round trip: empty strings, strings containing ": ", and anything
// outside the bare-word alphabet.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	if strings.Contains(s, ": ") {
		return true
	}
	return !bareRe.MatchString(s)
}

// Quote wraps s in double quotes, escaping backslashes, quotes and
// newlines.
func Quote(s string) string {
	var out strings.Builder
	out.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			out.WriteString(`\\`)
		case '"':
			out.WriteString(`\"`)
		case '\n':
			out.WriteString(`\n`)
		default:
			out.WriteByte(s[i])
		}
	}
	out.WriteByte('"')
	return out.String()
}
