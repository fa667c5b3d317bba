// Package scanner prepares raw markup text for the block parser. It
// splits the input into lines, strips comments, expands tabs, measures
// indentation and drops what the parser never sees (blank lines).
package scanner

import "strings"

// Line is one non-blank source line, ready for the indentation state
// machine.
type Line struct {
	Number  int    // 1-based source line number, for error reporting
	Indent  int    // leading whitespace count after tab expansion
	Content string // trimmed line content, comments removed
}

// Scan converts a document into parser input. A '#' outside any quoted
// span starts a comment that runs to the end of the line; tabs count as
// two spaces of indentation.
func Scan(src string) []Line {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	var out []Line
	for i, raw := range strings.Split(src, "\n") {
		line := strings.ReplaceAll(raw, "\t", "  ")
		line = stripComment(line)
		line = strings.TrimRight(line, " ")
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		out = append(out, Line{
			Number:  i + 1,
			Indent:  len(line) - len(content),
			Content: content,
		})
	}
	return out
}

// stripComment truncates line at the first '#' that is not inside a
// quoted span. A double quote only toggles quoting when preceded by an
// even number of consecutive backslashes.
func stripComment(line string) string {
	inSingle, inDouble := false, false
	slashes := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '"' && slashes%2 == 0 {
				inDouble = false
			}
		default:
			switch c {
			case '\'':
				inSingle = true
			case '"':
				if slashes%2 == 0 {
					inDouble = true
				}
			case '#':
				return line[:i]
			}
		}
		if c == '\\' {
			slashes++
		} else {
			slashes = 0
		}
	}
	return line
}
