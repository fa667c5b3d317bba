package parser

import "fmt"

// SyntaxError reports a line the state machine could not consume. It is
// always fatal to the parse call; no partial tree is returned alongside
// it.
type SyntaxError struct {
	Line int
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("syntax error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("syntax error at line %d: %s", e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }
