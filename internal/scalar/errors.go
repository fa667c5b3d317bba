package scalar

import "fmt"

// FragmentError reports a flow mapping fragment that carries no colon.
type FragmentError struct {
	Fragment string
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("malformed mapping fragment %q: missing ':'", e.Fragment)
}

// UnterminatedError reports a flow collection that opens but never
// closes on its line.
type UnterminatedError struct {
	Fragment string
	Close    byte
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("unterminated flow collection %q: expected '%c'", e.Fragment, e.Close)
}
