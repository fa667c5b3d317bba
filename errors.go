package popups

import "fmt"

// A ValidationError reports a structural contract violation in the grid
// document, the template, the rooms payload or the configuration. It is
// raised before any mutation begins, so no partial output accompanies it.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("popups: invalid %s: %s", e.Field, e.Msg)
}

// A StrategyError reports an unknown detection strategy.
type StrategyError struct {
	Strategy string
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("popups: unsupported detection strategy %q", e.Strategy)
}
