package mines

import "fmt"

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

// ConfigurationError reports board parameters or a mine layout that
// cannot produce a game. It is the only error a session propagates.
type ConfigurationError struct {
	Params Params
	Reason string
}

// [ConfigurationError] implements [error]
func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid board %s: %s", e.Params.Seed(), e.Reason)
}
