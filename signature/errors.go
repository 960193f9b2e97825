package signature

import "fmt"

// ErrInvalidGrid is returned when a grid does not match the configured size.
type ErrInvalidGrid struct {
	Expected int
	Actual   int
	Reason   string
}

func (e *ErrInvalidGrid) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid grid: %s", e.Reason)
	}
	return fmt.Sprintf("invalid grid: expected %dx%d, got %dx%d", e.Expected, e.Expected, e.Actual, e.Actual)
}
