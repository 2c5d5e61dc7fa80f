package ledger

import "time"

// =============================================================================
// CLOCK - Date/time collaborator
// =============================================================================

// Clock supplies the current calendar date and time of day. The core never
// reads the wall clock directly; stamping goes through this interface so
// tests can pin time.
type Clock interface {
	// Today returns the current calendar date as 2006-01-02.
	Today() string
	// Now returns the current time of day as 15:04.
	Now() string
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Today() string { return time.Now().Format(DateLayout) }
func (SystemClock) Now() string   { return time.Now().Format(TimeLayout) }

// FixedClock always reports the same date and time. For tests.
type FixedClock struct {
	Date string
	Time string
}

func (c FixedClock) Today() string { return c.Date }
func (c FixedClock) Now() string   { return c.Time }

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDate validates an ISO calendar date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
