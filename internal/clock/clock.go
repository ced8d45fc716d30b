package clock

import "time"

// Clock provides the current time so that expiry logic can be tested
// deterministically.
type Clock interface {
	// Now returns the current time
	Now() time.Time
}

// System implements Clock using real system time.
type System struct{}

// Now returns the current system time.
func (System) Now() time.Time {
	return time.Now()
}

// Fixed implements Clock with a settable time for testing.
type Fixed struct {
	current time.Time
}

// NewFixed creates a Fixed clock pinned at the given time.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

// Now returns the pinned time.
func (f *Fixed) Now() time.Time {
	return f.current
}

// Set updates the pinned time.
func (f *Fixed) Set(t time.Time) {
	f.current = t
}

// Advance moves the pinned time forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
