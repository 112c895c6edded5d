package utils

import "time"

// Clock abstracts the current time so the pipeline's notion of "today"
// can be fixed in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a Clock pinned to FixedNow, for deterministic tests.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

// SetNow moves the mocked time.
func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
