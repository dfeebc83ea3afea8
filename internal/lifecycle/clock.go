package lifecycle

import "time"

// TimeProvider supplies "now" to the engine so decisions are reproducible in
// tests.
type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now().UTC() }

// FixedTime always returns the wrapped instant.
type FixedTime time.Time

func (f FixedTime) Now() time.Time { return time.Time(f) }
