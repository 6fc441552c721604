package data

import "time"

// Clock abstracts time.Now so repositories with time-sensitive queries can be
// tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock pinned to a settable instant.
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time { return c.Instant }

// Advance moves the pinned instant forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.Instant = c.Instant.Add(d) }
