// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"
)

// referenceTime is the default start of a FakeClock.
var referenceTime = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

// FakeClock is a clock whose time only moves when Advance or Set is called.
// It satisfies any interface with a Now() time.Time method and is safe for
// concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock creates a FakeClock at initial, or at a fixed reference time
// when initial is zero.
func NewFakeClock(initial time.Time) *FakeClock {
	if initial.IsZero() {
		initial = referenceTime
	}
	return &FakeClock{current: initial}
}

// Now returns the clock's current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Since returns the time elapsed on the clock since t.
func (c *FakeClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set moves the clock to t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}
