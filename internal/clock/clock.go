// Package clock provides the wall-clock source used for token expiry.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns the real wall clock.
func System() Clock { return systemClock{} }
