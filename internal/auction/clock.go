package auction

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the single source of truth for "now". Every deadline comparison
// and every bid timestamp in the engine goes through an injected Clock, so
// clients can never influence auction timing and tests can use a fake clock.
type Clock interface {
	Now() time.Time
}

// NewClock returns the production clock.
// In tests, use clockwork.NewFakeClock().
func NewClock() Clock {
	return clockwork.NewRealClock()
}
