package clock

import "time"

// Clock provides the single "current time" source used by the workflows.
// Using an interface enables deterministic tests via a controllable
// implementation, and keeps the birthdate range check pinned to one clock.
type Clock interface {
	Now() time.Time
}
