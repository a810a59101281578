package domain

// ShouldWaitlist decides whether a new signup joins the waitlist.
//
// A signup is waitlisted when the offering already has anyone waiting (new
// entrants never jump ahead of existing waiters) or when the confirmed count
// has reached capacity. The rule lives here so the application service and
// the transactional postgres adapter apply it identically.
func ShouldWaitlist(current, waiting, capacity int) bool {
	return waiting > 0 || current >= capacity
}
