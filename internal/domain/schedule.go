package domain

import "time"

// Registration is a member's visible state against one offering.
type Registration string

const (
	RegistrationConfirmed  Registration = "yes"
	RegistrationWaitlisted Registration = "wait"
	RegistrationNone       Registration = "no"
)

// OfferingStatus is the read model for one offering in the schedule view.
type OfferingStatus struct {
	ID       OfferingID
	When     time.Time
	Location string
	Capacity int

	// Current is the confirmed signup count, capped at Capacity for display.
	Current int
	Waiting int

	// Registered is set only when the view is computed for a member context.
	Registered *Registration
}

// ScheduleView groups offerings by course name. Within each course the
// offerings are ordered by scheduled time ascending.
type ScheduleView struct {
	Items map[string][]OfferingStatus
}
