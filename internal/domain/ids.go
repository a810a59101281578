package domain

// MemberID identifies a member record in the external membership database.
// We model it as an opaque identifier: its format is controlled by that system.
type MemberID string

// OfferingID is an internal identifier for a scheduled course offering.
type OfferingID string

// SignupID is an internal identifier for a course signup record.
type SignupID string
