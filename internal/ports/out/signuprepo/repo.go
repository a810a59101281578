package signuprepo

import (
	"context"
	"time"

	"github.com/kcesar/training-api/internal/domain"
)

// Signup is the persistence shape used by the signup repository.
// Rows are never hard-deleted: withdrawal flips Deleted and the record stays
// queryable for audit history.
type Signup struct {
	ID         domain.SignupID
	MemberID   domain.MemberID
	OfferingID domain.OfferingID

	Created    time.Time
	OnWaitList bool
	Deleted    bool
}

// Counts summarizes the active signups against one offering.
type Counts struct {
	// Current is the number of active confirmed (non-waitlisted) signups.
	Current int
	// Waiting is the number of active waitlisted signups.
	Waiting int
}

// Repository provides access to persisted course signups.
type Repository interface {
	// Create persists a new signup with the flags already set.
	// Implementations backed by shared storage should make the surrounding
	// count-and-insert sequence atomic (see postgres adapter).
	Create(ctx context.Context, s Signup) error

	// SoftDelete marks the member's active signup for the offering as deleted.
	// ErrNotFound is returned when no active signup exists.
	SoftDelete(ctx context.Context, memberID domain.MemberID, offeringID domain.OfferingID) error

	// ListActiveByMember returns the member's non-deleted signups.
	ListActiveByMember(ctx context.Context, memberID domain.MemberID) ([]Signup, error)

	// ListByMember returns all of the member's signups, including soft-deleted
	// rows when includeDeleted is set. Used by audit queries.
	ListByMember(ctx context.Context, memberID domain.MemberID, includeDeleted bool) ([]Signup, error)

	// CountsByOffering returns active confirmed/waiting counts for every
	// offering that has at least one active signup.
	CountsByOffering(ctx context.Context) (map[domain.OfferingID]Counts, error)

	// CountsForOffering returns active confirmed/waiting counts for one offering.
	CountsForOffering(ctx context.Context, offeringID domain.OfferingID) (Counts, error)
}
