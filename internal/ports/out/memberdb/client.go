package memberdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kcesar/training-api/internal/domain"
)

// NewMember is the payload for creating a member record in the membership
// database. BirthDate carries date-only semantics; callers truncate the time
// component before building it.
type NewMember struct {
	First  string
	Middle string
	Last   string
	Gender string

	WacLevel     string
	WacLevelDate time.Time
	BirthDate    time.Time
}

// NewMembership links a member to a unit with a status label.
type NewMembership struct {
	UnitID uuid.UUID
	Status string
	Start  time.Time
}

// Client talks to the external membership database API. Calls require a
// bearer token obtained by the caller; the client never acquires tokens on
// its own so a workflow can fetch one token and reuse it across steps.
type Client interface {
	// CreateMember creates a member record and returns its assigned ID.
	CreateMember(ctx context.Context, token string, m NewMember) (domain.MemberID, error)

	// CreateMembership records a unit membership for an existing member.
	CreateMembership(ctx context.Context, token string, memberID domain.MemberID, ms NewMembership) error
}
