package trainees

import (
	"time"

	"github.com/google/uuid"

	"github.com/kcesar/training-api/internal/domain"
)

// Settings holds the configuration the trainee workflows consume. All values
// are resolved and validated at startup; nothing is looked up at call time.
type Settings struct {
	// DatabaseScope names the permission set requested from the token
	// provider for membership database and accounts calls.
	DatabaseScope string

	// UnitID is the unit every new trainee is enrolled under.
	UnitID uuid.UUID

	// NewMemberStatus is the membership status label applied on enrollment.
	NewMemberStatus string

	// AuthAuthority is the identity provider base URL used to build the
	// forgot-password link. A trailing slash is tolerated.
	AuthAuthority string
}

type CreateTraineeInput struct {
	First     string
	Middle    string
	Last      string
	Gender    string
	BirthDate time.Time
}

// TraineeCreated is returned when enrollment succeeds.
type TraineeCreated struct {
	MemberID domain.MemberID
	Name     string
}
