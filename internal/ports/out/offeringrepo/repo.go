package offeringrepo

import (
	"context"
	"time"

	"github.com/kcesar/training-api/internal/domain"
)

// Offering is the persistence shape used by the offering repository.
// It is not an HTTP DTO.
type Offering struct {
	ID domain.OfferingID

	// CourseName groups offerings into a course series. A member may hold at
	// most one active signup across all offerings of a series.
	CourseName string

	When     time.Time
	Location string
	Capacity int

	CreatedAt time.Time
}

// Repository provides access to persisted course offerings.
//
// Result ordering expectations:
// - List returns offerings ordered by When ascending, then ID, to keep
//   schedule rendering deterministic.
type Repository interface {
	Create(ctx context.Context, o Offering) error

	GetByID(ctx context.Context, id domain.OfferingID) (Offering, error)

	List(ctx context.Context) ([]Offering, error)
}
