package accounts

import (
	"context"

	"github.com/kcesar/training-api/internal/domain"
)

// Account is an identity account belonging to a member. A member may have
// zero, one, or many accounts; usernames are compared case-insensitively.
type Account struct {
	Username string
	Name     string
	Email    string
}

// Client talks to the external accounts/identity API.
type Client interface {
	// ListForMember returns all accounts registered for the member.
	ListForMember(ctx context.Context, token string, memberID domain.MemberID) ([]Account, error)
}
