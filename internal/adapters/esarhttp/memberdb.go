package esarhttp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/memberdb"
)

// MemberDBClient implements memberdb.Client against the membership database
// API.
type MemberDBClient struct {
	client *Client
	root   string
}

func NewMemberDBClient(client *Client, root string) *MemberDBClient {
	return &MemberDBClient{client: client, root: strings.TrimRight(root, "/")}
}

// Wire shapes follow the membership database contract: request fields are
// PascalCase, the create response carries a lowercase id.
type newMemberRequest struct {
	First        string    `json:"First"`
	Middle       string    `json:"Middle"`
	Last         string    `json:"Last"`
	Gender       string    `json:"Gender"`
	WacLevel     string    `json:"WacLevel"`
	WacLevelDate time.Time `json:"WacLevelDate"`
	BirthDate    string    `json:"BirthDate"`
}

type createdMemberResponse struct {
	ID string `json:"id"`
}

type unitRef struct {
	ID string `json:"Id"`
}

type newMembershipRequest struct {
	Unit   unitRef   `json:"Unit"`
	Status string    `json:"Status"`
	Start  time.Time `json:"Start"`
}

func (c *MemberDBClient) CreateMember(ctx context.Context, token string, m memberdb.NewMember) (domain.MemberID, error) {
	var resp createdMemberResponse
	err := c.client.postJSON(ctx, c.root+"/members", token, newMemberRequest{
		First:        m.First,
		Middle:       m.Middle,
		Last:         m.Last,
		Gender:       m.Gender,
		WacLevel:     m.WacLevel,
		WacLevelDate: m.WacLevelDate,
		BirthDate:    m.BirthDate.Format("2006-01-02"),
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("membership database: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("membership database: create member response missing id")
	}
	return domain.MemberID(resp.ID), nil
}

func (c *MemberDBClient) CreateMembership(ctx context.Context, token string, memberID domain.MemberID, ms memberdb.NewMembership) error {
	url := fmt.Sprintf("%s/members/%s/memberships", c.root, string(memberID))
	err := c.client.postJSON(ctx, url, token, newMembershipRequest{
		Unit:   unitRef{ID: ms.UnitID.String()},
		Status: ms.Status,
		Start:  ms.Start,
	}, nil)
	if err != nil {
		return fmt.Errorf("membership database: %w", err)
	}
	return nil
}
