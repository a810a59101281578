package esarhttp

import (
	"context"
	"fmt"
	"strings"

	"github.com/kcesar/training-api/internal/domain"
	"github.com/kcesar/training-api/internal/ports/out/accounts"
)

// AccountsClient implements accounts.Client against the accounts/identity API.
type AccountsClient struct {
	client *Client
	root   string
}

func NewAccountsClient(client *Client, root string) *AccountsClient {
	return &AccountsClient{client: client, root: strings.TrimRight(root, "/")}
}

type accountRecord struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type accountListResponse struct {
	Data []accountRecord `json:"data"`
}

func (c *AccountsClient) ListForMember(ctx context.Context, token string, memberID domain.MemberID) ([]accounts.Account, error) {
	url := fmt.Sprintf("%s/account/formember/%s", c.root, string(memberID))
	var resp accountListResponse
	if err := c.client.getJSON(ctx, url, token, &resp); err != nil {
		return nil, fmt.Errorf("accounts api: %w", err)
	}
	out := make([]accounts.Account, 0, len(resp.Data))
	for _, a := range resp.Data {
		out = append(out, accounts.Account{
			Username: a.Username,
			Name:     a.Name,
			Email:    a.Email,
		})
	}
	return out, nil
}
