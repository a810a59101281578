package esarhttp

import (
	"context"
	"fmt"
	"strings"

	"github.com/kcesar/training-api/internal/ports/out/messaging"
)

// MessagingClient implements messaging.Client against the messaging API.
type MessagingClient struct {
	client *Client
	root   string
}

func NewMessagingClient(client *Client, root string) *MessagingClient {
	return &MessagingClient{client: client, root: strings.TrimRight(root, "/")}
}

type sendEmailRequest struct {
	To      string `json:"To"`
	Subject string `json:"Subject"`
	Message string `json:"Message"`
}

func (c *MessagingClient) SendEmail(ctx context.Context, token string, e messaging.Email) error {
	err := c.client.postJSON(ctx, c.root+"/send/email", token, sendEmailRequest{
		To:      e.To,
		Subject: e.Subject,
		Message: e.Message,
	}, nil)
	if err != nil {
		return fmt.Errorf("messaging api: %w", err)
	}
	return nil
}
