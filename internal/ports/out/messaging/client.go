package messaging

import "context"

// Email is an outbound message. The body is HTML.
type Email struct {
	To      string
	Subject string
	Message string
}

// Client talks to the external messaging API.
type Client interface {
	SendEmail(ctx context.Context, token string, e Email) error
}
