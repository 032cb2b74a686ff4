package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/voicedesk/google-mcp-server/auth"
)

// Client wraps the Google Gmail API client
type Client struct {
	service *gmail.Service
}

// NewClient creates a new Gmail client
func NewClient(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{service: service}, nil
}

// Send delivers an HTML mail from the authorized account.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(buildMessage(to, subject, htmlBody)),
	}

	if _, err := c.service.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send message: %w", auth.HandleServiceError(err, "gmail"))
	}
	return nil
}

// buildMessage assembles an RFC 822 message with an HTML body.
func buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
