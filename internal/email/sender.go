// Package email delivers mail through the Microsoft Graph sendMail API
// using the OAuth2 client-credentials flow. Delivery failures are reported
// to callers as errors but are treated as non-fatal everywhere in the
// application: they are logged and the triggering operation still succeeds.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/synvoy/backend/internal/config"
)

const graphEndpoint = "https://graph.microsoft.com/v1.0"

// Sender sends mail on behalf of a fixed mailbox. The zero-value http
// client is replaced by an OAuth2 client that refreshes the application
// token transparently.
type Sender struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewSender builds a Sender from the mail configuration. When the Graph
// settings are incomplete the Sender is disabled: Send logs nothing out and
// returns an error the caller is expected to log and swallow.
func NewSender(cfg config.MailConfig) *Sender {
	s := &Sender{cfg: cfg}
	if !cfg.Enabled() {
		return s
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}
	s.client = cc.Client(context.Background())
	s.client.Timeout = 15 * time.Second
	return s
}

// Enabled reports whether the sender has credentials to deliver mail.
func (s *Sender) Enabled() bool { return s.client != nil }

// Graph sendMail request body.
type graphMessage struct {
	Message         graphMessageBody `json:"message"`
	SaveToSentItems string           `json:"saveToSentItems"`
}

type graphMessageBody struct {
	Subject      string           `json:"subject"`
	Body         graphContent     `json:"body"`
	From         *graphRecipient  `json:"from,omitempty"`
	ToRecipients []graphRecipient `json:"toRecipients"`
	ReplyTo      []graphRecipient `json:"replyTo,omitempty"`
}

type graphContent struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphAddress `json:"emailAddress"`
}

type graphAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

// Send delivers an HTML email to a single recipient. replyToEmail may be
// empty. The Graph API answers 202 Accepted on success; anything else is an
// error.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody, replyToName, replyToEmail string) error {
	if !s.Enabled() {
		return fmt.Errorf("mail sender not configured")
	}
	msg := graphMessage{
		SaveToSentItems: "true",
		Message: graphMessageBody{
			Subject:      subject,
			Body:         graphContent{ContentType: "HTML", Content: htmlBody},
			ToRecipients: []graphRecipient{{EmailAddress: graphAddress{Address: to}}},
		},
	}
	if s.cfg.FromAlias != "" {
		msg.Message.From = &graphRecipient{EmailAddress: graphAddress{Address: s.cfg.FromAlias, Name: "Synvoy"}}
	}
	if replyToEmail != "" {
		msg.Message.ReplyTo = []graphRecipient{{EmailAddress: graphAddress{Address: replyToEmail, Name: replyToName}}}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	url := fmt.Sprintf("%s/users/%s/sendMail", graphEndpoint, s.cfg.SenderUser)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendMail request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendMail status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
