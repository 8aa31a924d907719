// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EmailQueueName is the durable queue carrying outbound email requests.
const EmailQueueName = "email.outbound"

// EmailRequestedEvent asks the email consumer to deliver one message. The
// EventID correlates producer and consumer log lines; RequestedAt is set by
// the producer in RFC 3339.
type EmailRequestedEvent struct {
	EventID      string `json:"event_id"`
	To           string `json:"to"`
	Subject      string `json:"subject"`
	HTMLBody     string `json:"html_body"`
	ReplyToName  string `json:"reply_to_name,omitempty"`
	ReplyToEmail string `json:"reply_to_email,omitempty"`
	RequestedAt  string `json:"requested_at"`
}

func newEvent(to, subject, htmlBody string) EmailRequestedEvent {
	return EmailRequestedEvent{
		EventID:     uuid.NewString(),
		To:          to,
		Subject:     subject,
		HTMLBody:    htmlBody,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewContactEmail builds the contact-form relay addressed to the site's
// contact mailbox. Replies go straight back to the person who submitted
// the form.
func NewContactEmail(contactEmail, name, fromEmail, subject, message string, phone *string) EmailRequestedEvent {
	var b strings.Builder
	b.WriteString("<html><body><h2>New Contact Form Submission</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(fromEmail))
	if phone != nil && *phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(*phone))
	}
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p><hr>", html.EscapeString(subject))
	fmt.Fprintf(&b, "<p>%s</p>", strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"))
	b.WriteString("<hr><p><em>Sent from the Synvoy contact form. Reply directly to this email to respond.</em></p></body></html>")

	ev := newEvent(contactEmail, "Contact Form: "+subject, b.String())
	ev.ReplyToName = name
	ev.ReplyToEmail = fromEmail
	return ev
}

// NewVerificationEmail builds the email-verification message. The raw
// opaque token is included for the recipient; only its digest is stored
// server-side.
func NewVerificationEmail(to, firstName, token string) EmailRequestedEvent {
	body := fmt.Sprintf(
		"<html><body><p>Hi %s,</p><p>Confirm your Synvoy account with the code below. It expires in 24 hours; unverified accounts are removed automatically.</p><p><strong>%s</strong></p></body></html>",
		html.EscapeString(firstName), html.EscapeString(token))
	return newEvent(to, "Verify your Synvoy account", body)
}

// NewDeletionCancelEmail builds the account-deletion notice carrying the
// cancellation token.
func NewDeletionCancelEmail(to, firstName, token string) EmailRequestedEvent {
	body := fmt.Sprintf(
		"<html><body><p>Hi %s,</p><p>Your Synvoy account has been deactivated and is scheduled for deletion. If this was not you, cancel with the code below.</p><p><strong>%s</strong></p></body></html>",
		html.EscapeString(firstName), html.EscapeString(token))
	return newEvent(to, "Your Synvoy account deletion", body)
}
