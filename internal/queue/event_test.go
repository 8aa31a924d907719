package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContactEmailEscapesHTML(t *testing.T) {
	phone := "+1 555 0100"
	ev := NewContactEmail("contact@synvoy.example", "<b>Mallory</b>", "mallory@example.com",
		"Hi <script>", "line one\n<img src=x>", &phone)

	assert.Equal(t, "contact@synvoy.example", ev.To)
	assert.Equal(t, "Contact Form: Hi <script>", ev.Subject)
	assert.Equal(t, "<b>Mallory</b>", ev.ReplyToName)
	assert.Equal(t, "mallory@example.com", ev.ReplyToEmail)

	assert.NotContains(t, ev.HTMLBody, "<script>")
	assert.NotContains(t, ev.HTMLBody, "<img")
	assert.Contains(t, ev.HTMLBody, "&lt;b&gt;Mallory&lt;/b&gt;")
	assert.Contains(t, ev.HTMLBody, "line one<br>")
	assert.Contains(t, ev.HTMLBody, "+1 555 0100")
}

func TestNewContactEmailOmitsEmptyPhone(t *testing.T) {
	ev := NewContactEmail("contact@synvoy.example", "N", "n@example.com", "S", "a message", nil)
	assert.NotContains(t, ev.HTMLBody, "Phone")
}

func TestNewVerificationEmailCarriesToken(t *testing.T) {
	ev := NewVerificationEmail("u@example.com", "Ada", "raw-token-123")
	assert.Equal(t, "u@example.com", ev.To)
	assert.Contains(t, ev.HTMLBody, "raw-token-123")
	assert.Empty(t, ev.ReplyToEmail)
	require.NotEmpty(t, ev.EventID)
	require.NotEmpty(t, ev.RequestedAt)
}

func TestEventIDsAreUnique(t *testing.T) {
	a := NewVerificationEmail("u@example.com", "Ada", "t1")
	b := NewDeletionCancelEmail("u@example.com", "Ada", "t2")
	assert.NotEqual(t, a.EventID, b.EventID)
}
