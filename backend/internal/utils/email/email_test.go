package email

import (
	"context"
	"testing"

	"github.com/medina-starter/accounts/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	e := New(&config.Email{From: "no-reply@example.com", SenderName: "Accounts"})

	link := "http://localhost:8080/auth/confirm?token=abc"
	msg, err := e.buildMessage("ada@example.com", verificationSubject, "[go]("+link+")")
	require.NoError(t, err)

	s := string(msg)
	assert.Contains(t, s, "To: ada@example.com\r\n")
	assert.Contains(t, s, "From: Accounts <no-reply@example.com>\r\n")
	assert.Contains(t, s, "@example.com>\r\n")
	assert.Contains(t, s, "Content-Type: multipart/alternative;")
	assert.Contains(t, s, `text/plain; charset="utf-8"`)
	assert.Contains(t, s, `<a href="`+link+`">go</a>`)
}

func TestBuildMessage_NoSenderName(t *testing.T) {
	e := New(&config.Email{From: "no-reply@example.com"})
	msg, err := e.buildMessage("ada@example.com", "Hi", "body")
	require.NoError(t, err)
	assert.Contains(t, string(msg), "From: no-reply@example.com\r\n")
}

func TestSend_Unreachable(t *testing.T) {
	e := New(&config.Email{SMTPServer: "127.0.0.1", SMTPPort: 1, From: "no-reply@example.com"})
	err := e.SendVerification(context.Background(), "ada@example.com", "http://x")
	assert.Error(t, err)
}

func TestSenderDomain(t *testing.T) {
	assert.Equal(t, "example.com", senderDomain("a@example.com"))
	assert.Equal(t, "localhost", senderDomain("broken"))
	assert.Equal(t, "localhost", senderDomain("trailing@"))
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.SendVerification(context.Background(), "ada@example.com", "http://x"))
}
