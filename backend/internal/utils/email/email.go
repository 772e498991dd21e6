package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/medina-starter/accounts/shared/config"
	"github.com/medina-starter/accounts/shared/logger"
	"github.com/yuin/goldmark"
)

const verificationSubject = "Verify your email"

const verificationTemplate = `# Confirm your email address

Thanks for signing up. Follow the link below to verify your email:

[%[1]s](%[1]s)

The link expires, so use it soon. If you did not create an account you can ignore this message.
`

// Email delivers verification messages over SMTP.
type Email struct {
	config *config.Email
	auth   smtp.Auth
	md     goldmark.Markdown
}

func New(config *config.Email) *Email {
	var auth smtp.Auth
	if config.Username != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)
	}
	return &Email{
		config: config,
		auth:   auth,
		md:     goldmark.New(),
	}
}

// SendVerification mails the verification link to recipient.
func (e *Email) SendVerification(ctx context.Context, recipient, link string) error {
	text := fmt.Sprintf(verificationTemplate, link)
	msg, err := e.buildMessage(recipient, verificationSubject, text)
	if err != nil {
		return err
	}
	return e.Send(ctx, recipient, msg)
}

// Send delivers a prepared message. Port 465 uses implicit TLS, any other
// port upgrades with STARTTLS.
func (e *Email) Send(ctx context.Context, recipient string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout())
	defer cancel()

	address := net.JoinHostPort(e.config.SMTPServer, fmt.Sprint(e.config.SMTPPort))
	if e.config.SMTPPort == 465 {
		return e.sendImplicitTLS(ctx, address, recipient, msg)
	}
	return e.sendSTARTTLS(ctx, address, recipient, msg)
}

func (e *Email) timeout() time.Duration {
	if e.config.Timeout <= 0 {
		return 10 * time.Second
	}
	return e.config.Timeout
}

// sendImplicitTLS sends email over a connection that is TLS from the start (port 465).
func (e *Email) sendImplicitTLS(ctx context.Context, address, recipient string, msg []byte) error {
	dialer := &tls.Dialer{Config: &tls.Config{ServerName: e.config.SMTPServer}}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server (implicit TLS)", "address", address, "error", err)
		return err
	}
	defer conn.Close()
	setDeadline(ctx, conn)

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	return e.sendViaClient(client, recipient, msg)
}

// sendSTARTTLS sends email by upgrading a plain connection to TLS (port 587).
func (e *Email) sendSTARTTLS(ctx context.Context, address, recipient string, msg []byte) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()
	setDeadline(ctx, conn)

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
			logger.Log.Error("failed to start TLS", "error", err)
			return err
		}
	}

	return e.sendViaClient(client, recipient, msg)
}

func setDeadline(ctx context.Context, conn net.Conn) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (e *Email) sendViaClient(client *smtp.Client, recipient string, msg []byte) error {
	if e.auth != nil {
		if err := client.Auth(e.auth); err != nil {
			logger.Log.Error("SMTP authentication failed", "error", err)
			return err
		}
	}

	if err := client.Mail(e.config.From); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}

	if err := client.Rcpt(recipient); err != nil {
		logger.Log.Error("failed to set recipient", "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}

	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}

	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	t := time.Now().UnixNano()
	pid := rand.Int63()
	return fmt.Sprintf("<%d.%d@%s>", t, pid, domain)
}

func senderDomain(from string) string {
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		return from[at+1:]
	}
	return "localhost"
}

// buildMessage renders a multipart/alternative message whose HTML part is the
// markdown body converted by goldmark.
func (e *Email) buildMessage(recipient, subject, markdown string) ([]byte, error) {
	var html bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &html); err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct {
		contentType string
		content     []byte
	}{
		{`text/plain; charset="utf-8"`, []byte(markdown)},
		{`text/html; charset="utf-8"`, html.Bytes()},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := e.config.From
	if e.config.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", e.config.SenderName), e.config.From)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/alternative; boundary=%q\r\n"+
			"\r\n",
		generateMessageID(senderDomain(e.config.From)),
		time.Now().Format(time.RFC1123Z),
		recipient,
		from,
		mime.QEncoding.Encode("utf-8", subject),
		mw.Boundary(),
	)
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// LogNotifier stands in for SMTP when no sender address is configured. It
// only records that a verification would have been sent.
type LogNotifier struct{}

func (LogNotifier) SendVerification(ctx context.Context, recipient, link string) error {
	logger.Log.Info("email delivery disabled, skipping verification email", "recipient", recipient)
	return nil
}
