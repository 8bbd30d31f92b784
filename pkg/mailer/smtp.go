package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	sasl "github.com/emersion/go-sasl"
	smtp "github.com/emersion/go-smtp"
)

// SMTP delivers through a mail server with PLAIN auth. Insecure skips the
// STARTTLS negotiation SendMail does.
type SMTP struct {
	Server   string
	Username string
	Password string
	Insecure bool
	From     string
	To       []string
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg, err := s.build(m)
	if err != nil {
		return err
	}

	var auth sasl.Client
	if s.Username != "" {
		auth = sasl.NewPlainClient("", s.Username, s.Password)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.deliver(auth, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTP) deliver(auth sasl.Client, msg []byte) error {
	if !s.Insecure {
		if err := smtp.SendMail(s.Server, auth, s.From, s.To, bytes.NewReader(msg)); err != nil {
			return fmt.Errorf("email send err: %w", err)
		}
		return nil
	}

	c, err := smtp.Dial(s.Server)
	if err != nil {
		return fmt.Errorf("email connection err: %w", err)
	}
	defer c.Close()

	if err := c.Hello("localhost"); err != nil {
		return fmt.Errorf("email hello err: %w", err)
	}
	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("email auth err: %w", err)
		}
	}
	if err := c.SendMail(s.From, s.To, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("email send err: %w", err)
	}
	return c.Quit()
}

// build renders a multipart/alternative message with text and HTML parts.
func (s *SMTP) build(m Message) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", m.Text()},
		{"text/html; charset=utf-8", m.HTML()},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.To, ", "))
	fmt.Fprintf(&b, "From: Productivity Engines <%s>\r\n", s.From)
	if m.Email != "" {
		fmt.Fprintf(&b, "Reply-To: %s <%s>\r\n", headerSafe(m.Name), headerSafe(m.Email))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", headerSafe(m.Subject()))
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	b.Write(body.Bytes())
	return []byte(b.String()), nil
}

func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
