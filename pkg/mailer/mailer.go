// Package mailer relays contact form submissions by email.
package mailer

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/chasefleming/elem-go"
	"github.com/chasefleming/elem-go/attrs"
	"jaytaylor.com/html2text"
)

var ErrNotConfigured = errors.New("email delivery is not configured")

// Message is one contact form submission.
type Message struct {
	Name     string
	Email    string
	Company  string
	Phone    string
	Position string
	Message  string
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Config struct {
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSPrivateKey string
	EmailJSEndpoint   string

	SMTPServer   string
	SMTPUsername string
	SMTPPassword string
	SMTPInsecure bool
	From         string
	To           []string
}

// New picks EmailJS when its service/template/public key triple is set and
// SMTP when a server is set. It returns ErrNotConfigured otherwise.
func New(cfg Config) (Sender, error) {
	if cfg.EmailJSServiceID != "" && cfg.EmailJSTemplateID != "" && cfg.EmailJSPublicKey != "" {
		return &EmailJS{
			ServiceID:  cfg.EmailJSServiceID,
			TemplateID: cfg.EmailJSTemplateID,
			PublicKey:  cfg.EmailJSPublicKey,
			PrivateKey: cfg.EmailJSPrivateKey,
			Endpoint:   cfg.EmailJSEndpoint,
		}, nil
	}
	if cfg.SMTPServer != "" && len(cfg.To) > 0 {
		from := cfg.From
		if from == "" {
			from = cfg.SMTPUsername
		}
		return &SMTP{
			Server:   cfg.SMTPServer,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Insecure: cfg.SMTPInsecure,
			From:     from,
			To:       cfg.To,
		}, nil
	}
	return nil, ErrNotConfigured
}

func (m Message) Subject() string {
	if m.Company != "" {
		return "New consultation request from " + m.Name + " (" + m.Company + ")"
	}
	return "New consultation request from " + m.Name
}

func (m Message) fields() [][2]string {
	return [][2]string{
		{"Name", m.Name},
		{"Email", m.Email},
		{"Company", m.Company},
		{"Phone", m.Phone},
		{"Position", m.Position},
	}
}

// HTML renders the submission as an HTML email body.
func (m Message) HTML() string {
	rows := []elem.Node{}
	for _, f := range m.fields() {
		if f[1] == "" {
			continue
		}
		rows = append(rows, elem.Tr(nil,
			elem.Th(attrs.Props{"align": "left"}, elem.Text(f[0])),
			elem.Td(nil, elem.Text(html.EscapeString(f[1]))),
		))
	}

	paragraphs := []elem.Node{}
	for _, p := range strings.Split(strings.TrimSpace(m.Message), "\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, elem.P(nil, elem.Text(html.EscapeString(p))))
		}
	}

	return elem.Div(nil,
		elem.H2(nil, elem.Text(html.EscapeString(m.Subject()))),
		elem.Table(nil, rows...),
		elem.Div(nil, paragraphs...),
	).Render()
}

// Text is the plain text alternative of HTML.
func (m Message) Text() string {
	text, err := html2text.FromString(m.HTML(), html2text.Options{PrettyTables: true})
	if err != nil {
		return m.Message
	}
	return text
}
