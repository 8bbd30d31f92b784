package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS sends through the EmailJS REST API with a service/template/public key triple.
type EmailJS struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	Endpoint   string
	HTTPClient *http.Client
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *EmailJS) Send(ctx context.Context, m Message) error {
	endpoint := e.Endpoint
	if endpoint == "" {
		endpoint = DefaultEmailJSEndpoint
	}
	client := e.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:   e.ServiceID,
		TemplateID:  e.TemplateID,
		UserID:      e.PublicKey,
		AccessToken: e.PrivateKey,
		TemplateParams: map[string]string{
			"from_name":  m.Name,
			"from_email": m.Email,
			"reply_to":   m.Email,
			"company":    m.Company,
			"phone":      m.Phone,
			"position":   m.Position,
			"message":    m.Message,
			"subject":    m.Subject(),
		},
	})
	if err != nil {
		return fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("emailjs error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
