// Package gotrue is a small client for the hosted auth REST API (GoTrue
// compatible, served under <project>/auth/v1).
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

type Event string

const (
	SignedIn       Event = "SIGNED_IN"
	SignedOut      Event = "SIGNED_OUT"
	TokenRefreshed Event = "TOKEN_REFRESHED"
)

// Listener is notified of auth state changes. The session is nil on SignedOut.
type Listener func(event Event, session *Session)

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// APIError is a non-2xx answer of the auth service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth error (status %d): %s", e.Status, e.Message)
}

type Client struct {
	BaseURL    string
	AnonKey    string
	JWTSecret  string
	HTTPClient *http.Client

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

// NewClient builds a client for the project at projectURL.
func NewClient(projectURL, anonKey, jwtSecret string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	base := strings.TrimRight(projectURL, "/")
	if base != "" && !strings.HasSuffix(base, "/auth/v1") {
		base += "/auth/v1"
	}
	return &Client{
		BaseURL:    base,
		AnonKey:    anonKey,
		JWTSecret:  jwtSecret,
		HTTPClient: &http.Client{Timeout: timeout},
		listeners:  map[int]Listener{},
	}
}

// Configured is false when the project URL or the anon key is missing.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != "" && c.AnonKey != ""
}

// OnAuthStateChange registers fn and returns a function removing it.
func (c *Client) OnAuthStateChange(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Client) emit(event Event, session *Session) {
	c.mu.RLock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.RUnlock()

	for _, l := range listeners {
		l(event, session)
	}
}

func (c *Client) doRequest(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("apikey", c.AnonKey)
	if token == "" {
		token = c.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

// errorMessage picks the human readable part of an auth error body.
func errorMessage(body []byte) string {
	for _, key := range []string{"error_description", "msg", "message", "error"} {
		if v := gjson.GetBytes(body, key); v.Exists() && v.Type == gjson.String {
			return v.String()
		}
	}
	return strings.TrimSpace(string(body))
}

// AuthorizeURL is where the browser goes to sign in with an OAuth provider.
func (c *Client) AuthorizeURL(provider, redirectTo, codeChallenge string) string {
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	if codeChallenge != "" {
		q.Set("code_challenge", codeChallenge)
		q.Set("code_challenge_method", "s256")
	}
	return c.BaseURL + "/authorize?" + q.Encode()
}

// ExchangeCode trades an OAuth PKCE code for a session.
func (c *Client) ExchangeCode(ctx context.Context, code, verifier string) (*Session, error) {
	s := &Session{}
	err := c.doRequest(ctx, http.MethodPost, "/token?grant_type=pkce", "", map[string]string{
		"auth_code":     code,
		"code_verifier": verifier,
	}, s)
	if err != nil {
		return nil, err
	}
	c.emit(SignedIn, s)
	return s, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	s := &Session{}
	err := c.doRequest(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, s)
	if err != nil {
		return nil, err
	}
	c.emit(SignedIn, s)
	return s, nil
}

// SignUp registers an account. The session is nil when the project requires
// email confirmation before the first sign in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, *Session, error) {
	var raw json.RawMessage
	err := c.doRequest(ctx, http.MethodPost, "/signup", "", map[string]string{
		"email":    email,
		"password": password,
	}, &raw)
	if err != nil {
		return nil, nil, err
	}

	if gjson.GetBytes(raw, "access_token").Exists() {
		s := &Session{}
		if err := json.Unmarshal(raw, s); err != nil {
			return nil, nil, fmt.Errorf("error decoding response: %w", err)
		}
		c.emit(SignedIn, s)
		return &s.User, s, nil
	}

	u := &User{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, nil, fmt.Errorf("error decoding response: %w", err)
	}
	return u, nil, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	s := &Session{}
	err := c.doRequest(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": refreshToken,
	}, s)
	if err != nil {
		return nil, err
	}
	c.emit(TokenRefreshed, s)
	return s, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	u := &User{}
	if err := c.doRequest(ctx, http.MethodGet, "/user", accessToken, nil, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	err := c.doRequest(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	// the local session ends even if the remote call fails
	c.emit(SignedOut, nil)
	return err
}
