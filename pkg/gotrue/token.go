package gotrue

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Claims are the parts of an access token the site relies on.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// VerifyToken checks an access token and returns its user. Tokens are
// verified locally with the project JWT secret when one is configured, and
// by asking the auth service otherwise.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	if c.JWTSecret == "" {
		u, err := c.GetUser(ctx, accessToken)
		if err != nil {
			if Rejected(err) {
				return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
			}
			return nil, err
		}
		return u, nil
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return []byte(c.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &User{ID: claims.Subject, Email: claims.Email}, nil
}

// Rejected reports whether err means the auth service refused the
// credentials, as opposed to being unreachable or failing.
func Rejected(err error) bool {
	if errors.Is(err, ErrInvalidToken) {
		return true
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return false
}

// NewPKCE returns a random code verifier and its S256 challenge.
func NewPKCE() (verifier, challenge string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	verifier = base64.RawURLEncoding.EncodeToString(buf)
	sum := sha256.Sum256([]byte(verifier))
	return verifier, base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
