// Package roles decides who may use the admin screens.
package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mudler/xlog"

	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/core/types"
	models "github.com/productivity-engines/website/dbmodels"
)

// UserNotFoundError is returned by SetAdmin when no mirrored user has the email.
type UserNotFoundError struct {
	Email string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("No user found with email %s", e.Email)
}

func (e *UserNotFoundError) Unwrap() error {
	return store.ErrNotFound
}

type Roles struct {
	store *store.Store
	// bootstrap admins, lower-cased
	admins map[string]bool
}

// New builds the role checker. Users whose email is in adminEmails are always
// admins and get their admin row created on first check.
func New(s *store.Store, adminEmails []string) *Roles {
	admins := map[string]bool{}
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = true
		}
	}
	return &Roles{store: s, admins: admins}
}

func (r *Roles) IsBootstrapAdmin(email string) bool {
	return r.admins[strings.ToLower(strings.TrimSpace(email))]
}

// IsAdmin reports whether the user holds the admin role. A user without any
// role row gets the plain user role.
func (r *Roles) IsAdmin(ctx context.Context, user models.User) (bool, error) {
	isAdmin, err := r.store.HasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check admin permissions: %w", err)
	}

	if r.IsBootstrapAdmin(user.Email) {
		if !isAdmin {
			if err := r.store.AddRole(ctx, user.ID, models.RoleAdmin); err != nil {
				// still an admin by configuration
				xlog.Warn("Error setting admin role", "user", user.ID, "error", err)
			}
		}
		return true, nil
	}
	if isAdmin {
		return true, nil
	}

	count, err := r.store.CountRoles(ctx, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check admin permissions: %w", err)
	}
	if count == 0 {
		if err := r.store.AddRole(ctx, user.ID, models.RoleUser); err != nil {
			xlog.Warn("Error creating user role", "user", user.ID, "error", err)
		}
	}
	return false, nil
}

// SetAdmin grants the admin role to the user with the given email and
// returns the message shown to the caller.
func (r *Roles) SetAdmin(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", types.Invalid("Email parameter is required")
	}

	user, err := r.store.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", &UserNotFoundError{Email: email}
	}
	if err != nil {
		return "", fmt.Errorf("failed to set admin role: %w", err)
	}

	isAdmin, err := r.store.HasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("failed to set admin role: %w", err)
	}
	if isAdmin {
		return fmt.Sprintf("User %s is already an admin", email), nil
	}

	if err := r.store.AddRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return "", fmt.Errorf("failed to set admin role: %w", err)
	}
	xlog.Info("Granted admin role", "email", email)
	return fmt.Sprintf("User %s has been granted admin privileges", email), nil
}
