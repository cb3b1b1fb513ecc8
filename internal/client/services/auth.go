// Package services contains application services for the manga reader client.
// This file defines the authentication service: login, registration, logout
// and password change, all driving the session store.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mangareader/internal/client/client"
	"github.com/dmitrijs2005/mangareader/internal/client/session"
	"github.com/dmitrijs2005/mangareader/internal/common"
	"github.com/dmitrijs2005/mangareader/internal/logging"
)

const minPasswordLength = 6

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: one POST /auth/login; on success the session store holds the
//     returned credential and profile. On any failure the store is untouched.
//   - Register: one POST /auth/register; never creates a session.
//   - Logout: clears the session store.
//   - ChangePassword: POST /auth/change-password for the logged-in user.
//
// Failures from the backend are returned as *RequestError.
type AuthService interface {
	Login(ctx context.Context, username, password string) (session.Snapshot, error)
	Register(ctx context.Context, username, email, password string) (RegistrationResult, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, current, next string) (string, error)
}

// RegistrationResult is what the backend reports for a new account.
type RegistrationResult struct {
	Message string
	Profile *session.Profile
}

type authService struct {
	client client.Client
	store  session.Manager
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and session store.
func NewAuthService(c client.Client, store session.Manager, logger logging.Logger) AuthService {
	return &authService{client: c, store: store, logger: logger}
}

type authResponse struct {
	envelope
	AccessToken string           `json:"access_token"`
	User        *session.Profile `json:"user"`
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

func (a *authService) Login(ctx context.Context, username, password string) (session.Snapshot, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return session.Snapshot{}, fmt.Errorf("%w: username and password are required", common.ErrInvalidInput)
	}

	var resp authResponse
	if err := a.client.PostJSON(ctx, "auth/login", credentials{Username: username, Password: password}, &resp); err != nil {
		a.logger.Warn(ctx, "login failed", "username", username, "error", err)
		return session.Snapshot{}, requestError(err, "Login failed")
	}
	if resp.AccessToken == "" || resp.User == nil {
		a.logger.Warn(ctx, "login response without credential or profile", "username", username)
		return session.Snapshot{}, &RequestError{Message: "Invalid response from server", Err: common.ErrMalformedResponse}
	}

	if err := a.store.SetSession(ctx, resp.AccessToken, resp.User); err != nil {
		return session.Snapshot{}, fmt.Errorf("save session: %w", err)
	}

	a.logger.Info(ctx, "login succeeded", "username", resp.User.Username, "role", resp.User.Role)
	return session.Snapshot{Credential: resp.AccessToken, Profile: resp.User}, nil
}

func (a *authService) Register(ctx context.Context, username, email, password string) (RegistrationResult, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return RegistrationResult{}, fmt.Errorf("%w: username, email and password are required", common.ErrInvalidInput)
	}

	var resp authResponse
	body := credentials{Username: username, Email: email, Password: password}
	if err := a.client.PostJSON(ctx, "auth/register", body, &resp); err != nil {
		a.logger.Warn(ctx, "registration failed", "username", username, "error", err)
		return RegistrationResult{}, requestError(err, "Registration failed")
	}

	a.logger.Info(ctx, "registration succeeded", "username", username)
	return RegistrationResult{Message: resp.Message, Profile: resp.User}, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

// ChangePassword returns the server's confirmation message.
func (a *authService) ChangePassword(ctx context.Context, current, next string) (string, error) {
	if _, ok := a.store.Credential(); !ok {
		return "", common.ErrNotAuthenticated
	}
	switch {
	case current == "" || next == "":
		return "", fmt.Errorf("%w: current and new password are required", common.ErrInvalidInput)
	case len(next) < minPasswordLength:
		return "", fmt.Errorf("%w: new password must be at least %d characters", common.ErrInvalidInput, minPasswordLength)
	case next == current:
		return "", fmt.Errorf("%w: new password must differ from the current one", common.ErrInvalidInput)
	}

	body := map[string]string{"currentPassword": current, "newPassword": next}
	var resp envelope
	if err := a.client.PostJSON(ctx, "auth/change-password", body, &resp); err != nil {
		return "", requestError(err, "Password change failed")
	}
	return common.FirstNonEmpty(resp.Message, "Password changed"), nil
}
