package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/client/session"
	"github.com/dmitrijs2005/mangareader/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// readSecret prompts for a password and returns it as a string, wiping the
// terminal buffer.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Register prompts for username, email and password and creates an account.
// Registration does not log the user in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}

	res, err := a.authService.Register(ctx, username, email, password)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, common.FirstNonEmpty(res.Message, "Registration successful"))
	fmt.Fprintln(a.out, "You can now log in.")
	return nil
}

// Login prompts for credentials and opens a session. On success the session
// store persists the credential, so later runs start logged in.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}

	snap, err := a.authService.Login(ctx, username, password)
	if err != nil {
		a.logger.Info(ctx, "login unsuccessful", "username", username, "error", err)
		return a.report(err)
	}

	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", snap.Profile.Username, snap.Profile.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if err := a.authService.Logout(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the stored profile and, for JWT credentials, their expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated() {
		return a.report(common.ErrNotAuthenticated)
	}

	p := snap.Profile
	fmt.Fprintf(a.out, "%s <%s>\n", p.Username, p.Email)
	fmt.Fprintf(a.out, "  id:     %d\n", p.ID)
	fmt.Fprintf(a.out, "  role:   %s\n", p.Role)
	fmt.Fprintf(a.out, "  active: %t\n", p.IsActive)
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "  since:  %s\n", p.CreatedAt.Format(time.DateOnly))
	}
	if exp, ok := session.CredentialExpiry(snap.Credential); ok {
		fmt.Fprintf(a.out, "  session expires %s\n", exp.Local().Format(time.DateTime))
	}
	return nil
}

// ChangePassword asks for the current password and the new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(common.ErrNotAuthenticated)
	}

	current, err := a.readSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	confirm, err := a.readSecret("Repeat new password")
	if err != nil {
		return err
	}
	if next != confirm {
		return a.report(fmt.Errorf("%w: passwords do not match", common.ErrInvalidInput))
	}

	msg, err := a.authService.ChangePassword(ctx, current, next)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, common.FirstNonEmpty(msg, "Password changed"))
	return nil
}
