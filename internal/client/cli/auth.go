package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/payscan/payscan/internal/client/authflow"
	"github.com/payscan/payscan/internal/client/session"
	"github.com/payscan/payscan/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and a confirmed password and submits
// the registration form. On success the dashboard is shown; otherwise the
// form's inline error is printed.
func (a *App) Register(ctx context.Context) error {
	a.auth.ShowRegister()

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	fmt.Fprintln(a.out, authflow.LabelCreating)
	err = a.auth.SubmitRegister(ctx, authflow.RegisterForm{
		Username: username,
		Email:    email,
		Password: string(password),
		Confirm:  string(confirm),
	})
	if err != nil {
		fmt.Fprintln(a.out, "❌ "+a.auth.View().Register.Error)
		return err
	}
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	a.auth.ShowLogin()

	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	fmt.Fprintln(a.out, authflow.LabelSigningIn)
	if err := a.auth.SubmitLogin(ctx, username, string(password)); err != nil {
		fmt.Fprintln(a.out, "❌ "+a.auth.View().Login.Error)
		return err
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.dash.ForceLogout(ctx)
	return nil
}

// Me asks the server for the signed-in profile and shows when the stored
// token runs out.
func (a *App) Me(ctx context.Context) error {
	u, err := a.dash.VerifySession(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "❌ "+err.Error())
		return err
	}

	fmt.Fprintf(a.out, "User:  %s (id %d)\n", u.Username, u.ID)
	fmt.Fprintf(a.out, "Email: %s\n", u.Email)

	tok, err := a.store.Token(ctx)
	if err != nil || tok == "" {
		return nil
	}
	claims, err := session.Claims(tok)
	if err != nil {
		a.log.Debug(ctx, "token payload unreadable", "error", err)
		return nil
	}
	if !claims.ExpiresAt.IsZero() {
		left := claims.ExpiresAt.Sub(a.now()).Round(time.Minute)
		fmt.Fprintf(a.out, "Token expires %s (in %s)\n", claims.ExpiresAt.Local().Format(time.RFC1123), left)
	}
	return nil
}
