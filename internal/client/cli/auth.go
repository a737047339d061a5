package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getLines = GetLines

// Register prompts for email, full name and password and creates an account.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Register(ctx, email, fullName, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created, you can log in now.")
	return nil
}

// Login authenticates and saves the session so later runs stay logged in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Login(ctx, email, password); err != nil {
		return err
	}

	// tokens are already persisted by the client callback; record who owns them
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}
	s.Email = email
	if err := a.sessions.Save(ctx, s); err != nil {
		return err
	}

	a.email = email
	a.loggedIn = true
	fmt.Fprintln(a.out, "Logged in as", email)
	return nil
}

// Logout revokes the session on the server and forgets it locally.
func (a *App) Logout(ctx context.Context, _ []string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.client.Logout(ctx); err != nil {
		return err
	}
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.email = ""
	a.loggedIn = false
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
