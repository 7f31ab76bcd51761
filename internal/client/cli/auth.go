package cli

import (
	"context"
	"fmt"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the server. On a
// local-only server the email prompt takes the username instead.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email (or username)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %s\n", err.Error())
		return err
	}

	a.userName = s.User
	a.isAdmin = false
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User)
	return nil
}

// Signup prompts for the new account fields and registers it.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.api.Signup(ctx, name, email, username, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Signup unsuccessful: %s\n", err.Error())
		return err
	}

	a.userName = s.User
	a.isAdmin = false
	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", s.User)
	return nil
}

// AdminLogin prompts for the bootstrap admin credentials.
func (a *App) AdminLogin(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter admin username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.api.AdminLogin(ctx, username, string(password))
	if err != nil {
		fmt.Fprintf(a.out, "Admin login unsuccessful: %s\n", err.Error())
		return err
	}

	a.userName = s.User
	a.isAdmin = true
	fmt.Fprintf(a.out, "Logged in as administrator.\n")
	return nil
}

// Logout ends the session on the server and clears the local identity.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.isAdmin = false
	a.printed = 0
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}
