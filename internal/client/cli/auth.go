package cli

import (
	"context"
	"errors"
	"os"

	"github.com/dmitrijs2005/cartsync/internal/client/api"
	"github.com/dmitrijs2005/cartsync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for sign-up details and creates an account. On success
// the guard establishes the session and the login hooks fold the guest cart
// into the fresh account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name (optional)", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	reg := api.Registration{Email: email, Password: string(password), FirstName: firstName, LastName: lastName}
	if _, err := a.guard.SignUp(ctx, reg); err != nil {
		if errors.Is(err, common.ErrorUserAlreadyExists) {
			printlnFn("An account with this email already exists")
			return err
		}
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Welcome,", email)
	return nil
}

// Login prompts for credentials and authenticates. A successful login runs
// the merge resolver via the guard's login hooks.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.guard.SignIn(ctx, email, string(password)); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			printlnFn("Invalid email or password")
			return err
		}
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn("Signed in as", email)
	return nil
}

// Logout signs out. The guard tells the backend, clears the cached
// credentials, and resets the local cart.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not signed in")
		return nil
	}
	a.guard.SignOut(ctx)
	printlnFn("Signed out")
	return nil
}
