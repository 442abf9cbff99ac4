package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authdash/internal/client/client"
	"github.com/dmitrijs2005/authdash/internal/common"
	"github.com/dmitrijs2005/authdash/internal/models"
)

var readSecret = ReadSecret

// prompt asks for value unless a flag already set it.
func (a *App) prompt(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := ReadLine(a.reader, a.out, label)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (a *App) readPassword() (string, error) {
	password, err := readSecret(a.reader, a.out, "Password")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(password)
	return string(password), nil
}

// Login prompts for whatever credentials are missing and starts a session.
// A static session is reported as such.
func (a *App) Login(ctx context.Context, email string) error {
	if err := a.prompt(&email, "Email"); err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	res, err := a.authService.Login(ctx, a.store, models.Credentials{Email: email, Password: password})
	if err != nil {
		a.logger.Warn(ctx, "login unsuccessful", "email", email, "error", err)
		return err
	}

	if res.Static {
		fmt.Fprintln(a.out, "Auth API unreachable, started a static demo session.")
	} else {
		fmt.Fprintln(a.out, "Login successful")
	}
	if res.User != nil {
		fmt.Fprintf(a.out, "Welcome, %s\n", res.User.DisplayName())
	}
	return nil
}

// Logout drops the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx, a.store); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Register prompts for missing fields and creates an account.
func (a *App) Register(ctx context.Context, email, name string) error {
	if err := a.prompt(&email, "Email"); err != nil {
		return err
	}
	password, err := a.readPassword()
	if err != nil {
		return err
	}

	res, err := a.authService.Register(ctx, a.store, models.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success!")
	if res.SignedIn {
		fmt.Fprintln(a.out, "You are now logged in.")
	} else {
		fmt.Fprintln(a.out, "Use 'authdash login' to sign in.")
	}
	return nil
}

// Status prints the resolved auth state. With refresh set, a real session
// re-reads the profile from the API first.
func (a *App) Status(ctx context.Context, refresh bool) error {
	if refresh {
		if _, err := a.authService.RefreshProfile(ctx, a.store); err != nil {
			switch {
			case errors.Is(err, client.ErrUnauthorized):
				fmt.Fprintln(a.out, "Session rejected by the server.")
			case errors.Is(err, client.ErrUnavailable):
				a.logger.Warn(ctx, "profile refresh skipped, API unreachable", "error", err)
			default:
				return err
			}
		}
	}

	st, err := a.authService.State(ctx, a.store)
	if err != nil {
		return err
	}
	if !st.Authenticated {
		fmt.Fprintln(a.out, "Not logged in.")
		fmt.Fprintln(a.out, "Use 'authdash login' to authenticate.")
		return nil
	}

	mode := "online"
	if st.Static {
		mode = "static"
	}
	fmt.Fprintln(a.out, "Logged in")
	fmt.Fprintf(a.out, "User ID:  %s\n", st.User.ID)
	fmt.Fprintf(a.out, "Email:    %s\n", st.User.Email)
	if st.User.Name != "" {
		fmt.Fprintf(a.out, "Name:     %s\n", st.User.Name)
	}
	if st.Role != "" {
		fmt.Fprintf(a.out, "Role:     %s\n", st.Role)
	}
	fmt.Fprintf(a.out, "Mode:     %s\n", mode)
	if !st.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Expires:  %s\n", st.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}
