package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/grana-app/grana-go/internal/client/api"
	"github.com/grana-app/grana-go/internal/client/session"
	"github.com/grana-app/grana-go/internal/shared"
)

// Login prompts for credentials and signs in. A remembered email is offered
// as the default; pressing Enter accepts it.
func (a *App) Login(ctx context.Context) error {
	snap := a.manager.Snapshot()

	prompt := "Enter email"
	if snap.RememberedEmail != "" {
		prompt = fmt.Sprintf("Enter email [%s]", snap.RememberedEmail)
	}
	email, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if email == "" {
		email = snap.RememberedEmail
	}
	if email == "" {
		fmt.Fprintln(a.out, "Email is required")
		return nil
	}

	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	remember, err := Confirm(a.reader, "Remember this email?", a.out)
	if err != nil {
		return err
	}
	if remember != snap.RememberMe {
		if err := a.manager.SetRememberMe(ctx, remember); err != nil {
			fmt.Fprintln(a.out, "warning:", err)
		}
	}

	if err := a.manager.SignIn(ctx, email, string(password)); err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			fmt.Fprintln(a.out, "Login failed: invalid email or password")
		case errors.Is(err, session.ErrRemoteUnavailable):
			fmt.Fprintln(a.out, "Login failed: server unavailable")
		default:
			fmt.Fprintln(a.out, "Login failed:", err)
		}
		return err
	}

	if s := a.manager.Snapshot().Session; s != nil {
		fmt.Fprintf(a.out, "Welcome, %s\n", s.FullName)
	}
	return nil
}

// LoginBio signs in through the biometric gate using the stored credential
// pair.
func (a *App) LoginBio(ctx context.Context) error {
	if err := a.manager.SignInWithBiometric(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrBiometricUnavailable):
			fmt.Fprintln(a.out, "Biometric sign-in is not available on this device (run 'pin set' first)")
		case errors.Is(err, session.ErrBiometricNotEnabled):
			fmt.Fprintln(a.out, "Biometric sign-in is turned off (run 'biometric on')")
		case errors.Is(err, session.ErrBiometricChallengeFailed):
			fmt.Fprintln(a.out, "Biometric challenge failed")
		case errors.Is(err, session.ErrNoStoredBiometricCredential):
			fmt.Fprintln(a.out, "No stored credentials yet; login with your password once")
		default:
			fmt.Fprintln(a.out, "Biometric sign-in failed:", err)
		}
		return err
	}

	if s := a.manager.Snapshot().Session; s != nil {
		fmt.Fprintf(a.out, "Welcome, %s\n", s.FullName)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.manager.SignOut(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout finished with a warning:", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Register creates a new account. It does not sign the user in; the original
// flow returns to the login form after registration.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	telephone, err := GetSimpleText(a.reader, "Enter telephone", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	_, err = a.users.Register(ctx, api.NewUser{
		Email:     email,
		Password:  string(password),
		FullName:  fullName,
		UserName:  userName,
		Telephone: telephone,
	})
	if err != nil {
		fmt.Fprintln(a.out, "Registration failed:", err)
		return err
	}

	fmt.Fprintln(a.out, "Account created, you can now login")
	return nil
}

// Remember toggles the remember-me convenience: "on" or "off".
func (a *App) Remember(ctx context.Context, mode string) error {
	switch mode {
	case "on":
		if err := a.manager.SetRememberMe(ctx, true); err != nil {
			fmt.Fprintln(a.out, "Failed:", err)
			return err
		}
		fmt.Fprintln(a.out, "Remember-me enabled")
	case "off":
		if err := a.manager.SetRememberMe(ctx, false); err != nil {
			fmt.Fprintln(a.out, "Failed:", err)
			return err
		}
		fmt.Fprintln(a.out, "Remember-me disabled")
	default:
		fmt.Fprintln(a.out, "Usage: remember on|off")
	}
	return nil
}

// Biometric toggles biometric sign-in: "on" runs a fresh ceremony first.
func (a *App) Biometric(ctx context.Context, mode string) error {
	switch mode {
	case "on":
		if err := a.manager.EnableBiometric(ctx); err != nil {
			switch {
			case errors.Is(err, session.ErrBiometricUnavailable):
				fmt.Fprintln(a.out, "Not available on this device (run 'pin set' first)")
			case errors.Is(err, session.ErrBiometricChallengeFailed):
				fmt.Fprintln(a.out, "Challenge failed, biometric sign-in stays off")
			default:
				fmt.Fprintln(a.out, "Failed:", err)
			}
			return err
		}
		fmt.Fprintln(a.out, "Biometric sign-in enabled; your next password login will be remembered for it")
	case "off":
		if err := a.manager.DisableBiometric(ctx); err != nil {
			fmt.Fprintln(a.out, "Failed:", err)
			return err
		}
		fmt.Fprintln(a.out, "Biometric sign-in disabled")
	default:
		fmt.Fprintln(a.out, "Usage: biometric on|off")
	}
	return nil
}

// PinSet enrolls the device PIN backing the biometric gate.
func (a *App) PinSet(ctx context.Context) error {
	pin, err := GetPassword("Choose a device PIN", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Repeat the PIN", a.out)
	if err != nil {
		shared.WipeByteArray(pin)
		return err
	}
	if string(pin) != string(confirm) {
		shared.WipeByteArray(pin)
		shared.WipeByteArray(confirm)
		fmt.Fprintln(a.out, "PINs do not match")
		return nil
	}
	shared.WipeByteArray(confirm)

	if err := a.gate.Enroll(ctx, pin); err != nil {
		fmt.Fprintln(a.out, "Failed to set PIN:", err)
		return err
	}
	fmt.Fprintln(a.out, "Device PIN set")
	return nil
}
