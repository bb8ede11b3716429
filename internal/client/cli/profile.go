package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/grana-app/grana-go/internal/client/api"
	"github.com/grana-app/grana-go/internal/shared"
)

// Whoami prints the active session and its convenience flags.
func (a *App) Whoami(ctx context.Context) error {
	snap := a.manager.Snapshot()
	if snap.Session == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	s := snap.Session
	fmt.Fprintf(a.out, "Email:      %s\n", s.Email)
	fmt.Fprintf(a.out, "Full name:  %s\n", s.FullName)
	fmt.Fprintf(a.out, "User name:  %s\n", s.UserName)
	fmt.Fprintf(a.out, "Telephone:  %s\n", s.Telephone)
	fmt.Fprintf(a.out, "Perfil:     %s\n", s.PerfilID)
	fmt.Fprintf(a.out, "Biometric:  %v\n", snap.BiometricEnabled)
	fmt.Fprintf(a.out, "Remember:   %v\n", snap.RememberMe)
	return nil
}

// Profile edits the mutable profile fields. Pressing Enter keeps the current
// value.
func (a *App) Profile(ctx context.Context) error {
	snap := a.manager.Snapshot()
	if snap.Session == nil {
		fmt.Fprintln(a.out, "Login first")
		return nil
	}
	s := snap.Session

	fullName, err := GetSimpleText(a.reader, fmt.Sprintf("Full name [%s]", s.FullName), a.out)
	if err != nil {
		return err
	}
	if fullName == "" {
		fullName = s.FullName
	}
	userName, err := GetSimpleText(a.reader, fmt.Sprintf("User name [%s]", s.UserName), a.out)
	if err != nil {
		return err
	}
	if userName == "" {
		userName = s.UserName
	}
	telephone, err := GetSimpleText(a.reader, fmt.Sprintf("Telephone [%s]", s.Telephone), a.out)
	if err != nil {
		return err
	}
	if telephone == "" {
		telephone = s.Telephone
	}

	updated, err := a.users.UpdateProfile(ctx, api.UserUpdate{
		FullName:  fullName,
		UserName:  userName,
		Telephone: telephone,
	})
	if err != nil {
		fmt.Fprintln(a.out, "Update failed:", err)
		return err
	}
	fmt.Fprintf(a.out, "Profile updated: %s\n", updated.FullName)
	return nil
}

// Passwd rotates the account password.
func (a *App) Passwd(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first")
		return nil
	}

	oldPassword, err := GetPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(oldPassword)

	newPassword, err := GetPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(newPassword)

	if err := a.users.ChangePassword(ctx, string(oldPassword), string(newPassword)); err != nil {
		fmt.Fprintln(a.out, "Password change failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// Perfil resolves the session's perfil into its name and permissions.
func (a *App) Perfil(ctx context.Context) error {
	snap := a.manager.Snapshot()
	if snap.Session == nil {
		fmt.Fprintln(a.out, "Login first")
		return nil
	}

	perfil, err := a.perfils.Find(ctx, snap.Session.PerfilID)
	if err != nil {
		fmt.Fprintln(a.out, "Lookup failed:", err)
		return err
	}
	fmt.Fprintf(a.out, "Perfil: %s\n", perfil.Name)
	fmt.Fprintf(a.out, "Permissions: %s\n", strings.Join(perfil.Permissions, ", "))
	return nil
}

// Avatar uploads a profile picture through a presigned URL.
func (a *App) Avatar(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first")
		return nil
	}

	url, err := a.users.UploadAvatar(ctx, path)
	if err != nil {
		fmt.Fprintln(a.out, "Upload failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Avatar uploaded:", url)
	return nil
}

// DeleteAccount removes the account after an explicit confirmation and signs
// out.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Login first")
		return nil
	}

	answer, err := GetSimpleText(a.reader, "This permanently deletes your account. Type DELETE to confirm", a.out)
	if err != nil {
		return err
	}
	if answer != "DELETE" {
		fmt.Fprintln(a.out, "Aborted")
		return nil
	}

	if err := a.users.DeleteAccount(ctx); err != nil {
		fmt.Fprintln(a.out, "Delete failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
