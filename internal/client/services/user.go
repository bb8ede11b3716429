// Package services contains application services for the Grana client: the
// profile operations the shell exposes, layered over the REST client and the
// session manager.
package services

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/grana-app/grana-go/internal/client/api"
	"github.com/grana-app/grana-go/internal/netx"
	"github.com/grana-app/grana-go/internal/shared"
)

// SessionWriter is the slice of the session manager the profile service
// needs: reflecting a profile update into the active session and tearing the
// session down after the account is gone.
type SessionWriter interface {
	UpdateSession(ctx context.Context, u api.UserPayload) error
	SignOut(ctx context.Context) error
}

// UserService defines the account operations for the CLI.
//
// Contract:
//   - Register: create a new account on the server; the password policy is
//     checked locally first.
//   - UpdateProfile: change the mutable profile fields and refresh the
//     active session with the server's response.
//   - ChangePassword: verify the new password against the policy and ask the
//     server to rotate it.
//   - DeleteAccount: remove the account server-side, then sign out locally.
//   - UploadAvatar: push a profile picture through a presigned URL and
//     return the address it can be fetched from.
type UserService interface {
	Register(ctx context.Context, u api.NewUser) (*api.UserPayload, error)
	UpdateProfile(ctx context.Context, u api.UserUpdate) (*api.UserPayload, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	DeleteAccount(ctx context.Context) error
	UploadAvatar(ctx context.Context, path string) (string, error)
}

type userService struct {
	client  api.Client
	session SessionWriter
}

// NewUserService constructs a UserService bound to the API client and the
// session manager.
func NewUserService(client api.Client, session SessionWriter) UserService {
	return &userService{client: client, session: session}
}

func (s *userService) Register(ctx context.Context, u api.NewUser) (*api.UserPayload, error) {
	if err := shared.ValidatePasswordFormat(u.Password); err != nil {
		return nil, err
	}
	created, err := s.client.CreateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return created, nil
}

func (s *userService) UpdateProfile(ctx context.Context, u api.UserUpdate) (*api.UserPayload, error) {
	updated, err := s.client.UpdateUser(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if err := s.session.UpdateSession(ctx, *updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *userService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if err := shared.ValidatePasswordFormat(newPassword); err != nil {
		return err
	}
	if err := s.client.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context) error {
	if err := s.client.DeleteUser(ctx); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return s.session.SignOut(ctx)
}

// UploadAvatar reads the picture from disk, asks the server for a presigned
// upload ticket and PUTs the bytes straight to object storage. The server
// never proxies the payload.
func (s *userService) UploadAvatar(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read avatar file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ticket, err := s.client.AvatarUploadURL(ctx, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to get upload ticket: %w", err)
	}
	if err := netx.UploadToPresignedURL(ctx, ticket.UploadURL, contentType, data); err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return ticket.DownloadURL, nil
}
