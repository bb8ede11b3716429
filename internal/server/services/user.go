// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, profile
// maintenance, and issuing JWT access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/grana-app/grana-go/internal/cryptox"
	"github.com/grana-app/grana-go/internal/dbx"
	"github.com/grana-app/grana-go/internal/server/auth"
	"github.com/grana-app/grana-go/internal/server/config"
	"github.com/grana-app/grana-go/internal/server/models"
	"github.com/grana-app/grana-go/internal/server/repositories/repomanager"
	"github.com/grana-app/grana-go/internal/shared"
)

const saltLength = 16

// defaultPerfilName is assigned to every newly registered user.
const defaultPerfilName = "basic"

// UserService provides account operations:
// - Register: create users with a hashed password and the default perfil
// - Login: verify credentials and mint an access token
// - UpdateProfile / ChangePassword / Delete: account maintenance
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user. The password must satisfy the shared policy;
// it is stored as an argon2id hash with a per-user random salt. Duplicate
// emails yield shared.ErrorEmailAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, fullName, userName, telephone string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrorValidation)
	}
	if err := shared.ValidatePasswordFormat(password); err != nil {
		return nil, err
	}

	perfil, err := s.repomanager.Perfils(s.db).GetByName(ctx, defaultPerfilName)
	if err != nil {
		return nil, fmt.Errorf("error resolving default perfil: %w", err)
	}

	salt := shared.GenerateRandByteArray(saltLength)
	user := &models.User{
		Email:        email,
		FullName:     fullName,
		UserName:     userName,
		Telephone:    telephone,
		PerfilID:     perfil.ID,
		PasswordHash: cryptox.DeriveKey([]byte(password), salt),
		Salt:         salt,
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrorEmailAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Login verifies the email/password pair and, on success, returns a fresh
// access token together with the user. Unknown emails and bad passwords are
// indistinguishable to the caller: both yield shared.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return "", nil, shared.ErrorUnauthorized
		}
		return "", nil, shared.ErrorInternal
	}

	if !cryptox.VerifyKey(user.PasswordHash, cryptox.DeriveKey([]byte(password), user.Salt)) {
		return "", nil, shared.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, shared.ErrorInternal
	}

	return token, user, nil
}

// Get returns the user identified by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// UpdateProfile replaces the user's mutable profile fields and returns the
// updated record.
func (s *UserService) UpdateProfile(ctx context.Context, id, fullName, userName, telephone string) (*models.User, error) {
	user := &models.User{ID: id, FullName: fullName, UserName: userName, Telephone: telephone}
	updated, err := s.repomanager.Users(s.db).UpdateProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangePassword verifies the current password and stores a fresh hash of the
// new one, rotating the salt. A wrong current password yields
// shared.ErrorUnauthorized; a weak new one yields the policy error.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if err := shared.ValidatePasswordFormat(newPassword); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !cryptox.VerifyKey(user.PasswordHash, cryptox.DeriveKey([]byte(oldPassword), user.Salt)) {
			return shared.ErrorUnauthorized
		}

		salt := shared.GenerateRandByteArray(saltLength)
		return repo.UpdatePassword(ctx, id, cryptox.DeriveKey([]byte(newPassword), salt), salt)
	})
}

// SetAvatarKey records the object-storage key of the user's uploaded avatar.
func (s *UserService) SetAvatarKey(ctx context.Context, id, avatarKey string) error {
	return s.repomanager.Users(s.db).UpdateAvatarKey(ctx, id, avatarKey)
}

// Delete permanently removes the user's account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repomanager.Users(s.db).Delete(ctx, id)
}
