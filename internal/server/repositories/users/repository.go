package users

import (
	"context"

	"github.com/grana-app/grana-go/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash, salt []byte) error
	UpdateAvatarKey(ctx context.Context, id string, avatarKey string) error
	Delete(ctx context.Context, id string) error
}
