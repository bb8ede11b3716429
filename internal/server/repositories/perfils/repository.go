package perfils

import (
	"context"

	"github.com/grana-app/grana-go/internal/server/models"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*models.Perfil, error)
	GetByName(ctx context.Context, name string) (*models.Perfil, error)
}
