package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/grana-app/grana-go/internal/client/api"
)

// PerfilService resolves a perfil (role) into its permission set. The shell
// uses it to decide which commands the signed-in account may run.
type PerfilService interface {
	Find(ctx context.Context, id string) (*api.Perfil, error)
	HasPermission(ctx context.Context, id string, permission string) (bool, error)
}

type perfilService struct {
	client api.Client
}

func NewPerfilService(client api.Client) PerfilService {
	return &perfilService{client: client}
}

func (s *perfilService) Find(ctx context.Context, id string) (*api.Perfil, error) {
	perfil, err := s.client.FindPerfil(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find perfil: %w", err)
	}
	return perfil, nil
}

func (s *perfilService) HasPermission(ctx context.Context, id string, permission string) (bool, error) {
	perfil, err := s.Find(ctx, id)
	if err != nil {
		return false, err
	}
	return slices.Contains(perfil.Permissions, permission), nil
}
