package services

import (
	"context"
	"database/sql"

	"github.com/grana-app/grana-go/internal/server/models"
	"github.com/grana-app/grana-go/internal/server/repositories/repomanager"
)

// PerfilService resolves perfils and their permission sets.
type PerfilService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPerfilService(db *sql.DB, m repomanager.RepositoryManager) *PerfilService {
	return &PerfilService{db: db, repomanager: m}
}

// Find returns the perfil identified by id, permissions included.
func (s *PerfilService) Find(ctx context.Context, id string) (*models.Perfil, error) {
	return s.repomanager.Perfils(s.db).GetByID(ctx, id)
}
