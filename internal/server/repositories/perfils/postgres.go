package perfils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/grana-app/grana-go/internal/dbx"
	"github.com/grana-app/grana-go/internal/server/models"
	"github.com/grana-app/grana-go/internal/shared"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Perfil, error) {
	query :=
		`SELECT id, name FROM perfils
		 WHERE id = $1
		 `
	return r.getOne(ctx, r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Perfil, error) {
	query :=
		`SELECT id, name FROM perfils
		 WHERE name = $1
		 `
	return r.getOne(ctx, r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresRepository) getOne(ctx context.Context, row *sql.Row) (*models.Perfil, error) {
	perfil := &models.Perfil{}
	err := row.Scan(&perfil.ID, &perfil.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	permissions, err := r.getPermissions(ctx, perfil.ID)
	if err != nil {
		return nil, err
	}
	perfil.Permissions = permissions

	return perfil, nil
}

func (r *PostgresRepository) getPermissions(ctx context.Context, perfilID string) ([]string, error) {
	query :=
		`SELECT permission FROM perfil_permissions
		 WHERE perfil_id = $1
		 ORDER BY permission
		 `

	rows, err := r.db.QueryContext(ctx, query, perfilID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		permissions = append(permissions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return permissions, nil
}
