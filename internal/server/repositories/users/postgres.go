package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/grana-app/grana-go/internal/dbx"
	"github.com/grana-app/grana-go/internal/server/models"
	"github.com/grana-app/grana-go/internal/shared"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, email, full_name, username, telephone, perfil_id, password_hash, salt)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.FullName, user.UserName, user.Telephone,
		user.PerfilID, user.PasswordHash, user.Salt).Scan(&user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, shared.ErrorEmailAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, full_name, username, telephone, perfil_id, password_hash, salt, avatar_key, created_at
		 FROM users
		 WHERE email = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, full_name, username, telephone, perfil_id, password_hash, salt, avatar_key, created_at
		 FROM users
		 WHERE id = $1
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users SET full_name = $2, username = $3, telephone = $4
		 WHERE id = $1
		 RETURNING id, email, full_name, username, telephone, perfil_id, password_hash, salt, avatar_key, created_at
		 `
	return r.scanOne(r.db.QueryRowContext(ctx, query,
		user.ID, user.FullName, user.UserName, user.Telephone))
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash, salt []byte) error {
	query :=
		`UPDATE users SET password_hash = $2, salt = $3
		 WHERE id = $1
		 RETURNING id
		 `

	var updatedID string
	err := r.db.QueryRowContext(ctx, query, id, passwordHash, salt).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shared.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateAvatarKey(ctx context.Context, id string, avatarKey string) error {
	query :=
		`UPDATE users SET avatar_key = $2
		 WHERE id = $1
		 RETURNING id
		 `

	var updatedID string
	err := r.db.QueryRowContext(ctx, query, id, avatarKey).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shared.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM users
		 WHERE id = $1
		 RETURNING id
		 `

	var deletedID string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shared.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.UserName, &user.Telephone,
		&user.PerfilID, &user.PasswordHash, &user.Salt, &user.AvatarKey, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
