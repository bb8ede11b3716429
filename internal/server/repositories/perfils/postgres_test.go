package perfils

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/grana-app/grana-go/internal/shared"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+perfils\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("perfil-premium").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("perfil-premium", "premium"))

	mock.ExpectQuery(`(?s)^SELECT\s+permission\s+FROM\s+perfil_permissions\s+WHERE\s+perfil_id\s*=\s*\$1`).
		WithArgs("perfil-premium").
		WillReturnRows(sqlmock.NewRows([]string{"permission"}).AddRow("backup").AddRow("reports"))

	got, err := repo.GetByID(context.Background(), "perfil-premium")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Name != "premium" {
		t.Fatalf("unexpected perfil: %+v", got)
	}
	if len(got.Permissions) != 2 || got.Permissions[0] != "backup" || got.Permissions[1] != "reports" {
		t.Fatalf("unexpected permissions: %v", got.Permissions)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+perfils\s+WHERE\s+id\s*=\s*\$1\s*$`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByName_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+perfils\s+WHERE\s+name\s*=\s*\$1\s*$`).
		WithArgs("basic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("perfil-basic", "basic"))

	mock.ExpectQuery(`(?s)^SELECT\s+permission\s+FROM\s+perfil_permissions`).
		WithArgs("perfil-basic").
		WillReturnRows(sqlmock.NewRows([]string{"permission"}).AddRow("reports"))

	got, err := repo.GetByName(context.Background(), "basic")
	if err != nil {
		t.Fatalf("GetByName error: %v", err)
	}
	if got.ID != "perfil-basic" || len(got.Permissions) != 1 {
		t.Fatalf("unexpected perfil: %+v", got)
	}
}

func TestGetByID_PermissionsQueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*name\s+FROM\s+perfils`).
		WithArgs("perfil-basic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("perfil-basic", "basic"))

	mock.ExpectQuery(`(?s)^SELECT\s+permission\s+FROM\s+perfil_permissions`).
		WithArgs("perfil-basic").
		WillReturnError(errors.New("db down"))

	_, err := repo.GetByID(context.Background(), "perfil-basic")
	if err == nil {
		t.Fatal("expected error")
	}
}
