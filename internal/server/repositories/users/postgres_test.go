package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/grana-app/grana-go/internal/server/models"
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

const selectCols = `id,\s*email,\s*full_name,\s*username,\s*telephone,\s*perfil_id,\s*password_hash,\s*salt,\s*avatar_key,\s*created_at`

func userRows(created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "full_name", "username", "telephone",
		"perfil_id", "password_hash", "salt", "avatar_key", "created_at"}).
		AddRow("u-1", "alice@example.com", "Alice A", "alice", "+100", "perfil-basic",
			[]byte("hash"), []byte("salt"), "", created)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,.*\)\s*VALUES\s*\(\$1,.*\$8\)\s*RETURNING\s+created_at\s*$`

	created := time.Now()
	rows := sqlmock.NewRows([]string{"created_at"}).AddRow(created)
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "alice@example.com", "Alice A", "alice", "+100", "perfil-basic", []byte("hash"), []byte("salt")).
		WillReturnRows(rows)

	u := &models.User{Email: "alice@example.com", FullName: "Alice A", UserName: "alice",
		Telephone: "+100", PerfilID: "perfil-basic", PasswordHash: []byte("hash"), Salt: []byte("salt")}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected generated id")
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", got.CreatedAt)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	if !errors.Is(err, shared.ErrorEmailAlreadyExists) {
		t.Fatalf("expected ErrorEmailAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Email: "alice@example.com"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+` + selectCols + `\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("alice@example.com").
		WillReturnRows(userRows(time.Now()))

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.UserName != "alice" || got.PerfilID != "perfil-basic" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+` + selectCols + `\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+` + selectCols + `\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(userRows(time.Now()))

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+full_name\s*=\s*\$2,\s*username\s*=\s*\$3,\s*telephone\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+`

	mock.ExpectQuery(q).
		WithArgs("u-1", "Alice A", "alice", "+100").
		WillReturnRows(userRows(time.Now()))

	got, err := repo.UpdateProfile(context.Background(), &models.User{
		ID: "u-1", FullName: "Alice A", UserName: "alice", Telephone: "+100"})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUpdatePassword_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+users\s+SET\s+password_hash`).
		WithArgs("ghost", []byte("hash"), []byte("salt")).
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdatePassword(context.Background(), "ghost", []byte("hash"), []byte("salt"))
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestUpdateAvatarKey_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^UPDATE\s+users\s+SET\s+avatar_key\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("u-1", "avatars/abc").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	if err := repo.UpdateAvatarKey(context.Background(), "u-1", "avatars/abc"); err != nil {
		t.Fatalf("UpdateAvatarKey error: %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id\s*$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

	if err := repo.Delete(context.Background(), "u-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+users`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, shared.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
