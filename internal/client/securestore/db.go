package securestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grana-app/grana-go/internal/client/migrations"
	"github.com/grana-app/grana-go/internal/filex"
	"github.com/grana-app/grana-go/internal/shared"
	"github.com/pressly/goose/v3"
)

const (
	dbFileName  = "grana.db"
	keyFileName = "device.key"
)

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open initializes the secure store in dir: creates the directory and the
// device key file on first use, opens the sqlite database, and applies
// migrations. The caller owns closing the returned *sql.DB.
func Open(ctx context.Context, dir string) (*SQLiteStore, *sql.DB, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, nil, err
	}

	key, err := loadOrCreateDeviceKey(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	store, err := NewSQLiteStore(db, key)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// loadOrCreateDeviceKey reads the 32-byte device key from path, generating
// and persisting a fresh one (0600) if the file does not exist yet.
func loadOrCreateDeviceKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != 32 {
			return nil, fmt.Errorf("device key file %s is corrupt", path)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read device key: %w", err)
	}

	key = shared.GenerateRandByteArray(32)
	if err := filex.WriteSecretFile(path, key); err != nil {
		return nil, fmt.Errorf("failed to write device key: %w", err)
	}
	return key, nil
}
