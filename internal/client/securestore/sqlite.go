package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/grana-app/grana-go/internal/cryptox"
	"github.com/grana-app/grana-go/internal/dbx"
)

// SQLiteStore implements Store on top of a sqlite database. Values are sealed
// with AES-256-GCM under the device key before they touch disk; the per-value
// nonce is stored alongside the ciphertext.
type SQLiteStore struct {
	db  *sql.DB
	key []byte
}

// NewSQLiteStore wraps db with the given 32-byte device key.
func NewSQLiteStore(db *sql.DB, key []byte) (*SQLiteStore, error) {
	if len(key) != 32 {
		return nil, errors.New("device key must be 32 bytes")
	}
	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value, nonce []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value, nonce FROM secure_items WHERE key = ?`, key).Scan(&value, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secure item [%s]: %w", key, err)
	}

	plaintext, err := cryptox.Open(value, nonce, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secure item [%s]: %w", key, err)
	}
	return plaintext, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return s.set(ctx, s.db, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.delete(ctx, s.db, key)
}

// Apply runs all sets and deletes inside a single transaction so a failed
// write never leaves the record half-updated.
func (s *SQLiteStore) Apply(ctx context.Context, set map[string][]byte, del []string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for key, value := range set {
			if err := s.set(ctx, tx, key, value); err != nil {
				return err
			}
		}
		for _, key := range del {
			if err := s.delete(ctx, tx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secure_items`); err != nil {
		return fmt.Errorf("failed to clear secure store: %w", err)
	}
	return nil
}

func (s *SQLiteStore) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	ciphertext, nonce, err := cryptox.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secure item [%s]: %w", key, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO secure_items (key, value, nonce) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, nonce = excluded.nonce
	`, key, ciphertext, nonce)
	if err != nil {
		return fmt.Errorf("failed to set secure item [%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) delete(ctx context.Context, db dbx.DBTX, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM secure_items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete secure item [%s]: %w", key, err)
	}
	return nil
}
