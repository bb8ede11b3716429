package securestore

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func setupStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE secure_items (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  nonce BLOB NOT NULL
);
`)
	require.NoError(t, err)

	store, err := NewSQLiteStore(db, testKey())
	require.NoError(t, err)
	return store, db
}

func TestNewSQLiteStore_RejectsBadKey(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = NewSQLiteStore(db, []byte("short"))
	require.Error(t, err)
}

func TestGet_MissingKeyReturnsNil(t *testing.T) {
	store, _ := setupStore(t)

	v, err := store.Get(context.Background(), KeyToken)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSetGetDelete_RoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyToken, []byte("tok-123")))

	v, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok-123"), v)

	// overwrite
	require.NoError(t, store.Set(ctx, KeyToken, []byte("tok-456")))
	v, err = store.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok-456"), v)

	require.NoError(t, store.Delete(ctx, KeyToken))
	v, err = store.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestValuesAreEncryptedAtRest(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	secret := []byte("hunter2-password")
	require.NoError(t, store.Set(ctx, KeyBiometricPassword, secret))

	var raw []byte
	err := db.QueryRow(`SELECT value FROM secure_items WHERE key=?`, KeyBiometricPassword).Scan(&raw)
	require.NoError(t, err)
	require.NotEqual(t, secret, raw)
	require.NotContains(t, string(raw), "hunter2")
}

func TestGet_WrongDeviceKeyFails(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyUser, []byte(`{"email":"a@b.com"}`)))

	otherKey := testKey()
	otherKey[0] ^= 0xff
	other, err := NewSQLiteStore(db, otherKey)
	require.NoError(t, err)

	_, err = other.Get(ctx, KeyUser)
	require.Error(t, err)
}

func TestApply_SetsAndDeletesAtomically(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyRememberMeEmail, []byte("old@b.com")))

	err := store.Apply(ctx,
		map[string][]byte{
			KeyToken: []byte("tok"),
			KeyUser:  []byte(`{}`),
		},
		[]string{KeyRememberMeEmail},
	)
	require.NoError(t, err)

	v, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok"), v)

	v, err = store.Get(ctx, KeyRememberMeEmail)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestApply_FailureIsReported(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	_, err := db.Exec(`DROP TABLE secure_items`)
	require.NoError(t, err)

	err = store.Apply(ctx, map[string][]byte{KeyToken: []byte("after")}, nil)
	require.Error(t, err)
}

func TestClear_RemovesEverything(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyToken, []byte("t")))
	require.NoError(t, store.Set(ctx, KeyUser, []byte("u")))

	require.NoError(t, store.Clear(ctx))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM secure_items`).Scan(&n))
	require.Equal(t, 0, n)
}
