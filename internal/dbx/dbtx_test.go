package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openSessionDB gives each test an in-memory table shaped like the client's
// secure store keyspace.
func openSessionDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:dbxsessions?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session_items (key TEXT PRIMARY KEY, value BLOB);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM session_items`)
	require.NoError(t, err)
	return db
}

func storedValue(t *testing.T, db *sql.DB, key string) (string, bool) {
	t.Helper()
	var v string
	err := db.QueryRow(`SELECT value FROM session_items WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	require.NoError(t, err)
	return v, true
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := openSessionDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO session_items(key, value) VALUES ('token', 'tok-1')`)
		return err
	})
	require.NoError(t, err)

	v, ok := storedValue(t, db, "token")
	require.True(t, ok, "must commit on success")
	require.Equal(t, "tok-1", v)
}

func TestWithTx_RollbackOnFnError(t *testing.T) {
	db := openSessionDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO session_items(key, value) VALUES ('token', 'tok-1')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.Error(t, err)

	_, ok := storedValue(t, db, "token")
	require.False(t, ok, "must roll back when fn returns an error")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := openSessionDB(t)

	defer func() {
		require.NotNil(t, recover(), "panic must propagate")
		_, ok := storedValue(t, db, "token")
		require.False(t, ok, "must roll back on panic")
	}()

	_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		_, e := tx.ExecContext(ctx, `INSERT INTO session_items(key, value) VALUES ('token', 'tok-1')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_PartialWorkRolledBackTogether(t *testing.T) {
	db := openSessionDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if _, e := tx.ExecContext(ctx, `INSERT INTO session_items(key, value) VALUES ('token', 'tok-1')`); e != nil {
			return e
		}
		if _, e := tx.ExecContext(ctx, `INSERT INTO session_items(key, value) VALUES ('user', '{}')`); e != nil {
			return e
		}
		return errors.New("second write decided to fail the batch")
	})
	require.Error(t, err)

	_, tokenLeft := storedValue(t, db, "token")
	_, userLeft := storedValue(t, db, "user")
	require.False(t, tokenLeft, "no key of the failed batch may remain")
	require.False(t, userLeft, "no key of the failed batch may remain")
}

func TestWithTx_BeginError(t *testing.T) {
	db := openSessionDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return nil
	})
	require.Error(t, err, "begin should fail on a closed DB")
}
