package highscore_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/plus3/metris/highscore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store highscore.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`[]`)))
	table := highscore.Open(ctx, store, highscore.Options{})
	require.NoError(t, table.Clear(ctx))

	_, err := table.Add(ctx, "Linus", 300)
	require.NoError(t, err)
	_, err = table.Add(ctx, "Ken", 900)
	require.NoError(t, err)

	reopened := highscore.Open(ctx, store, highscore.Options{})
	entries := reopened.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Ken", entries[0].Name)
	assert.Equal(t, 300, entries[1].Score)
}

func testKey() string {
	return "metris_test_" + time.Now().UTC().Format("20060102150405.000000000")
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("METRIS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("METRIS_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := highscore.DialRedis(ctx, addr, os.Getenv("METRIS_TEST_REDIS_PASSWORD"), testKey())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("METRIS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("METRIS_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := highscore.OpenPostgres(ctx, url, testKey())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestRedisStoreInMemoryServer(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	store, err := highscore.DialRedis(ctx, srv.Addr(), "", "scores")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, highscore.ErrNotFound)

	exerciseStore(t, store)

	raw, err := srv.Get("scores")
	require.NoError(t, err)
	var saved []highscore.Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "Ken", saved[0].Name)
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := highscore.NewRedisStore(client, "")
	defer store.Close()

	require.NoError(t, srv.Set(highscore.DefaultKey, `[]`))
	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), data, "empty key falls back to the default key")

	srv.SetError("ERR backend unavailable")
	_, err = store.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, highscore.ErrNotFound)
	assert.Error(t, store.Save(ctx, []byte(`[]`)))
	srv.SetError("")

	srv.Close()
	_, err = highscore.DialRedis(ctx, srv.Addr(), "", "scores")
	assert.Error(t, err)
}

const (
	selectQuery = `SELECT payload FROM highscores WHERE key = \$1`
	upsertQuery = `INSERT INTO highscores \(key, payload, updated_at\) VALUES \(\$1, \$2, now\(\)\) ON CONFLICT \(key\) DO UPDATE`
	createQuery = `CREATE TABLE IF NOT EXISTS highscores`
)

func newMockPostgres(t *testing.T) (*highscore.PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(createQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	store, err := highscore.NewPostgresStore(context.Background(), db, "scores")
	require.NoError(t, err)
	return store, mock
}

func TestPostgresStoreMissingRow(t *testing.T) {
	store, mock := newMockPostgres(t)

	mock.ExpectQuery(selectQuery).
		WithArgs("scores").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, highscore.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpsertAndLoad(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockPostgres(t)
	payload := `[{"name":"Ken","score":900,"date":"2024-01-02T00:00:00Z"}]`

	mock.ExpectExec(upsertQuery).
		WithArgs("scores", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectQuery).
		WithArgs("scores").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))
	mock.ExpectClose()

	require.NoError(t, store.Save(ctx, []byte(payload)))
	data, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))

	entries, err := highscore.Decode(data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 900, entries[0].Score)

	require.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreErrors(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockPostgres(t)
	down := errors.New("connection reset")

	mock.ExpectQuery(selectQuery).WithArgs("scores").WillReturnError(down)
	mock.ExpectExec(upsertQuery).WithArgs("scores", `[]`).WillReturnError(down)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, down)
	assert.NotErrorIs(t, err, highscore.ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, []byte(`[]`)), down)
	assert.NoError(t, mock.ExpectationsWereMet())

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectExec(createQuery).WillReturnError(down)
	_, err = highscore.NewPostgresStore(ctx, db, "")
	assert.ErrorIs(t, err, down)
}
