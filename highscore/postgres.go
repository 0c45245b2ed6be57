package highscore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS highscores (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the list as one row of the highscores table.
type PostgresStore struct {
	db  *sql.DB
	key string
}

// OpenPostgres connects with a lib/pq connection string and creates the
// table if needed.
func OpenPostgres(ctx context.Context, connStr, key string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	store, err := NewPostgresStore(ctx, db, key)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore uses an existing handle and migrates the schema.
func NewPostgresStore(ctx context.Context, db *sql.DB, key string) (*PostgresStore, error) {
	if key == "" {
		key = DefaultKey
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create highscores table: %w", err)
	}
	return &PostgresStore{db: db, key: key}, nil
}

func (p *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := p.db.QueryRowContext(ctx,
		`SELECT payload FROM highscores WHERE key = $1`, p.key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query highscores: %w", err)
	}
	return []byte(payload), nil
}

func (p *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO highscores (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		p.key, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert highscores: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
