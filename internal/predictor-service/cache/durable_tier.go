package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DurableTier guarda o cache na tabela api_cache_v2 (key, value jsonb, expires_at)
// A expiração é conferida na leitura; linhas vencidas só somem com o janitor
type DurableTier struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewDurableTier(db *sql.DB) *DurableTier {
	return &DurableTier{DB: db, Now: time.Now}
}

func (d *DurableTier) Name() string    { return "postgres" }
func (d *DurableTier) Available() bool { return d.DB != nil }

func (d *DurableTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value, expires_at FROM api_cache_v2 WHERE key = $1`

	var (
		value     []byte
		expiresAt sql.NullTime
	)
	err := d.DB.QueryRowContext(ctx, q, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if expiresAt.Valid && !expiresAt.Time.After(d.Now()) {
		return nil, false, nil
	}
	return value, true, nil
}

func (d *DurableTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	const q = `
		INSERT INTO api_cache_v2 (key, value, expires_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key) DO UPDATE SET
		  value      = EXCLUDED.value,
		  expires_at = EXCLUDED.expires_at
	`
	// jsonb precisa ir como texto; []byte o lib/pq manda como bytea
	_, err := d.DB.ExecContext(ctx, q, key, string(value), d.Now().Add(ttl).UTC())
	return err
}

// Purge remove linhas vencidas e devolve quantas saíram
func (d *DurableTier) Purge(ctx context.Context) (int64, error) {
	const q = `DELETE FROM api_cache_v2 WHERE expires_at IS NOT NULL AND expires_at <= $1`
	res, err := d.DB.ExecContext(ctx, q, d.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
