// Package pg implementa store.Store sobre PostgreSQL usando pgxpool.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/socialite/internal/store"
)

type Store struct{ pool *pgxpool.Pool }

// Config tuning opcional del pool.
type Config struct {
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// New abre un pool contra el DSN indicado y verifica conectividad.
func New(ctx context.Context, dsn string, cfg Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 5
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Pool expone el pool interno para usos avanzados (metrics/migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Migrate aplica los archivos .sql del FS dado, en orden lexicográfico.
// Los statements son idempotentes (IF NOT EXISTS), así que re-ejecutar es
// seguro.
func (s *Store) Migrate(ctx context.Context, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("pg: glob migrations: %w", err)
	}
	for _, name := range files {
		sql, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("pg: read migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("pg: apply migration %s: %w", name, err)
		}
	}
	return nil
}

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

const accountColumns = `
	id, user_id, provider, provider_user_id,
	access_token, refresh_token, expires_at,
	name, email, avatar, nickname, metadata,
	created_at, updated_at`

func scanAccount(row pgx.Row) (*store.SocialAccount, error) {
	var a store.SocialAccount
	var metadata []byte
	err := row.Scan(
		&a.ID, &a.UserID, &a.Provider, &a.ProviderUserID,
		&a.AccessToken, &a.RefreshToken, &a.ExpiresAt,
		&a.Name, &a.Email, &a.Avatar, &a.Nickname, &metadata,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &a.Metadata)
	}
	return &a, nil
}

func (s *Store) Upsert(ctx context.Context, in store.UpsertInput) (*store.SocialAccount, error) {
	metadata, err := json.Marshal(in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("pg: marshal metadata: %w", err)
	}

	query := `
		INSERT INTO social_accounts (
			id, provider, provider_user_id,
			access_token, refresh_token, expires_at,
			name, email, avatar, nickname, metadata,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (provider, provider_user_id) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = CASE WHEN EXCLUDED.refresh_token <> ''
				THEN EXCLUDED.refresh_token ELSE social_accounts.refresh_token END,
			expires_at = EXCLUDED.expires_at,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			avatar = EXCLUDED.avatar,
			nickname = EXCLUDED.nickname,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()
		RETURNING ` + accountColumns

	row := s.pool.QueryRow(ctx, query,
		uuid.NewString(), in.Provider, in.ProviderUserID,
		in.AccessToken, in.RefreshToken, in.ExpiresAt,
		in.Name, in.Email, in.Avatar, in.Nickname, metadata,
	)
	return scanAccount(row)
}

func (s *Store) FindByProvider(ctx context.Context, provider, providerUserID string) (*store.SocialAccount, error) {
	query := `SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE provider = $1 AND provider_user_id = $2`
	return scanAccount(s.pool.QueryRow(ctx, query, provider, providerUserID))
}

func (s *Store) FindByUserID(ctx context.Context, userID string) ([]store.SocialAccount, error) {
	query := `SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []store.SocialAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func (s *Store) Link(ctx context.Context, accountID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE social_accounts SET user_id = $2, updated_at = NOW() WHERE id = $1`,
		accountID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateTokens(ctx context.Context, accountID, accessToken, refreshToken string, expiresAt *time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE social_accounts
		SET access_token = $2,
			refresh_token = CASE WHEN $3 <> '' THEN $3 ELSE refresh_token END,
			expires_at = $4,
			updated_at = NOW()
		WHERE id = $1`,
		accountID, accessToken, refreshToken, expiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Store = (*Store)(nil)
