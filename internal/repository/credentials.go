package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Credentials is the persistent key-value store for per-chat auth material.
// It holds opaque strings only; all auth logic lives in the service layer.
type Credentials struct {
	db *pgxpool.Pool
}

func NewCredentials(db *pgxpool.Pool) *Credentials {
	return &Credentials{db: db}
}

// Get returns the stored value for key, or "" when the key is absent.
func (c *Credentials) Get(ctx context.Context, chatID int64, key string) (string, error) {
	var value string
	err := c.db.QueryRow(ctx,
		`SELECT value FROM credentials WHERE chat_id = $1 AND key = $2`,
		chatID, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}
	return value, nil
}

func (c *Credentials) Set(ctx context.Context, chatID int64, key, value string) error {
	_, err := c.db.Exec(ctx,
		`INSERT INTO credentials (chat_id, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (chat_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		chatID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}

// SetAll writes every pair in one transaction, so a session is persisted
// both-or-neither.
func (c *Credentials) SetAll(ctx context.Context, chatID int64, values map[string]string) error {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for key, value := range values {
		if _, err := tx.Exec(ctx,
			`INSERT INTO credentials (chat_id, key, value) VALUES ($1, $2, $3)
			 ON CONFLICT (chat_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			chatID, key, value,
		); err != nil {
			return fmt.Errorf("set credential %q: %w", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Remove deletes the given keys. Removing an absent key is not an error.
func (c *Credentials) Remove(ctx context.Context, chatID int64, keys ...string) error {
	_, err := c.db.Exec(ctx,
		`DELETE FROM credentials WHERE chat_id = $1 AND key = ANY($2)`,
		chatID, keys,
	)
	if err != nil {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
