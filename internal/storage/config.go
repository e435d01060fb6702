// /internal/storage/config.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetConfig returns a bot_config value, or def when the key is absent.
func (s *Store) GetConfig(ctx context.Context, key, def string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM bot_config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, nil
}

// SetConfig inserts or overwrites a bot_config entry.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bot_config (key, value)
		VALUES (?, ?)
		ON CONFLICT(key)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

// ResetConfig restores all default bot_config entries. Facts, relationships
// and history are untouched.
func (s *Store) ResetConfig(ctx context.Context) error {
	for key, value := range DefaultConfigs {
		if err := s.SetConfig(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Personality returns the global persona text (row id=1).
func (s *Store) Personality(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM personality WHERE id = 1`).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPersonality, nil
	}
	if err != nil {
		return "", fmt.Errorf("get personality: %w", err)
	}
	return text, nil
}

// SetPersonality overwrites the global persona text.
func (s *Store) SetPersonality(ctx context.Context, text string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE personality SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		text)
	if err != nil {
		return fmt.Errorf("set personality: %w", err)
	}
	return nil
}
