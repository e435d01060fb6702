// /internal/storage/facts.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Fact is a single key/value memory about a user.
type Fact struct {
	Key   string
	Value string
}

// SetFact inserts or overwrites the fact for (userID, key).
func (s *Store) SetFact(ctx context.Context, userID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO facts (user_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, key)
		DO UPDATE SET value = excluded.value, created_at = CURRENT_TIMESTAMP`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("set fact: %w", err)
	}
	return nil
}

// DeleteFact removes one fact. Returns true if a row was deleted.
func (s *Store) DeleteFact(ctx context.Context, userID, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM facts WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return false, fmt.Errorf("delete fact: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ClearFacts removes all facts for a user and returns how many were deleted.
func (s *Store) ClearFacts(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM facts WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear facts: %w", err)
	}
	return res.RowsAffected()
}

// UserFacts returns all facts for a user, most recently updated first.
func (s *Store) UserFacts(ctx context.Context, userID string) ([]Fact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM facts WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("user facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.Key, &f.Value); err != nil {
			return nil, err
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// FactValue returns the value for (userID, key), or "" when absent.
func (s *Store) FactValue(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM facts WHERE user_id = ? AND key = ?`,
		userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fact value: %w", err)
	}
	return value, nil
}
