// /internal/storage/relationships.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Relationship describes how close the bot is to a user.
type Relationship struct {
	UserID          string
	Level           int
	Interactions    int
	LastInteraction time.Time
}

// BumpRelationship records one interaction with a user. The increment and
// the level recomputation happen in a single UPSERT so concurrent handlers
// never lose counts.
func (s *Store) BumpRelationship(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relationships (user_id, interactions, level)
		VALUES (?, 1, 0)
		ON CONFLICT(user_id)
		DO UPDATE SET
			interactions = interactions + 1,
			level = CASE
				WHEN interactions + 1 >= 4000 THEN 10
				WHEN interactions + 1 >= 3200 THEN 9
				WHEN interactions + 1 >= 2400 THEN 8
				WHEN interactions + 1 >= 1600 THEN 7
				WHEN interactions + 1 >= 1000 THEN 6
				WHEN interactions + 1 >= 600 THEN 5
				WHEN interactions + 1 >= 300 THEN 4
				WHEN interactions + 1 >= 100 THEN 3
				WHEN interactions + 1 >= 30 THEN 2
				WHEN interactions + 1 >= 5 THEN 1
				ELSE 0
			END,
			last_interaction = CURRENT_TIMESTAMP`,
		userID)
	if err != nil {
		return fmt.Errorf("bump relationship: %w", err)
	}
	return nil
}

// Relationship returns (level, interactions) for a user. Unknown users get
// (0, 0) without creating a row.
func (s *Store) Relationship(ctx context.Context, userID string) (level, interactions int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT level, interactions FROM relationships WHERE user_id = ?`,
		userID).Scan(&level, &interactions)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get relationship: %w", err)
	}
	return level, interactions, nil
}

// SetRelationshipLevel is the admin override. Level must be 0..10.
func (s *Store) SetRelationshipLevel(ctx context.Context, userID string, level int) error {
	if level < 0 || level > 10 {
		return fmt.Errorf("relationship level must be 0..10, got %d", level)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO relationships (user_id, level)
		VALUES (?, ?)
		ON CONFLICT(user_id)
		DO UPDATE SET level = excluded.level`,
		userID, level)
	if err != nil {
		return fmt.Errorf("set relationship level: %w", err)
	}
	return nil
}

// TopRelationships returns the closest users ordered by level then
// interaction count.
func (s *Store) TopRelationships(ctx context.Context, limit int) ([]Relationship, error) {
	if limit <= 0 {
		limit = 11
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, level, interactions
		FROM relationships
		ORDER BY level DESC, interactions DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("top relationships: %w", err)
	}
	defer rows.Close()

	var out []Relationship
	for rows.Next() {
		var r Relationship
		if err := rows.Scan(&r.UserID, &r.Level, &r.Interactions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastInteraction returns when the user last interacted, or zero time when
// the user is unknown.
func (s *Store) LastInteraction(ctx context.Context, userID string) (time.Time, error) {
	var ts string
	err := s.db.QueryRowContext(ctx,
		`SELECT last_interaction FROM relationships WHERE user_id = ?`,
		userID).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last interaction: %w", err)
	}
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}
