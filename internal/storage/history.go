// /internal/storage/history.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Interaction is one audit record of a handled message.
type Interaction struct {
	ID             string
	UserID         string
	ChannelID      string
	ServerID       string
	MessageContent string
	BotResponse    string
	Timestamp      string
}

// LogInteraction appends one record to the audit trail.
func (s *Store) LogInteraction(ctx context.Context, userID, channelID, serverID, message, response string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO interaction_history (id, user_id, channel_id, server_id, message_content, bot_response)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.newID(), userID, channelID, serverID, message, response)
	if err != nil {
		return fmt.Errorf("log interaction: %w", err)
	}
	return nil
}

// RecentHistory returns the newest interactions, optionally filtered by user
// or channel ID.
func (s *Store) RecentHistory(ctx context.Context, userID, channelID string, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, user_id, channel_id, server_id, message_content, bot_response, timestamp
		FROM interaction_history`
	args := []any{}
	switch {
	case channelID != "":
		query += ` WHERE channel_id = ?`
		args = append(args, channelID)
	case userID != "":
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var it Interaction
		var serverID sql.NullString
		if err := rows.Scan(&it.ID, &it.UserID, &it.ChannelID, &serverID,
			&it.MessageContent, &it.BotResponse, &it.Timestamp); err != nil {
			return nil, err
		}
		it.ServerID = serverID.String
		out = append(out, it)
	}
	return out, rows.Err()
}

// UserInteractionCount returns how many audit records exist for a user.
func (s *Store) UserInteractionCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interaction_history WHERE user_id = ?`,
		userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("user interaction count: %w", err)
	}
	return n, nil
}

// IncrementDailyMessages bumps the sent-message counter for the given date
// (formatted 2006-01-02).
func (s *Store) IncrementDailyMessages(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stats (date, messages_sent)
		VALUES (?, 1)
		ON CONFLICT(date)
		DO UPDATE SET messages_sent = messages_sent + 1`,
		date)
	if err != nil {
		return fmt.Errorf("increment daily messages: %w", err)
	}
	return nil
}

// MessagesOnDate returns the counter for one date, 0 when absent.
func (s *Store) MessagesOnDate(ctx context.Context, date string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT messages_sent FROM stats WHERE date = ?`, date).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("messages on date: %w", err)
	}
	return n, nil
}

// DayStat is one day of the activity report.
type DayStat struct {
	Date     string
	Messages int
}

// RecentActivity returns per-day counters, newest first.
func (s *Store) RecentActivity(ctx context.Context, days int) ([]DayStat, error) {
	if days <= 0 {
		days = 7
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, messages_sent FROM stats ORDER BY date DESC LIMIT ?`, days)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var out []DayStat
	for rows.Next() {
		var d DayStat
		if err := rows.Scan(&d.Date, &d.Messages); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Stats is the summary behind the stats command.
type Stats struct {
	MessagesToday     int
	TotalInteractions int
	TopUsers          []Relationship
}

// Summary gathers the general stats for the given "today" date.
func (s *Store) Summary(ctx context.Context, today string) (*Stats, error) {
	messages, err := s.MessagesOnDate(ctx, today)
	if err != nil {
		return nil, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interaction_history`).Scan(&total); err != nil {
		return nil, fmt.Errorf("total interactions: %w", err)
	}

	top, err := s.TopRelationships(ctx, 11)
	if err != nil {
		return nil, err
	}

	return &Stats{
		MessagesToday:     messages,
		TotalInteractions: total,
		TopUsers:          top,
	}, nil
}
