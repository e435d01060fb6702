// /internal/storage/channels.go
package storage

import (
	"context"
	"fmt"
)

// BlockChannel marks a channel so the bot never responds there, even when
// mentioned. Blocking twice is a no-op.
func (s *Store) BlockChannel(ctx context.Context, channelID, serverID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO blocked_channels (channel_id, server_id) VALUES (?, ?)`,
		channelID, serverID)
	if err != nil {
		return fmt.Errorf("block channel: %w", err)
	}
	return nil
}

// UnblockChannel removes a block. Returns true if the channel was blocked.
func (s *Store) UnblockChannel(ctx context.Context, channelID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM blocked_channels WHERE channel_id = ?`, channelID)
	if err != nil {
		return false, fmt.Errorf("unblock channel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsChannelBlocked reports whether a channel is on the block list.
func (s *Store) IsChannelBlocked(ctx context.Context, channelID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blocked_channels WHERE channel_id = ?`,
		channelID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("is channel blocked: %w", err)
	}
	return n > 0, nil
}

// BlockedChannels lists blocked channel IDs. An empty serverID lists all.
func (s *Store) BlockedChannels(ctx context.Context, serverID string) ([]string, error) {
	query := `SELECT channel_id FROM blocked_channels`
	args := []any{}
	if serverID != "" {
		query += ` WHERE server_id = ?`
		args = append(args, serverID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("blocked channels: %w", err)
	}
	defer rows.Close()

	var channels []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		channels = append(channels, id)
	}
	return channels, rows.Err()
}
