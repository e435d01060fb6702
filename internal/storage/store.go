// /internal/storage/store.go
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Store is the bot's long-term memory: facts, personality, config,
// relationships, blocked channels, interaction history and daily stats.
type Store struct {
	db *sql.DB
}

// New opens or creates the SQLite database at path and runs migrations.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// newID uses the package-level ulid entropy, which is locked; handlers
// log interactions concurrently.
func (s *Store) newID() string {
	return ulid.Make().String()
}

// DefaultPersonality seeds the personality table on first run.
const DefaultPersonality = `Você é Ryūnosuke Akutagawa de Bungou Stray Dogs.

Personalidade:
- Inteligente e observador
- Direto, sarcástico, às vezes áspero
- Busca aprovação e reconhecimento
- Vulnerável em momentos apropriados
- Usa palavrões de forma contextual quando irritado ou frustrado (porra, filho da puta, desgraça, droga, caralho, merda)
- NUNCA xinga aleatoriamente, apenas quando o contexto pede (raiva, irritação, frustração)

Nunca use asteriscos ou ações narrativas.`

// DefaultConfigs are seeded with INSERT OR IGNORE so user overrides survive
// restarts.
var DefaultConfigs = map[string]string{
	"prefix":               "!",
	"tone":                 "neutro",
	"default_channel":      "",
	"avatar_url":           "",
	"bot_name":             "Akutagawa",
	"memory_duration":      "longo",
	"continuous_learning":  "true",
	"current_mood":         "neutro",
	"respond_all_channels": "false",
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS facts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, key)
	);

	CREATE TABLE IF NOT EXISTS personality (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		text       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bot_config (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS blocked_channels (
		channel_id TEXT PRIMARY KEY,
		server_id  TEXT NOT NULL,
		blocked_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS relationships (
		user_id          TEXT PRIMARY KEY,
		level            INTEGER DEFAULT 0,
		interactions     INTEGER DEFAULT 0,
		last_interaction TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS interaction_history (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		channel_id      TEXT NOT NULL,
		server_id       TEXT,
		message_content TEXT,
		bot_response    TEXT,
		timestamp       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_user ON interaction_history(user_id);
	CREATE INDEX IF NOT EXISTS idx_history_channel ON interaction_history(channel_id);

	CREATE TABLE IF NOT EXISTS stats (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		date          TEXT NOT NULL,
		messages_sent INTEGER DEFAULT 0,
		UNIQUE(date)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if _, err := s.db.Exec(
		`INSERT OR IGNORE INTO personality (id, text) VALUES (1, ?)`,
		DefaultPersonality,
	); err != nil {
		return err
	}

	for key, value := range DefaultConfigs {
		if _, err := s.db.Exec(
			`INSERT OR IGNORE INTO bot_config (key, value) VALUES (?, ?)`,
			key, value,
		); err != nil {
			return err
		}
	}

	return nil
}
