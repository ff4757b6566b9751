// Package history persists terminal conversations in a local SQLite file
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrConversationNotFound is returned for unknown conversation ids
var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is one chat started with /new or at the start of a session
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Entries   int
}

// Entry is one settled transcript line
type Entry struct {
	ConversationID string
	CorrelationID  string
	Sender         string
	TargetID       string
	Text           string
	IsError        bool
	CreatedAt      time.Time
}

// Store is a SQLite backed history
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS conversations(
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	correlation_id TEXT,
	sender TEXT NOT NULL,
	target_id TEXT,
	text TEXT NOT NULL,
	is_error INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_conversation ON entries(conversation_id, id);
`

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateConversation records a conversation. Creating an existing id updates its title.
func (s *Store) CreateConversation(ctx context.Context, id, title string, createdAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO conversations(id, title, created_at) VALUES(?,?,?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title`,
		id, title, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// AppendEntry adds a settled entry to a conversation
func (s *Store) AppendEntry(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO entries(
		conversation_id, correlation_id, sender, target_id, text, is_error, created_at)
		VALUES(?,?,?,?,?,?,?)`,
		e.ConversationID, e.CorrelationID, e.Sender, e.TargetID, e.Text, e.IsError, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// ListConversations returns the newest conversations first
func (s *Store) ListConversations(ctx context.Context, limit int) ([]Conversation, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.title, c.created_at, COUNT(e.id)
		FROM conversations c LEFT JOIN entries e ON e.conversation_id = c.id
		GROUP BY c.id ORDER BY c.created_at DESC, c.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		var created int64
		if err := rows.Scan(&c.ID, &c.Title, &created, &c.Entries); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		c.CreatedAt = time.UnixMilli(created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Entries returns a conversation's entries in insertion order
func (s *Store) Entries(ctx context.Context, conversationID string) ([]Entry, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM conversations WHERE id = ?`, conversationID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT conversation_id, COALESCE(correlation_id, ''), sender,
		COALESCE(target_id, ''), text, is_error, created_at
		FROM entries WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ConversationID, &e.CorrelationID, &e.Sender, &e.TargetID, &e.Text, &e.IsError, &created); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
