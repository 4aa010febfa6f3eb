package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
	// mu serializes read-modify-write updates of per-visitor state.
	mu sync.Mutex
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would get its own empty in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visitors (
		id TEXT PRIMARY KEY,
		user_type TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		last_seen DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		sources TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (visitor_id) REFERENCES visitors(id)
	);

	CREATE TABLE IF NOT EXISTS quiz_attempts (
		visitor_id TEXT PRIMARY KEY,
		attempt TEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (visitor_id) REFERENCES visitors(id)
	);

	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		visitor_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		filename TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (visitor_id) REFERENCES visitors(id)
	);

	CREATE TABLE IF NOT EXISTS daily_tips (
		date TEXT NOT NULL,
		grade TEXT NOT NULL,
		subject TEXT NOT NULL,
		tip TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (date, grade, subject)
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_visitor ON chat_messages(visitor_id, id);
	CREATE INDEX IF NOT EXISTS idx_documents_visitor ON documents(visitor_id, id);
	`
	_, err := s.db.Exec(schema)
	return err
}
