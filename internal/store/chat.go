package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pavelanni/cbcassist/internal/model"
)

// AddChatMessage appends a message to the visitor's transcript.
func (s *Store) AddChatMessage(msg model.ChatMessage) (int64, error) {
	sources, err := json.Marshal(msg.Sources)
	if err != nil {
		return 0, fmt.Errorf("marshal sources: %w", err)
	}
	if msg.Sources == nil {
		sources = []byte("[]")
	}
	res, err := s.db.Exec(
		`INSERT INTO chat_messages (visitor_id, role, content, sources, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.VisitorID, msg.Role, msg.Content, string(sources), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListChatMessages returns the visitor's transcript, oldest first.
func (s *Store) ListChatMessages(visitorID string) ([]model.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, visitor_id, role, content, sources, created_at
		 FROM chat_messages WHERE visitor_id = ? ORDER BY id`, visitorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var sources string
		if err := rows.Scan(&m.ID, &m.VisitorID, &m.Role, &m.Content, &sources, &m.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sources), &m.Sources); err != nil {
			return nil, fmt.Errorf("decode sources of message %d: %w", m.ID, err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteChatMessage removes one message of the visitor's transcript.
// Used to roll back an optimistically appended message when the send fails.
func (s *Store) DeleteChatMessage(visitorID string, id int64) error {
	_, err := s.db.Exec(`DELETE FROM chat_messages WHERE id = ? AND visitor_id = ?`, id, visitorID)
	return err
}

// ClearChat removes the visitor's whole transcript.
func (s *Store) ClearChat(visitorID string) error {
	_, err := s.db.Exec(`DELETE FROM chat_messages WHERE visitor_id = ?`, visitorID)
	return err
}
