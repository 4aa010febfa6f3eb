package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pavelanni/cbcassist/internal/quiz"
)

// SaveQuizAttempt stores the visitor's current attempt, replacing any previous one.
func (s *Store) SaveQuizAttempt(visitorID string, a *quiz.Attempt) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO quiz_attempts (visitor_id, attempt, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(visitor_id) DO UPDATE SET attempt = excluded.attempt, updated_at = excluded.updated_at`,
		visitorID, string(data), time.Now(),
	)
	return err
}

// GetQuizAttempt returns the visitor's current attempt, or nil when there is none.
func (s *Store) GetQuizAttempt(visitorID string) (*quiz.Attempt, error) {
	return getQuizAttempt(s.db, visitorID)
}

// UpdateQuizAttempt loads the visitor's attempt, applies fn and saves the
// result in one transaction. Concurrent updates for the same store are
// applied one after another, so no answer is lost. It returns nil, nil when
// the visitor has no attempt. An error from fn aborts the save and is
// returned alongside the unmodified attempt.
func (s *Store) UpdateQuizAttempt(visitorID string, fn func(*quiz.Attempt) error) (*quiz.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	a, err := getQuizAttempt(tx, visitorID)
	if err != nil || a == nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		fresh, gerr := getQuizAttempt(tx, visitorID)
		if gerr != nil {
			return nil, gerr
		}
		return fresh, err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal attempt: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE quiz_attempts SET attempt = ?, updated_at = ? WHERE visitor_id = ?`,
		string(data), time.Now(), visitorID,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return a, nil
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getQuizAttempt(q queryRower, visitorID string) (*quiz.Attempt, error) {
	var data string
	err := q.QueryRow(`SELECT attempt FROM quiz_attempts WHERE visitor_id = ?`, visitorID).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var a quiz.Attempt
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decode attempt: %w", err)
	}
	if a.Answers == nil {
		a.Answers = make(map[string]string)
	}
	return &a, nil
}

// DeleteQuizAttempt discards the visitor's attempt.
func (s *Store) DeleteQuizAttempt(visitorID string) error {
	_, err := s.db.Exec(`DELETE FROM quiz_attempts WHERE visitor_id = ?`, visitorID)
	return err
}
