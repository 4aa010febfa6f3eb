package store

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/cbcassist/internal/model"
)

// CreateVisitor registers a new browser and returns its id.
func (s *Store) CreateVisitor() (*model.Visitor, error) {
	now := time.Now()
	v := &model.Visitor{
		ID:        uuid.NewString(),
		CreatedAt: now,
		LastSeen:  now,
	}
	_, err := s.db.Exec(
		`INSERT INTO visitors (id, user_type, created_at, last_seen) VALUES (?, ?, ?, ?)`,
		v.ID, v.UserType, v.CreatedAt, v.LastSeen,
	)
	if err != nil {
		slog.Error("failed to create visitor", "error", err)
		return nil, err
	}
	slog.Debug("created visitor", "id", v.ID)
	return v, nil
}

// GetVisitor returns the visitor with the given id, or nil if unknown.
func (s *Store) GetVisitor(id string) (*model.Visitor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var v model.Visitor
	err := s.db.QueryRow(
		`SELECT id, user_type, created_at, last_seen FROM visitors WHERE id = ?`, id,
	).Scan(&v.ID, &v.UserType, &v.CreatedAt, &v.LastSeen)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// TouchVisitor records activity and the role the browser currently has selected.
func (s *Store) TouchVisitor(id string, userType model.UserType) error {
	_, err := s.db.Exec(
		`UPDATE visitors SET last_seen = ?, user_type = ? WHERE id = ?`,
		time.Now(), userType, id,
	)
	return err
}

// VisitorCount returns the total number of visitors.
func (s *Store) VisitorCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM visitors`).Scan(&count)
	return count, err
}

// CleanupStaleVisitors removes visitors idle since before cutoff together with
// their chat transcripts and quiz attempts. Documents are kept for export.
func (s *Store) CleanupStaleVisitors(cutoff time.Time) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stale := `SELECT id FROM visitors WHERE last_seen < ?`
	if _, err := tx.Exec(`DELETE FROM chat_messages WHERE visitor_id IN (`+stale+`)`, cutoff); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM quiz_attempts WHERE visitor_id IN (`+stale+`)`, cutoff); err != nil {
		return 0, err
	}
	res, err := tx.Exec(
		`DELETE FROM visitors WHERE last_seen < ? AND id NOT IN (SELECT visitor_id FROM documents)`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
