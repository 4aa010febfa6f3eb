package store

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/pavelanni/cbcassist/internal/model"
)

// CreateDocument stores a generated teacher document.
func (s *Store) CreateDocument(d model.Document) (int64, error) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO documents (visitor_id, kind, title, filename, body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.VisitorID, d.Kind, d.Title, d.Filename, d.Body, d.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("stored document", "id", id, "kind", d.Kind, "filename", d.Filename)
	return id, nil
}

// GetDocument returns a visitor's document by id, or nil when it does not
// exist or belongs to another visitor.
func (s *Store) GetDocument(visitorID string, id int64) (*model.Document, error) {
	var d model.Document
	err := s.db.QueryRow(
		`SELECT id, visitor_id, kind, title, filename, body, created_at
		 FROM documents WHERE id = ? AND visitor_id = ?`, id, visitorID,
	).Scan(&d.ID, &d.VisitorID, &d.Kind, &d.Title, &d.Filename, &d.Body, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocuments returns a visitor's documents, newest first.
// An empty kind lists every kind.
func (s *Store) ListDocuments(visitorID string, kind model.DocumentKind, limit int) ([]model.Document, error) {
	query := `SELECT id, visitor_id, kind, title, filename, body, created_at FROM documents WHERE visitor_id = ?`
	args := []any{visitorID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryDocuments(query, args...)
}

func (s *Store) queryDocuments(query string, args ...any) ([]model.Document, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.VisitorID, &d.Kind, &d.Title, &d.Filename, &d.Body, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
