package store

import (
	"fmt"

	"github.com/pavelanni/cbcassist/internal/model"
)

// ExportDocuments builds export-ready records of every stored document,
// oldest first. An empty kind exports every kind.
func (s *Store) ExportDocuments(kind model.DocumentKind) ([]model.ExportedDocument, error) {
	query := `SELECT id, visitor_id, kind, title, filename, body, created_at FROM documents`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY id`

	docs, err := s.queryDocuments(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	// Visitor lookups are cached; one teacher usually owns many documents.
	visitors := make(map[string]*model.Visitor)

	results := make([]model.ExportedDocument, 0, len(docs))
	for _, d := range docs {
		v, ok := visitors[d.VisitorID]
		if !ok {
			v, err = s.GetVisitor(d.VisitorID)
			if err != nil {
				return nil, fmt.Errorf("get visitor %s: %w", d.VisitorID, err)
			}
			visitors[d.VisitorID] = v
		}

		ed := model.ExportedDocument{
			ID:        d.ID,
			Kind:      d.Kind,
			Title:     d.Title,
			Filename:  d.Filename,
			Body:      d.Body,
			CreatedAt: d.CreatedAt,
			Visitor:   d.VisitorID,
		}
		if v != nil {
			ed.UserType = v.UserType
		}
		results = append(results, ed)
	}

	return results, nil
}
