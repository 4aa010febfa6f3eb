package model

import "time"

// DocumentExport is the top-level JSON structure for `cbcassist export`.
type DocumentExport struct {
	ExportedAt time.Time          `json:"exported_at"`
	Kind       DocumentKind       `json:"kind,omitempty"`
	Count      int                `json:"count"`
	Documents  []ExportedDocument `json:"documents"`
}

// ExportedDocument holds one generated teacher document for export.
type ExportedDocument struct {
	ID        int64        `json:"id"`
	Kind      DocumentKind `json:"kind"`
	Title     string       `json:"title"`
	Filename  string       `json:"filename"`
	Body      string       `json:"body"`
	CreatedAt time.Time    `json:"created_at"`
	Visitor   string       `json:"visitor"`
	UserType  UserType     `json:"user_type,omitempty"`
}
