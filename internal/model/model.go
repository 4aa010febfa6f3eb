package model

import (
	"context"
	"time"
)

// UserType is the role a visitor selects on the home page.
type UserType string

const (
	// UserTypeStudent opens the student dashboard.
	UserTypeStudent UserType = "student"
	// UserTypeTeacher opens the teacher dashboard.
	UserTypeTeacher UserType = "teacher"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	return t == UserTypeStudent || t == UserTypeTeacher
}

// Visitor identifies one browser across requests.
type Visitor struct {
	ID        string
	UserType  UserType
	Token     string
	CreatedAt time.Time
	LastSeen  time.Time
}

type visitorCtxKey struct{}

// ContextWithVisitor stores the visitor in the request context.
func ContextWithVisitor(ctx context.Context, v *Visitor) context.Context {
	return context.WithValue(ctx, visitorCtxKey{}, v)
}

// VisitorFromContext retrieves the visitor from context, or nil.
func VisitorFromContext(ctx context.Context) *Visitor {
	v, _ := ctx.Value(visitorCtxKey{}).(*Visitor)
	return v
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

type pathCtxKey struct{}

// ContextWithPath stores the current request path (without base path) in context.
func ContextWithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathCtxKey{}, path)
}

// PathFromContext retrieves the current request path.
func PathFromContext(ctx context.Context) string {
	p, _ := ctx.Value(pathCtxKey{}).(string)
	return p
}

// ViewState is the state of a page's result area.
type ViewState string

const (
	StateIdle    ViewState = "idle"
	StateLoading ViewState = "loading"
	StateSuccess ViewState = "success"
	StateError   ViewState = "error"
)

// ChatRole tags a chat transcript entry.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in a visitor's chat transcript.
type ChatMessage struct {
	ID        int64        `json:"id"`
	VisitorID string       `json:"visitor_id"`
	Role      ChatRole     `json:"role"`
	Content   string       `json:"content"`
	Sources   []ChatSource `json:"sources,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// DocumentKind names the teacher tool that produced a document.
type DocumentKind string

const (
	DocLessonPlan     DocumentKind = "lesson_plan"
	DocAssessment     DocumentKind = "assessment"
	DocSchemeOfWork   DocumentKind = "scheme_of_work"
	DocProgressReport DocumentKind = "progress_report"
)

// Valid reports whether k is one of the known document kinds.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocLessonPlan, DocAssessment, DocSchemeOfWork, DocProgressReport:
		return true
	}
	return false
}

// Document is a generated teacher document kept for download.
type Document struct {
	ID        int64        `json:"id"`
	VisitorID string       `json:"visitor_id"`
	Kind      DocumentKind `json:"kind"`
	Title     string       `json:"title"`
	Filename  string       `json:"filename"`
	Body      string       `json:"body"`
	CreatedAt time.Time    `json:"created_at"`
}

// FrontendConfig holds runtime parameters of the web front end set via CLI flags.
type FrontendConfig struct {
	APIURL        string
	BasePath      string // URL prefix for sub-path deployments (e.g. "/sw")
	SecureCookies bool   // Set Secure flag on cookies (disable for local dev)
	DefaultLang   string
}
