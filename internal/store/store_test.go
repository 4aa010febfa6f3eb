package store

import (
	"errors"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/pavelanni/cbcassist/internal/model"
	"github.com/pavelanni/cbcassist/internal/quiz"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestVisitor(t *testing.T, s *Store) *model.Visitor {
	t.Helper()
	v, err := s.CreateVisitor()
	if err != nil {
		t.Fatalf("CreateVisitor: %v", err)
	}
	return v
}

func TestVisitorLifecycle(t *testing.T) {
	s := newTestStore(t)

	v := newTestVisitor(t, s)
	if v.ID == "" {
		t.Fatal("expected visitor id")
	}

	got, err := s.GetVisitor(v.ID)
	if err != nil {
		t.Fatalf("GetVisitor: %v", err)
	}
	if got == nil || got.ID != v.ID {
		t.Fatalf("GetVisitor returned %+v", got)
	}

	if err := s.TouchVisitor(v.ID, model.UserTypeTeacher); err != nil {
		t.Fatalf("TouchVisitor: %v", err)
	}
	got, _ = s.GetVisitor(v.ID)
	if got.UserType != model.UserTypeTeacher {
		t.Errorf("expected user type teacher, got %q", got.UserType)
	}

	// Unknown and malformed ids return nil without error.
	for _, id := range []string{"not-a-uuid", "6f1c3a3e-5b0e-4c43-9a57-3f2d8f0e1a11"} {
		got, err := s.GetVisitor(id)
		if err != nil {
			t.Errorf("GetVisitor(%q): %v", id, err)
		}
		if got != nil {
			t.Errorf("GetVisitor(%q) = %+v, want nil", id, got)
		}
	}

	count, err := s.VisitorCount()
	if err != nil {
		t.Fatalf("VisitorCount: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 visitor, got %d", count)
	}
}

func TestChatTranscript(t *testing.T) {
	s := newTestStore(t)
	v := newTestVisitor(t, s)
	other := newTestVisitor(t, s)

	userID, err := s.AddChatMessage(model.ChatMessage{VisitorID: v.ID, Role: model.ChatRoleUser, Content: "What is a fraction?"})
	if err != nil {
		t.Fatalf("AddChatMessage: %v", err)
	}
	_, err = s.AddChatMessage(model.ChatMessage{
		VisitorID: v.ID,
		Role:      model.ChatRoleAssistant,
		Content:   "A part of a whole.",
		Sources:   []model.ChatSource{{Title: "Grade 4 Maths"}, {Source: "cbc.pdf"}},
	})
	if err != nil {
		t.Fatalf("AddChatMessage: %v", err)
	}
	if _, err := s.AddChatMessage(model.ChatMessage{VisitorID: other.ID, Role: model.ChatRoleUser, Content: "hi"}); err != nil {
		t.Fatalf("AddChatMessage other: %v", err)
	}

	msgs, err := s.ListChatMessages(v.ID)
	if err != nil {
		t.Fatalf("ListChatMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != model.ChatRoleUser || msgs[1].Role != model.ChatRoleAssistant {
		t.Errorf("unexpected order: %q, %q", msgs[0].Role, msgs[1].Role)
	}
	if len(msgs[1].Sources) != 2 || msgs[1].Sources[0].Name() != "Grade 4 Maths" || msgs[1].Sources[1].Name() != "cbc.pdf" {
		t.Errorf("unexpected sources: %+v", msgs[1].Sources)
	}
	if len(msgs[0].Sources) != 0 {
		t.Errorf("expected no sources on user message, got %+v", msgs[0].Sources)
	}

	// Rollback only touches the owner's message.
	if err := s.DeleteChatMessage(other.ID, userID); err != nil {
		t.Fatalf("DeleteChatMessage other: %v", err)
	}
	msgs, _ = s.ListChatMessages(v.ID)
	if len(msgs) != 2 {
		t.Fatalf("foreign delete removed a message: %d left", len(msgs))
	}
	if err := s.DeleteChatMessage(v.ID, userID); err != nil {
		t.Fatalf("DeleteChatMessage: %v", err)
	}
	msgs, _ = s.ListChatMessages(v.ID)
	if len(msgs) != 1 || msgs[0].Role != model.ChatRoleAssistant {
		t.Fatalf("expected only assistant message left, got %+v", msgs)
	}

	if err := s.ClearChat(v.ID); err != nil {
		t.Fatalf("ClearChat: %v", err)
	}
	msgs, _ = s.ListChatMessages(v.ID)
	if len(msgs) != 0 {
		t.Errorf("expected empty transcript, got %d", len(msgs))
	}
	otherMsgs, _ := s.ListChatMessages(other.ID)
	if len(otherMsgs) != 1 {
		t.Errorf("ClearChat touched another visitor: %d left", len(otherMsgs))
	}
}

func TestQuizAttemptRoundTrip(t *testing.T) {
	s := newTestStore(t)
	v := newTestVisitor(t, s)

	got, err := s.GetQuizAttempt(v.ID)
	if err != nil {
		t.Fatalf("GetQuizAttempt: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no attempt, got %+v", got)
	}

	a := quiz.New("Fractions", []model.QuizQuestion{
		{ID: "1", Question: "1/2 + 1/2?", Options: []string{"A. 1", "B. 2"}, CorrectAnswer: "A"},
		{ID: "2", Question: "1/4 of 8?", Options: []string{"A. 4", "B. 2"}, CorrectAnswer: "B"},
	})
	a.Select("1", "A")
	a.Next()
	if err := s.SaveQuizAttempt(v.ID, a); err != nil {
		t.Fatalf("SaveQuizAttempt: %v", err)
	}

	got, err = s.GetQuizAttempt(v.ID)
	if err != nil {
		t.Fatalf("GetQuizAttempt: %v", err)
	}
	if got.Topic != "Fractions" || got.Current != 1 || got.Selected("1") != "A" || got.Total() != 2 {
		t.Errorf("unexpected attempt after reload: %+v", got)
	}

	// Saving again replaces the attempt.
	got.Select("2", "B")
	if err := got.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := s.SaveQuizAttempt(v.ID, got); err != nil {
		t.Fatalf("SaveQuizAttempt replace: %v", err)
	}
	again, _ := s.GetQuizAttempt(v.ID)
	if !again.Submitted || again.Score() != 100 {
		t.Errorf("expected submitted attempt scoring 100, got %+v (score %d)", again, again.Score())
	}

	if err := s.DeleteQuizAttempt(v.ID); err != nil {
		t.Fatalf("DeleteQuizAttempt: %v", err)
	}
	got, _ = s.GetQuizAttempt(v.ID)
	if got != nil {
		t.Error("expected attempt to be deleted")
	}
}

func TestFileDatabasePragmas(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "cbcassist.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	var mode string
	if err := s.db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	var timeout int
	if err := s.db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestUpdateQuizAttempt(t *testing.T) {
	s := newTestStore(t)
	v := newTestVisitor(t, s)

	got, err := s.UpdateQuizAttempt(v.ID, func(*quiz.Attempt) error {
		t.Error("fn called without an attempt")
		return nil
	})
	if err != nil || got != nil {
		t.Fatalf("UpdateQuizAttempt without attempt = %v, %v", got, err)
	}

	a := quiz.New("Fractions", []model.QuizQuestion{
		{ID: "1", Question: "1/2 + 1/2?", Options: []string{"A. 1", "B. 2"}, CorrectAnswer: "A"},
	})
	if err := s.SaveQuizAttempt(v.ID, a); err != nil {
		t.Fatalf("SaveQuizAttempt: %v", err)
	}

	errStop := errors.New("stop")
	got, err = s.UpdateQuizAttempt(v.ID, func(a *quiz.Attempt) error {
		a.Select("1", "B")
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("UpdateQuizAttempt error = %v, want errStop", err)
	}
	if got == nil || got.Selected("1") != "" {
		t.Errorf("failed update changed the attempt: %+v", got)
	}

	got, err = s.UpdateQuizAttempt(v.ID, func(a *quiz.Attempt) error {
		a.Select("1", "A")
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateQuizAttempt: %v", err)
	}
	stored, _ := s.GetQuizAttempt(v.ID)
	if got.Selected("1") != "A" || stored.Selected("1") != "A" {
		t.Errorf("answer not saved: returned %q, stored %q", got.Selected("1"), stored.Selected("1"))
	}
}

func TestConcurrentQuizUpdatesKeepEveryAnswer(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "cbcassist.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	v := newTestVisitor(t, s)

	const n = 10
	questions := make([]model.QuizQuestion, n)
	for i := range questions {
		questions[i] = model.QuizQuestion{
			ID:            model.FlexString(strconv.Itoa(i + 1)),
			Question:      "Q" + strconv.Itoa(i+1),
			Options:       []string{"A. x", "B. y"},
			CorrectAnswer: "A",
		}
	}
	if err := s.SaveQuizAttempt(v.ID, quiz.New("Mixed", questions)); err != nil {
		t.Fatalf("SaveQuizAttempt: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.UpdateQuizAttempt(v.ID, func(a *quiz.Attempt) error {
				a.Select(id, "A")
				return nil
			})
			errs <- err
		}(strconv.Itoa(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("UpdateQuizAttempt: %v", err)
		}
	}

	got, err := s.GetQuizAttempt(v.ID)
	if err != nil {
		t.Fatalf("GetQuizAttempt: %v", err)
	}
	if len(got.Answers) != n {
		t.Errorf("kept %d answers, want %d: %v", len(got.Answers), n, got.Answers)
	}
}

func TestDocuments(t *testing.T) {
	s := newTestStore(t)
	v := newTestVisitor(t, s)
	if err := s.TouchVisitor(v.ID, model.UserTypeTeacher); err != nil {
		t.Fatalf("TouchVisitor: %v", err)
	}
	other := newTestVisitor(t, s)

	id1, err := s.CreateDocument(model.Document{
		VisitorID: v.ID, Kind: model.DocLessonPlan, Title: "Fractions", Filename: "lesson-plan-Fractions.txt", Body: "LESSON PLAN",
	})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	id2, err := s.CreateDocument(model.Document{
		VisitorID: v.ID, Kind: model.DocAssessment, Title: "Math", Filename: "assessment-math-grade-5.txt", Body: "MATH ASSESSMENT",
	})
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	d, err := s.GetDocument(v.ID, id1)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if d == nil || d.Body != "LESSON PLAN" || d.CreatedAt.IsZero() {
		t.Fatalf("unexpected document: %+v", d)
	}

	// Documents are private to their visitor.
	d, err = s.GetDocument(other.ID, id1)
	if err != nil {
		t.Fatalf("GetDocument other: %v", err)
	}
	if d != nil {
		t.Error("expected nil for another visitor's document")
	}

	docs, err := s.ListDocuments(v.ID, "", 0)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != id2 {
		t.Fatalf("expected newest first, got %+v", docs)
	}
	docs, _ = s.ListDocuments(v.ID, model.DocLessonPlan, 0)
	if len(docs) != 1 || docs[0].ID != id1 {
		t.Errorf("kind filter returned %+v", docs)
	}
	docs, _ = s.ListDocuments(v.ID, "", 1)
	if len(docs) != 1 {
		t.Errorf("limit returned %d documents", len(docs))
	}

	exported, err := s.ExportDocuments("")
	if err != nil {
		t.Fatalf("ExportDocuments: %v", err)
	}
	if len(exported) != 2 || exported[0].ID != id1 {
		t.Fatalf("expected oldest first, got %+v", exported)
	}
	if exported[0].UserType != model.UserTypeTeacher || exported[0].Visitor != v.ID {
		t.Errorf("unexpected visitor info: %+v", exported[0])
	}
	exported, _ = s.ExportDocuments(model.DocAssessment)
	if len(exported) != 1 || exported[0].Kind != model.DocAssessment {
		t.Errorf("kind filter export returned %+v", exported)
	}
}

func TestCleanupStaleVisitors(t *testing.T) {
	s := newTestStore(t)
	idle := newTestVisitor(t, s)
	author := newTestVisitor(t, s)

	if _, err := s.AddChatMessage(model.ChatMessage{VisitorID: idle.ID, Role: model.ChatRoleUser, Content: "x"}); err != nil {
		t.Fatalf("AddChatMessage: %v", err)
	}
	if _, err := s.CreateDocument(model.Document{VisitorID: author.ID, Kind: model.DocLessonPlan, Title: "t", Filename: "f", Body: "b"}); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	n, err := s.CleanupStaleVisitors(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CleanupStaleVisitors: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 visitor removed, got %d", n)
	}
	if v, _ := s.GetVisitor(idle.ID); v != nil {
		t.Error("idle visitor should be removed")
	}
	if v, _ := s.GetVisitor(author.ID); v == nil {
		t.Error("visitor with documents should be kept")
	}
	msgs, _ := s.ListChatMessages(idle.ID)
	if len(msgs) != 0 {
		t.Errorf("expected transcript removed, got %d messages", len(msgs))
	}
}

func TestDailyTipCache(t *testing.T) {
	s := newTestStore(t)

	tip, err := s.GetDailyTip("2026-10-17", "5", "math")
	if err != nil {
		t.Fatalf("GetDailyTip: %v", err)
	}
	if tip != "" {
		t.Fatalf("expected empty cache, got %q", tip)
	}

	got, err := s.SaveDailyTip("2026-10-17", "5", "math", "first")
	if err != nil {
		t.Fatalf("SaveDailyTip: %v", err)
	}
	if got != "first" {
		t.Errorf("SaveDailyTip returned %q, want first", got)
	}

	// The first stored tip wins.
	got, _ = s.SaveDailyTip("2026-10-17", "5", "math", "second")
	if got != "first" {
		t.Errorf("expected cached tip to win, got %q", got)
	}

	if err := s.PurgeDailyTips("2026-10-18"); err != nil {
		t.Fatalf("PurgeDailyTips: %v", err)
	}
	tip, _ = s.GetDailyTip("2026-10-17", "5", "math")
	if tip != "" {
		t.Errorf("expected purged tip, got %q", tip)
	}
}
