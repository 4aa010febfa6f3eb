package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/cbcassist/internal/api"
	"github.com/pavelanni/cbcassist/internal/llm"
	"github.com/pavelanni/cbcassist/internal/model"
	"github.com/pavelanni/cbcassist/internal/store"
)

type testBackend struct {
	mock   *llm.MockProvider
	store  *store.Store
	server *httptest.Server
	client *api.Client
}

func newTestBackend(t *testing.T, auth *Authenticator, responses ...llm.MockResponse) *testBackend {
	t.Helper()
	st, err := store.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mock := llm.NewMockProvider(responses...)
	srv, err := New(mock, st, auth)
	require.NoError(t, err)
	srv.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

	r := chi.NewRouter()
	srv.Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return &testBackend{mock: mock, store: st, server: ts, client: api.New(ts.URL)}
}

func apiError(t *testing.T, err error) *api.Error {
	t.Helper()
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr), "expected *api.Error, got %v", err)
	return apiErr
}

func TestHealthAndSubjects(t *testing.T) {
	b := newTestBackend(t, nil)

	health, err := b.client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)

	subjects, err := b.client.Subjects(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects.Subjects, len(model.Subjects))
	assert.Equal(t, model.SubjectInfo{Value: "math", Label: "Mathematics"}, subjects.Subjects[0])
}

func TestChat(t *testing.T) {
	b := newTestBackend(t, nil, llm.MockResponse{
		Content: `{"response":"Plants make food from sunlight.","sources":["Science G5: Living things"," "]}`,
	})

	resp, err := b.client.Chat(context.Background(), model.ChatRequest{
		Message: "What is photosynthesis?", Grade: "5", Subject: "science",
	})
	require.NoError(t, err)
	assert.Equal(t, "Plants make food from sunlight.", resp.Response)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Science G5: Living things", resp.Sources[0].Name())

	require.Len(t, b.mock.Calls, 1)
	call := b.mock.Calls[0]
	assert.Equal(t, chatSchema, call.Schema)
	assert.Contains(t, call.System, "Answer in English")
	assert.Contains(t, call.Messages[0].Content, "What is photosynthesis?")
}

func TestValidationReturns400(t *testing.T) {
	b := newTestBackend(t, nil)

	_, err := b.client.Chat(context.Background(), model.ChatRequest{Message: "Hi", Subject: "math"})
	apiErr := apiError(t, err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "grade is a required field", apiErr.Detail)
	assert.Zero(t, b.mock.CallCount())
}

func TestCheckTranslatesEveryRule(t *testing.T) {
	require.NotNil(t, translator)
	type payload struct {
		Name  string `json:"name" validate:"required"`
		Count int    `json:"count" validate:"min=1"`
	}

	err := check(payload{})
	var herr *httpError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusBadRequest, herr.status)
	assert.Equal(t, "count must be 1 or greater; name is a required field", herr.detail)
	assert.NoError(t, check(payload{Name: "x", Count: 2}))
}

func TestInvalidJSONBody(t *testing.T) {
	b := newTestBackend(t, nil)

	resp, err := http.Post(b.server.URL+"/api/chat", "application/json", strings.NewReader(`{"message":`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid JSON body", body.Detail)
}

func TestModelFailureReturns502(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		detail string
	}{
		{"rate limit", &llm.ErrRateLimit{}, "busy"},
		{"unavailable", &llm.ErrProviderUnavailable{}, "unavailable"},
		{"other", errors.New("connection reset"), "failed to respond"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, nil, llm.MockResponse{Err: tt.err})
			_, err := b.client.SolveProblem(context.Background(), model.SolveRequest{Problem: "2+2", Grade: "4", Subject: "math"})
			apiErr := apiError(t, err)
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
			assert.Contains(t, apiErr.Detail, tt.detail)
		})
	}
}

func TestQuizRejectsInvalidModelOutput(t *testing.T) {
	b := newTestBackend(t, nil, llm.MockResponse{
		Content: `{"questions":[{"id":1,"question":"1+1?","options":["1","2"],"correct_answer":"B","explanation":""}]}`,
	})
	_, err := b.client.GenerateQuiz(context.Background(), model.QuizRequest{Topic: "Addition", Grade: "4", Subject: "math"})
	apiErr := apiError(t, err)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestQuiz(t *testing.T) {
	b := newTestBackend(t, nil, llm.MockResponse{
		Content: `{"questions":[
			{"id":1,"question":"1/2 + 1/4?","options":["A. 3/4","B. 2/6","C. 1/8","D. 2/4"],"correct_answer":"a","explanation":"Common denominators."},
			{"id":1,"question":"Half of 10?","options":["5","2","10","20"],"correct_answer":"A","explanation":"10 / 2."}
		]}`,
	})

	resp, err := b.client.GenerateQuiz(context.Background(), model.QuizRequest{Topic: "Fractions", Grade: "5", Subject: "math"})
	require.NoError(t, err)

	q := resp.Quiz
	assert.Equal(t, "Fractions", q.Topic)
	require.Len(t, q.Questions, 2)
	assert.Equal(t, "1", q.Questions[0].ID.String())
	assert.NotEqual(t, "1", q.Questions[1].ID.String(), "duplicate ids are replaced")
	assert.Equal(t, "A", q.Questions[0].CorrectAnswer)
	assert.Equal(t, []string{"A. 3/4", "B. 2/6", "C. 1/8", "D. 2/4"}, q.Questions[0].Options)
	assert.Equal(t, []string{"A. 5", "B. 2", "C. 10", "D. 20"}, q.Questions[1].Options)

	require.Len(t, b.mock.Calls, 1)
	assert.Contains(t, b.mock.Calls[0].Messages[0].Content, "Write 5 medium questions")
}

func TestLetterOption(t *testing.T) {
	tests := []struct{ letter, in, want string }{
		{"A", "A. Nairobi", "A. Nairobi"},
		{"B", "B) Mombasa", "B) Mombasa"},
		{"C", "Cairo", "C. Cairo"},
		{"D", "  42 ", "D. 42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, letterOption(tt.letter, tt.in))
	}
}

func TestHomeworkDefaultsHintLevel(t *testing.T) {
	b := newTestBackend(t, nil, llm.MockResponse{Content: `{"hint":"Find a common denominator.","reminder":"You can do it!"}`})

	resp, err := b.client.HomeworkHelp(context.Background(), model.HomeworkRequest{Question: "3/4 + 1/8?", Grade: "5", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, "Find a common denominator.", resp.Hint)
	assert.Equal(t, "light", resp.HintLevel)
	assert.Equal(t, "You can do it!", resp.Reminder)
}

func TestDailyTipIsCachedForTheDay(t *testing.T) {
	b := newTestBackend(t, nil,
		llm.MockResponse{Content: "  Read for ten minutes every day.  "},
		llm.MockResponse{Content: "A different tip"},
	)

	first, err := b.client.DailyTip(context.Background(), "6", "english")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", first.Date)
	assert.Equal(t, "Read for ten minutes every day.", first.Tip)
	assert.Equal(t, "6", first.Grade.String())
	assert.Equal(t, "english", first.Subject)

	second, err := b.client.DailyTip(context.Background(), "6", "english")
	require.NoError(t, err)
	assert.Equal(t, first.Tip, second.Tip)
	assert.Equal(t, 1, b.mock.CallCount())

	_, err = b.client.DailyTip(context.Background(), "", "english")
	assert.Equal(t, http.StatusBadRequest, apiError(t, err).StatusCode)
}

func TestExploreTopic(t *testing.T) {
	b := newTestBackend(t, nil,
		llm.MockResponse{Content: "1. What it is: Rock melts."},
		llm.MockResponse{Content: "1. What it is: Stars."},
	)

	resp, err := b.client.ExploreTopic(context.Background(), "Solar System / planets", "6", "science")
	require.NoError(t, err)
	assert.Equal(t, "Solar System / planets", resp.Topic)
	assert.Equal(t, "1. What it is: Rock melts.", resp.Exploration)
	assert.True(t, resp.HasCurriculumContent)
	assert.Contains(t, b.mock.Calls[0].Messages[0].Content, "Solar System / planets")

	resp, err = b.client.ExploreTopic(context.Background(), "Astronomy", "", "")
	require.NoError(t, err)
	assert.False(t, resp.HasCurriculumContent)
}

func TestTeacherEndpoints(t *testing.T) {
	b := newTestBackend(t, nil,
		llm.MockResponse{Content: "Lesson content"},
		llm.MockResponse{Content: "Assessment content"},
		llm.MockResponse{Content: "Scheme content"},
	)
	ctx := context.Background()

	plan, err := b.client.LessonPlan(ctx, model.LessonPlanRequest{Subject: "math", Grade: "5", Topic: "Decimals"})
	require.NoError(t, err)
	assert.Equal(t, 40, plan.LessonPlan.DurationMinutes)
	assert.Equal(t, "Lesson content", plan.LessonPlan.Content)
	assert.Equal(t, "2024-03-15T10:30:00", plan.CreatedAt)

	_, err = b.client.Assessment(ctx, model.AssessmentRequest{Subject: "math", Grade: "5"})
	assert.Equal(t, http.StatusBadRequest, apiError(t, err).StatusCode)

	assessment, err := b.client.Assessment(ctx, model.AssessmentRequest{
		Subject: "science", Grade: "7", Topics: []string{"Cells"}, IncludeMarkingScheme: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, assessment.TotalQuestions)
	assert.Equal(t, "mixed", assessment.Type)
	assert.True(t, assessment.HasMarkingScheme)
	assert.Equal(t, "Assessment content", assessment.Assessment)

	scheme, err := b.client.SchemeOfWork(ctx, model.SchemeOfWorkRequest{Subject: "english", Grade: "4", Term: 2, NumWeeks: 12})
	require.NoError(t, err)
	assert.Equal(t, "2", scheme.Term.String())
	assert.Equal(t, 12, scheme.Weeks)
	assert.Equal(t, "Scheme content", scheme.SchemeOfWork)
}

func TestProgressReportAverage(t *testing.T) {
	b := newTestBackend(t, nil, llm.MockResponse{Content: "Good progress."}, llm.MockResponse{Content: "No scores yet."})
	ctx := context.Background()

	resp, err := b.client.ProgressReport(ctx, model.ProgressReportRequest{
		StudentName: "Amina", Grade: "6", Subject: "math", QuizScores: []float64{70, 85, 90},
	})
	require.NoError(t, err)
	assert.Equal(t, "Amina", resp.Student)
	assert.InDelta(t, 81.67, resp.AverageScore, 0.01)
	assert.Contains(t, b.mock.Calls[0].Messages[0].Content, "Amina")

	resp, err = b.client.ProgressReport(ctx, model.ProgressReportRequest{StudentName: "Baraka", Grade: "6", Subject: "math"})
	require.NoError(t, err)
	assert.Zero(t, resp.AverageScore)
}

func TestSupplementaryEndpoints(t *testing.T) {
	b := newTestBackend(t, nil,
		llm.MockResponse{Content: `{"questions":["4 x 7?","3 x 9?","6 x 2?","8 x 8?"]}`},
		llm.MockResponse{Content: "Week 1: halves"},
		llm.MockResponse{Content: "Plants use light to make food."},
		llm.MockResponse{Content: "Draw the sun, clouds and rain."},
	)
	ctx := context.Background()

	similar, err := b.client.SimilarQuestions(ctx, model.SimilarQuestionsRequest{Question: "5 x 6?", Grade: "4", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, []string{"4 x 7?", "3 x 9?", "6 x 2?"}, similar.Questions)

	path, err := b.client.LearningPath(ctx, model.LearningPathRequest{Subject: "math", Grade: "6", Goal: "Fractions"})
	require.NoError(t, err)
	assert.Equal(t, "beginner", path.MasteryLevel)
	assert.Equal(t, "Week 1: halves", path.Path)

	simple, err := b.client.Simplify(ctx, model.SimplifyRequest{Text: "Photosynthesis is a biochemical process."})
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis is a biochemical process.", simple.Original)
	assert.Equal(t, "easy", simple.ReadingLevel)

	visual, err := b.client.VisualizeConcept(ctx, model.VisualizeRequest{Concept: "Water cycle", Grade: "5", Subject: "science"})
	require.NoError(t, err)
	assert.Equal(t, "Water cycle", visual.Concept)
	assert.Equal(t, "Draw the sun, clouds and rain.", visual.Visualization)
}

func TestBearerAuth(t *testing.T) {
	auth := NewAuthenticator("s3cret")
	b := newTestBackend(t, auth, llm.MockResponse{Content: "Solved."})

	_, err := b.client.SolveProblem(context.Background(), model.SolveRequest{Problem: "2+2", Grade: "4", Subject: "math"})
	assert.Equal(t, http.StatusUnauthorized, apiError(t, err).StatusCode)

	forged, err := NewAuthenticator("other").Issue("teacher-1", "teacher", time.Hour)
	require.NoError(t, err)
	_, err = b.client.SolveProblem(api.WithToken(context.Background(), forged), model.SolveRequest{Problem: "2+2", Grade: "4", Subject: "math"})
	assert.Equal(t, http.StatusUnauthorized, apiError(t, err).StatusCode)

	token, err := auth.Issue("teacher-1", "teacher", time.Hour)
	require.NoError(t, err)
	resp, err := b.client.SolveProblem(api.WithToken(context.Background(), token), model.SolveRequest{Problem: "2+2", Grade: "4", Subject: "math"})
	require.NoError(t, err)
	assert.Equal(t, "Solved.", resp.Solution)

	// Health and subjects stay public.
	_, err = b.client.Health(context.Background())
	require.NoError(t, err)
}

func TestAuthenticator(t *testing.T) {
	auth := NewAuthenticator("s3cret")
	token, err := auth.Issue("amina", "student", 0)
	require.NoError(t, err)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "amina", claims.Subject)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, issuer, claims.Issuer)
	assert.Nil(t, claims.ExpiresAt)

	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := auth.Issue("amina", "student", time.Hour)
	require.NoError(t, err)
	_, err = auth.Verify(expired)
	assert.Error(t, err)

	_, err = NewAuthenticator("").Issue("amina", "student", time.Hour)
	assert.Error(t, err)
	assert.False(t, NewAuthenticator("").Enabled())
}

func TestNotFoundIsJSON(t *testing.T) {
	b := newTestBackend(t, nil)
	resp, err := http.Get(b.server.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
