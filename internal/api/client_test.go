package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/cbcassist/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL + "/")
}

func TestClient_ChatSendsBodyAndToken(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody model.ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Photosynthesis makes food.","sources":[{"title":"Science G5"},"notes.pdf"]}`))
	})

	ctx := WithToken(context.Background(), "abc123")
	resp, err := c.Chat(ctx, model.ChatRequest{Message: "What is photosynthesis?", Grade: "5", Subject: "science", Language: "en"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "What is photosynthesis?", gotBody.Message)
	assert.Equal(t, "5", gotBody.Grade)
	assert.Equal(t, "Photosynthesis makes food.", resp.Response)
	require.Len(t, resp.Sources, 2)
	assert.Equal(t, "Science G5", resp.Sources[0].Name())
	assert.Equal(t, "notes.pdf", resp.Sources[1].Name())
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Authorization"]
		assert.False(t, present, "Authorization header should be absent")
		w.Write([]byte(`{"status":"healthy"}`))
	})

	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
}

func TestClient_QueryAndPathEncoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/explore-topic/Water%20Cycle%2FRain", r.URL.EscapedPath())
		assert.Equal(t, "6", r.URL.Query().Get("grade"))
		assert.Equal(t, "science", r.URL.Query().Get("subject"))
		w.Write([]byte(`{"topic":"Water Cycle/Rain","exploration":"1. Simple Explanation: Water moves.","has_curriculum_content":true}`))
	})

	resp, err := c.ExploreTopic(context.Background(), "Water Cycle/Rain", "6", "science")
	require.NoError(t, err)
	assert.True(t, resp.HasCurriculumContent)
	assert.Equal(t, "Water Cycle/Rain", resp.Topic)
}

func TestClient_DailyTipNumericGrade(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/daily-tip", r.URL.Path)
		assert.Equal(t, "grade=5&subject=math", r.URL.RawQuery)
		w.Write([]byte(`{"date":"2026-10-17","tip":"Practise tables.","grade":5,"subject":"math"}`))
	})

	tip, err := c.DailyTip(context.Background(), "5", "math")
	require.NoError(t, err)
	assert.Equal(t, model.FlexString("5"), tip.Grade)
	assert.Equal(t, "Practise tables.", tip.Tip)
}

func TestClient_ErrorDetail(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		fallback string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Grade must be between 4 and 8"}`, "Grade must be between 4 and 8", "Failed to generate quiz"},
		{"list detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"value is not a valid integer"}]}`, "field required; value is not a valid integer", "Failed to generate quiz"},
		{"no detail", http.StatusInternalServerError, `Internal Server Error`, "Failed to generate quiz", "Failed to generate quiz"},
		{"empty detail", http.StatusBadGateway, `{"detail":""}`, "Failed to generate quiz", "Failed to generate quiz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.GenerateQuiz(context.Background(), model.QuizRequest{Topic: "Fractions", Grade: "5", Subject: "math", NumQuestions: 5})
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, Message(err, tt.fallback))
		})
	}
}

func TestClient_NetworkErrorUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := New(url)
	_, err := c.SolveProblem(context.Background(), model.SolveRequest{Problem: "2x=4", Grade: "7", Subject: "math"})
	require.Error(t, err)

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, "Failed to solve problem", Message(err, "Failed to solve problem"))
}

func TestClient_Timeout(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	})
	c.http.Timeout = 50 * time.Millisecond

	_, err := c.Subjects(context.Background())
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "expected network error, got %v", err)
}

func TestClient_SubjectsShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []model.SubjectInfo
	}{
		{"object", `{"subjects":[{"value":"math","label":"Mathematics"}]}`, []model.SubjectInfo{{Value: "math", Label: "Mathematics"}}},
		{"bare strings", `["math","science"]`, []model.SubjectInfo{{Value: "math", Label: "math"}, {Value: "science", Label: "science"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			got, err := c.Subjects(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Subjects)
		})
	}
}

func TestOptions(t *testing.T) {
	hc := &http.Client{}
	c := New("http://example.test///", WithHTTPClient(hc), WithTimeout(5*time.Second))
	assert.Equal(t, "http://example.test", c.BaseURL())
	assert.Same(t, hc, c.http)
	assert.Equal(t, 5*time.Second, hc.Timeout)

	d := New("http://example.test")
	assert.Equal(t, DefaultTimeout, d.http.Timeout)
}
