package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/cbcassist/internal/form"
	appI18n "github.com/pavelanni/cbcassist/internal/i18n"
	"github.com/pavelanni/cbcassist/internal/model"
	"github.com/pavelanni/cbcassist/internal/quiz"
)

func renderString(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	require.NoError(t, appI18n.Init("en"))
	ctx := appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer("en"))
	ctx = appI18n.WithLang(ctx, "en")
	return model.ContextWithCSRFToken(ctx, "tok")
}

func TestFormatTipDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-03-05", "March 05, 2024"},
		{"2024-12-31T08:00:00Z", "December 31, 2024"},
		{"2024-01-15T10:00:00", "January 15, 2024"},
		{"someday", "someday"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTipDate(tt.in))
	}
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "80.0%", FormatAverage(80))
	assert.Equal(t, "66.7%", FormatAverage(200.0/3))
	assert.Equal(t, "0.0%", FormatAverage(0))
}

func TestAlertEscapesAndHidesEmpty(t *testing.T) {
	ctx := testContext(t)
	assert.Empty(t, renderString(t, ctx, Alert(AlertError, "", true)))

	out := renderString(t, ctx, Alert(AlertError, "<b>bad</b>", true))
	assert.Contains(t, out, "&lt;b&gt;bad&lt;/b&gt;")
	assert.Contains(t, out, `aria-label="Dismiss"`)
}

type caption string

func (l caption) String() string { return string(l) }

func TestRawfEscapesUntrustedArguments(t *testing.T) {
	out := renderString(t, testContext(t), component(func(h *html) {
		h.rawf(`<a title="%s" data-x="%s" data-n="%d"%s>`, `"><script>`, caption("a&b"), 3, boolAttr("hidden", true))
	}))
	assert.Equal(t, `<a title="&#34;&gt;&lt;script&gt;" data-x="a&amp;b" data-n="3" hidden>`, out)
}

func TestInputValueIsEscaped(t *testing.T) {
	out := renderString(t, testContext(t), Input(InputProps{Label: "Topic", Name: "topic", Value: `x" onfocus="alert(1)`}))
	assert.Contains(t, out, `value="x&#34; onfocus=&#34;alert(1)"`)
	assert.NotContains(t, out, `onfocus="alert`)
}

func TestLayoutCarriesCSRFToken(t *testing.T) {
	out := renderString(t, testContext(t), HomePage())
	assert.Contains(t, out, `hx-headers='{"X-CSRF-Token": "tok"}'`)
	assert.Contains(t, out, `name="csrf_token" value="tok"`)
	assert.Contains(t, out, `value="student"`)
	assert.Contains(t, out, `value="teacher"`)
}

func TestBasePathPrefixesLinks(t *testing.T) {
	ctx := model.ContextWithBasePath(testContext(t), "/cbc")
	out := renderString(t, ctx, DashboardPage(model.UserTypeStudent))
	for _, f := range model.StudentFeatures {
		assert.Contains(t, out, `href="/cbc`+f.Path+`"`)
	}
}

func TestSubmitDisabledUntilReady(t *testing.T) {
	ctx := testContext(t)
	out := renderString(t, ctx, HomeworkPage(HomeworkView{}))
	assert.Regexp(t, `<button type="submit"[^>]*\sdisabled[\s>]`, out)

	out = renderString(t, ctx, HomeworkPage(HomeworkView{Form: form.Homework{Question: "q", Grade: "5", Subject: "math", HintLevel: "medium"}}))
	assert.NotRegexp(t, `<button type="submit"[^>]*\sdisabled[\s>]`, out)
}

func TestQuizPanelSteps(t *testing.T) {
	ctx := testContext(t)
	out := renderString(t, ctx, QuizPanel(QuizView{Form: form.DefaultQuiz()}))
	assert.Contains(t, out, "/student/quiz/generate")

	a := quiz.New("Fractions", []model.QuizQuestion{
		{ID: "1", Question: "1/2 + 1/2?", Options: []string{"A. 1", "B. 2"}, CorrectAnswer: "A"},
	})
	out = renderString(t, ctx, QuizPanel(QuizView{Attempt: a}))
	assert.Contains(t, out, "1/2 + 1/2?")
	assert.Contains(t, out, "/student/quiz/answer")
	assert.Equal(t, strings.Count(out, "<form "), strings.Count(out, `hx-sync="#quiz-panel:queue all"`))

	a.Select("1", "A")
	require.NoError(t, a.Submit())
	out = renderString(t, ctx, QuizPanel(QuizView{Attempt: a}))
	assert.Contains(t, out, "100%")
	assert.True(t, strings.Contains(out, "/student/quiz/reset"))
}

func TestDocumentLinks(t *testing.T) {
	out := renderString(t, testContext(t), DocumentLinks(&model.Document{ID: 7, Filename: "lesson-plan-x.txt"}))
	assert.Contains(t, out, "/teacher/documents/7/download")
	assert.Empty(t, renderString(t, testContext(t), DocumentLinks(nil)))
}
