package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pavelanni/cbcassist/internal/model"
)

var testNow = time.Date(2024, 3, 15, 14, 5, 9, 0, time.UTC)

func TestAssessmentDocument(t *testing.T) {
	doc := assessmentDocument(&model.AssessmentResponse{
		Subject:        "science",
		Grade:          "7",
		Topics:         []string{"Cells", "Energy"},
		TotalQuestions: 10,
		Type:           "mixed",
		Assessment:     "1. What is a cell?",
		GeneratedAt:    "not a time",
	}, testNow)

	assert.Equal(t, "assessment-science-grade-7.txt", doc.Filename)
	want := "SCIENCE ASSESSMENT\nGrade 7\n" + strings.Repeat("=", 59) + "\n\n" +
		"Topics: Cells, Energy\nTotal Questions: 10\nType: mixed\n\n" +
		"1. What is a cell?\n\nGenerated: 3/15/2024, 2:05:09 PM"
	assert.Equal(t, want, doc.Body)
}

func TestSchemeOfWorkDocument(t *testing.T) {
	doc := schemeOfWorkDocument(&model.SchemeOfWorkResponse{
		Subject: "math", Grade: "4", Term: "2", Weeks: 12,
		SchemeOfWork: "Week 1: Numbers", GeneratedAt: "2024-01-08T09:00:00Z",
	}, testNow)

	assert.Equal(t, "scheme-of-work-math-grade-4-term-2.txt", doc.Filename)
	assert.Contains(t, doc.Body, "SCHEME OF WORK\n==============\n\nSubject: math\nGrade: 4\nTerm: 2\nDuration: 12 weeks")
	assert.True(t, strings.HasSuffix(doc.Body, "Generated: 1/8/2024, 9:00:00 AM"))
}

func TestProgressReportDocument(t *testing.T) {
	doc := progressReportDocument(&model.ProgressReportResponse{
		Student: "  Amina   Wanjiru ", AverageScore: 76.24, Report: "Steady progress.",
	}, testNow)

	assert.Equal(t, "progress-report-Amina-Wanjiru.txt", doc.Filename)
	assert.Contains(t, doc.Body, "Average Score: 76.2%")
	assert.Equal(t, model.DocProgressReport, doc.Kind)
}

func TestGeneratedAt(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T08:00:00Z", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-03-01T08:00:00.123456", time.Date(2024, 3, 1, 8, 0, 0, 123456000, time.UTC)},
		{"2024-03-01 08:00:00", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"", testNow},
	}
	for _, tt := range tests {
		assert.True(t, tt.want.Equal(generatedAt(tt.in, testNow)), tt.in)
	}
}
