package model

// Option is a value/label pair offered by a select control.
type Option struct {
	Value       string
	Label       string
	Icon        string
	Description string
}

// Grades offered by every form. CBC upper primary and junior school.
var Grades = []Option{
	{Value: "4", Label: "Grade 4"},
	{Value: "5", Label: "Grade 5"},
	{Value: "6", Label: "Grade 6"},
	{Value: "7", Label: "Grade 7"},
	{Value: "8", Label: "Grade 8"},
}

var Subjects = []Option{
	{Value: "math", Label: "Mathematics", Icon: "🔢"},
	{Value: "science", Label: "Science", Icon: "🔬"},
	{Value: "english", Label: "English", Icon: "📚"},
	{Value: "kiswahili", Label: "Kiswahili", Icon: "🗣️"},
}

var Languages = []Option{
	{Value: "en", Label: "English", Icon: "🇬🇧"},
	{Value: "sw", Label: "Kiswahili", Icon: "🇰🇪"},
}

var DifficultyLevels = []Option{
	{Value: "easy", Label: "Easy", Icon: "😊"},
	{Value: "medium", Label: "Medium", Icon: "🤔"},
	{Value: "hard", Label: "Hard", Icon: "😰"},
}

var HintLevels = []Option{
	{Value: "light", Label: "Light Hint", Description: "Just a small nudge"},
	{Value: "medium", Label: "Medium Hint", Description: "Guide through thinking"},
	{Value: "detailed", Label: "Detailed Hint", Description: "Explain concept with example"},
}

var ReadingLevels = []Option{
	{Value: "easy", Label: "Easy", Description: "Very simple words"},
	{Value: "medium", Label: "Medium", Description: "Clear language"},
	{Value: "advanced", Label: "Advanced", Description: "Standard grade-level"},
}

var AssessmentTypes = []Option{
	{Value: "mcq", Label: "Multiple Choice", Icon: "☑️"},
	{Value: "short_answer", Label: "Short Answer", Icon: "✍️"},
	{Value: "essay", Label: "Essay", Icon: "📝"},
	{Value: "mixed", Label: "Mixed", Icon: "🎯"},
}

var Terms = []Option{
	{Value: "1", Label: "Term 1"},
	{Value: "2", Label: "Term 2"},
	{Value: "3", Label: "Term 3"},
}

var MasteryLevels = []Option{
	{Value: "beginner", Label: "Beginner"},
	{Value: "intermediate", Label: "Intermediate"},
	{Value: "advanced", Label: "Advanced"},
}

var UserTypes = []Option{
	{Value: string(UserTypeStudent), Label: "Student", Icon: "🎓", Description: "Learn and practice"},
	{Value: string(UserTypeTeacher), Label: "Teacher", Icon: "👨‍🏫", Description: "Create lesson plans and assessments"},
}

// Feature is a dashboard card linking to a tool page.
type Feature struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Path        string
}

var StudentFeatures = []Feature{
	{ID: "chat", Title: "Ask Questions", Description: "Get instant help with any topic", Icon: "💬", Path: "/student/chat"},
	{ID: "quiz", Title: "Practice Quiz", Description: "Test your knowledge", Icon: "📝", Path: "/student/quiz"},
	{ID: "homework", Title: "Homework Help", Description: "Get hints without direct answers", Icon: "📚", Path: "/student/homework"},
	{ID: "solve", Title: "Step-by-Step", Description: "Solve problems with explanations", Icon: "🔍", Path: "/student/solve"},
	{ID: "explore", Title: "Explore Topics", Description: "Learn about any concept", Icon: "🌟", Path: "/student/explore"},
	{ID: "daily-tip", Title: "Daily Tip", Description: "Learn something new every day", Icon: "💡", Path: "/student/daily-tip"},
}

var TeacherFeatures = []Feature{
	{ID: "lesson-plan", Title: "Lesson Plans", Description: "Generate CBC-aligned lesson plans", Icon: "📋", Path: "/teacher/lesson-plan"},
	{ID: "assessment", Title: "Assessments", Description: "Create tests with marking schemes", Icon: "📊", Path: "/teacher/assessment"},
	{ID: "scheme", Title: "Scheme of Work", Description: "Generate term schemes", Icon: "📅", Path: "/teacher/scheme"},
	{ID: "progress", Title: "Progress Reports", Description: "Generate student reports", Icon: "📈", Path: "/teacher/progress"},
}

// PopularTopics are the quick-pick topics on the explore page, keyed by subject.
var PopularTopics = []struct {
	Subject string
	Topics  []string
}{
	{Subject: "math", Topics: []string{"Fractions", "Algebra", "Geometry", "Decimals"}},
	{Subject: "science", Topics: []string{"Photosynthesis", "Energy", "Matter", "Solar System"}},
	{Subject: "english", Topics: []string{"Verbs", "Adjectives", "Essay Writing", "Reading Comprehension"}},
}

// Label returns the label for value in opts, or value itself when unknown.
func Label(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// HasValue reports whether value is one of opts.
func HasValue(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
