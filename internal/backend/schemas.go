package backend

import "github.com/pavelanni/cbcassist/internal/llm"

var stringArray = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

func object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

var chatSchema = &llm.Schema{
	Name:        "chat-answer",
	Description: "A tutor's answer and the curriculum areas it draws on",
	Definition: object(map[string]any{
		"response": map[string]any{"type": "string"},
		"sources":  stringArray,
	}),
}

var quizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "Multiple-choice practice questions",
	Definition: object(map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": object(map[string]any{
				"id":       map[string]any{"type": "integer"},
				"question": map[string]any{"type": "string"},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correct_answer": map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D"}},
				"explanation":    map[string]any{"type": "string"},
			}),
		},
	}),
}

var homeworkSchema = &llm.Schema{
	Name:        "homework-hint",
	Description: "A hint that does not reveal the answer",
	Definition: object(map[string]any{
		"hint":     map[string]any{"type": "string"},
		"reminder": map[string]any{"type": "string"},
	}),
}

var similarQuestionsSchema = &llm.Schema{
	Name:        "similar-questions",
	Description: "Practice questions similar to the learner's",
	Definition: object(map[string]any{
		"questions": stringArray,
	}),
}
