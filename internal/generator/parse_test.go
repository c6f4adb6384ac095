package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"tutorial-quiz-service/internal/domain"
)

func TestParseAssessmentValid(t *testing.T) {
	assessment, err := parseAssessment(validOutput())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(assessment.Questions) != domain.QuestionsPerAssessment {
		t.Fatalf("expected %d questions, got %d", domain.QuestionsPerAssessment, len(assessment.Questions))
	}
	for _, q := range assessment.Questions {
		if len(q.Options) != domain.OptionsPerQuestion {
			t.Fatalf("question %s: expected %d options, got %d", q.ID, domain.OptionsPerQuestion, len(q.Options))
		}
		if _, ok := q.CorrectOption(); !ok {
			t.Fatalf("question %s: correctOptionId does not reference an option", q.ID)
		}
	}

	concept, hint := domain.SplitExplanation(assessment.Questions[0].Explanation)
	if concept == "" || hint == "" {
		t.Fatalf("expected concept and hint, got %q / %q", concept, hint)
	}
}

func TestParseAssessmentFailsClosed(t *testing.T) {
	cases := map[string]json.RawMessage{
		"empty output":       nil,
		"not json":           json.RawMessage("here are your questions!"),
		"empty object":       json.RawMessage(`{}`),
		"no questions":       json.RawMessage(`{"questions": []}`),
		"too few questions":  mutateQuestions(t, func(qs []map[string]any) []map[string]any { return qs[:2] }),
		"missing options": mutateQuestions(t, func(qs []map[string]any) []map[string]any {
			qs[0]["options"] = []any{}
			return qs
		}),
		"dangling correct id": mutateQuestions(t, func(qs []map[string]any) []map[string]any {
			qs[1]["correctOptionId"] = "not-an-option"
			return qs
		}),
		"duplicate question ids": mutateQuestions(t, func(qs []map[string]any) []map[string]any {
			qs[1]["id"] = qs[0]["id"]
			return qs
		}),
	}

	for name, raw := range cases {
		if _, err := parseAssessment(raw); !errors.Is(err, domain.ErrGenerationFailed) {
			t.Fatalf("%s: expected ErrGenerationFailed, got %v", name, err)
		}
	}
}

func mutateQuestions(t *testing.T, mutate func([]map[string]any) []map[string]any) json.RawMessage {
	t.Helper()
	var doc struct {
		Questions []map[string]any `json:"questions"`
	}
	if err := json.Unmarshal(validOutput(), &doc); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	doc.Questions = mutate(doc.Questions)
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return raw
}

func validOutput() json.RawMessage {
	questions := make([]string, 0, domain.QuestionsPerAssessment)
	for i := 1; i <= domain.QuestionsPerAssessment; i++ {
		questions = append(questions, fmt.Sprintf(`{
			"id": "q%d",
			"questionText": "Question %d?",
			"options": [
				{"id": "o1", "text": "first"},
				{"id": "o2", "text": "second"},
				{"id": "o3", "text": "third"},
				{"id": "o4", "text": "fourth"}
			],
			"correctOptionId": "o2",
			"explanation": "The second option is correct.||Reread the second paragraph."
		}`, i, i))
	}
	return json.RawMessage(fmt.Sprintf(`{"questions":[%s,%s,%s]}`, questions[0], questions[1], questions[2]))
}
