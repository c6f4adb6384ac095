package domain

import (
	"strings"
	"time"
)

// QuestionsPerAssessment is the fixed size of a generated quiz.
const QuestionsPerAssessment = 3

// OptionsPerQuestion is the fixed number of choices per question.
const OptionsPerQuestion = 4

// ExplanationDelimiter separates the concept explanation from the hint suffix
// inside Question.Explanation.
const ExplanationDelimiter = "||"

// Option represents a possible answer for a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID              string   `json:"id"`
	QuestionText    string   `json:"questionText"`
	Options         []Option `json:"options"`
	CorrectOptionID string   `json:"correctOptionId"`
	Explanation     string   `json:"explanation"`
}

// CorrectOption returns the option referenced by CorrectOptionID.
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == q.CorrectOptionID {
			return opt, true
		}
	}
	return Option{}, false
}

// SplitExplanation breaks an explanation into its concept part and hint suffix.
// Explanations without the delimiter carry no hint.
func SplitExplanation(explanation string) (concept, hint string) {
	concept, hint, found := strings.Cut(explanation, ExplanationDelimiter)
	if !found {
		return strings.TrimSpace(explanation), ""
	}
	return strings.TrimSpace(concept), strings.TrimSpace(hint)
}

// Assessment is a generated quiz for one tutorial. Immutable once generated;
// CachedAt is stamped by the result cache on write.
type Assessment struct {
	Questions []Question `json:"questions"`
	CachedAt  *time.Time `json:"cachedAt,omitempty"`
}
