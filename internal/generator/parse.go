package generator

import (
	"encoding/json"
	"fmt"

	"tutorial-quiz-service/internal/domain"
)

// parseAssessment turns raw model output into a validated Assessment.
// It fails closed: any structural or semantic violation yields
// domain.ErrGenerationFailed and the output is discarded.
func parseAssessment(raw json.RawMessage) (domain.Assessment, error) {
	if len(raw) == 0 {
		return domain.Assessment{}, fmt.Errorf("%w: empty output", domain.ErrGenerationFailed)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: invalid JSON: %v", domain.ErrGenerationFailed, err)
	}
	if err := assessmentSchema.Validate(parsed); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: schema violation: %v", domain.ErrGenerationFailed, err)
	}

	var assessment domain.Assessment
	if err := json.Unmarshal(raw, &assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	questionIDs := make(map[string]struct{}, len(assessment.Questions))
	for _, q := range assessment.Questions {
		if _, dup := questionIDs[q.ID]; dup {
			return domain.Assessment{}, fmt.Errorf("%w: duplicate question id %q", domain.ErrGenerationFailed, q.ID)
		}
		questionIDs[q.ID] = struct{}{}

		optionIDs := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := optionIDs[opt.ID]; dup {
				return domain.Assessment{}, fmt.Errorf("%w: duplicate option id %q in question %q", domain.ErrGenerationFailed, opt.ID, q.ID)
			}
			optionIDs[opt.ID] = struct{}{}
		}
		if _, ok := q.CorrectOption(); !ok {
			return domain.Assessment{}, fmt.Errorf("%w: correctOptionId %q does not reference an option in question %q", domain.ErrGenerationFailed, q.CorrectOptionID, q.ID)
		}
	}

	assessment.CachedAt = nil
	return assessment, nil
}
