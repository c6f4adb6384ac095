package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"tutorial-quiz-service/internal/domain"
)

const defaultModel = "claude-haiku-4-5-20251001"

const systemPrompt = "You write short multiple-choice comprehension quizzes for programming tutorials. " +
	"Questions test understanding of the supplied text only, never outside knowledge. " +
	"Each explanation has two parts separated by \"||\": first the concept being tested, then a hint " +
	"that nudges the reader toward the answer without giving it away."

// AnthropicGenerator produces assessments with the Anthropic API using
// structured output constrained by the assessment schema.
type AnthropicGenerator struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicGenerator(apiKey, model string) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicGenerator{
		client:    &client,
		model:     model,
		maxTokens: 2048,
	}, nil
}

func (g *AnthropicGenerator) Generate(ctx context.Context, cleanText string) (domain.Assessment, error) {
	if cleanText == "" {
		return domain.Assessment{}, fmt.Errorf("%w: no tutorial text to generate from", domain.ErrGenerationFailed)
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(buildPrompt(cleanText)),
				},
			},
		},
		OutputConfig: anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{
				Schema: assessmentSchemaDefinition,
			},
		},
	})
	if err != nil {
		return domain.Assessment{}, mapAPIError(err)
	}

	content, err := extractText(msg)
	if err != nil {
		return domain.Assessment{}, err
	}
	return parseAssessment(content)
}

func buildPrompt(cleanText string) string {
	return fmt.Sprintf(
		"Write exactly %d multiple-choice questions about the tutorial below. "+
			"Each question has exactly %d options and one correct answer. "+
			"Respond with JSON only.\n\nTutorial:\n%s",
		domain.QuestionsPerAssessment, domain.OptionsPerQuestion, cleanText,
	)
}

func extractText(msg *anthropic.Message) (json.RawMessage, error) {
	for _, block := range msg.Content {
		if block.Type == "text" {
			return json.RawMessage(block.Text), nil
		}
	}
	return nil, fmt.Errorf("%w: no text content in response", domain.ErrGenerationFailed)
}

// mapAPIError separates transport/provider outages from quality failures so
// operators can tell the two apart.
func mapAPIError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	return fmt.Errorf("%w: anthropic: %v", domain.ErrUpstreamUnavailable, err)
}
