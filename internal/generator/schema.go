package generator

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"tutorial-quiz-service/internal/domain"
)

// assessmentSchemaDefinition is the JSON Schema the model's output must
// conform to. It is also sent to the model as the structured output format.
var assessmentSchemaDefinition = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": domain.QuestionsPerAssessment,
			"maxItems": domain.QuestionsPerAssessment,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"id", "questionText", "options", "correctOptionId", "explanation"},
				"properties": map[string]any{
					"id":           map[string]any{"type": "string", "minLength": 1},
					"questionText": map[string]any{"type": "string", "minLength": 1},
					"options": map[string]any{
						"type":     "array",
						"minItems": domain.OptionsPerQuestion,
						"maxItems": domain.OptionsPerQuestion,
						"items": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []any{"id", "text"},
							"properties": map[string]any{
								"id":   map[string]any{"type": "string", "minLength": 1},
								"text": map[string]any{"type": "string", "minLength": 1},
							},
						},
					},
					"correctOptionId": map[string]any{"type": "string", "minLength": 1},
					"explanation":     map[string]any{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

// compileAssessmentSchema compiles the schema once at package init.
func compileAssessmentSchema() *jsonschema.Schema {
	// The compiler wants a parsed JSON value; round-trip the definition to
	// normalize Go ints into JSON numbers.
	defBytes, err := json.Marshal(assessmentSchemaDefinition)
	if err != nil {
		panic(fmt.Sprintf("marshal assessment schema: %v", err))
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		panic(fmt.Sprintf("parse assessment schema: %v", err))
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://assessment.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		panic(fmt.Sprintf("add assessment schema resource: %v", err))
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("compile assessment schema: %v", err))
	}
	return compiled
}

var assessmentSchema = compileAssessmentSchema()
