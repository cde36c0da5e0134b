package quizgen

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const quizSchemaName = "generated_quiz"

var quizSchemaDefinition = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"title", "questions"},
	"properties": map[string]any{
		"title": map[string]any{"type": "string", "minLength": 1},
		"questions": map[string]any{
			"type":     "array",
			"minItems": MinQuestions,
			"maxItems": MaxQuestions,
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"question", "options", "correctAnswer", "explanation"},
				"properties": map[string]any{
					"question":      map[string]any{"type": "string", "minLength": 1},
					"options":       map[string]any{"type": "array", "minItems": 2, "items": map[string]any{"type": "string"}},
					"correctAnswer": map[string]any{"type": "string", "minLength": 1},
					"explanation":   map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func quizSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		defBytes, err := json.Marshal(quizSchemaDefinition)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		schemaURL := fmt.Sprintf("schema://%s.json", quizSchemaName)
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// validateQuizJSON проверяет ответ модели по JSON-схеме викторины
func validateQuizJSON(raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := quizSchema()
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", quizSchemaName, err)}
	}
	if err := schema.Validate(parsed); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}
	return nil
}
