package validation_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-funnel/internal/validation"
)

var optionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": true,
	"properties": map[string]any{
		"options": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"id"},
				"properties": map[string]any{
					"id": map[string]any{"type": "string"},
				},
			},
		},
	},
}

func TestValidatePayloadAcceptsValidContent(t *testing.T) {
	payload := map[string]any{
		"options": []map[string]any{{"id": "a", "text": "X"}},
		"unknown": "passes through",
	}
	if err := validation.ValidatePayload(optionSchema, payload); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidatePayloadReportsIssueLocations(t *testing.T) {
	payload := map[string]any{
		"options": []map[string]any{{"text": "missing id"}},
	}
	err := validation.ValidatePayload(optionSchema, payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := validation.Issues(err)
	if len(issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestValidatePayloadEmptySchemaAcceptsAnything(t *testing.T) {
	if err := validation.ValidatePayload(nil, map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected open acceptance, got %v", err)
	}
}

func TestValidateSchemaRejectsMalformed(t *testing.T) {
	bad := map[string]any{"type": 42}
	if err := validation.ValidateSchema(bad); err == nil {
		t.Fatal("expected compile failure")
	}
}
