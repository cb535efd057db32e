// internal/jobs/validate.go
package jobs

import (
	"encoding/json"

	"jobboard-api/internal/common/errors"
	"jobboard-api/internal/common/validation"
	"jobboard-api/internal/models"
)

// Tier and duration are optional on submission; absent values fall back to
// the standard posting.
const (
	defaultTier         = "standard"
	defaultDurationDays = 30
)

// draftSchema is the JSON schema for employer-submitted job drafts.
var draftSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"title", "description", "category", "jobType", "location"},
	"properties": map[string]interface{}{
		"title": map[string]interface{}{
			"type":      "string",
			"minLength": 5,
			"maxLength": 120,
		},
		"description": map[string]interface{}{
			"type":      "string",
			"minLength": 50,
			"maxLength": 10000,
		},
		"category": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"jobType": map[string]interface{}{
			"type": "string",
			"enum": []string{"full-time", "part-time", "contract", "internship", "seasonal"},
		},
		"location": map[string]interface{}{
			"type":     "object",
			"required": []string{"city"},
			"properties": map[string]interface{}{
				"city":   map[string]interface{}{"type": "string", "minLength": 1},
				"region": map[string]interface{}{"type": "string"},
			},
		},
		"platformCategories": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"tags": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"seniority": map[string]interface{}{
			"type": "string",
			"enum": []string{"junior", "mid", "senior", "lead"},
		},
		"tier": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"durationDays": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
		},
	},
}

// ValidateDraft fills in the tier/duration defaults, checks the draft
// against the schema and converts failures into the service error taxonomy.
// The returned draft is the normalized one the caller must price and persist.
func ValidateDraft(draft models.JobDraft) (models.JobDraft, error) {
	if draft.Tier == "" {
		draft.Tier = defaultTier
	}
	if draft.DurationDays == 0 {
		draft.DurationDays = defaultDurationDays
	}

	raw, err := json.Marshal(draft)
	if err != nil {
		return draft, errors.NewValidationError([]errors.FieldError{{Field: "draft", Message: "not serializable"}})
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return draft, errors.NewValidationError([]errors.FieldError{{Field: "draft", Message: "not an object"}})
	}

	result, err := validation.ValidateInput(doc, draftSchema)
	if err != nil {
		return draft, errors.NewValidationError([]errors.FieldError{{Field: "draft", Message: err.Error()}})
	}
	if result.Valid {
		return draft, nil
	}

	fields := make([]errors.FieldError, 0, len(result.Errors))
	for _, ve := range result.Errors {
		fields = append(fields, errors.FieldError{Field: ve.Field, Message: ve.Message})
	}
	return draft, errors.NewValidationError(fields)
}
