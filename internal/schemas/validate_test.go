package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmbeddedSchemas(t *testing.T) {
	tests := []struct {
		name      string
		schema    string
		doc       string
		wantError bool
	}{
		{"skills valid", SkillsSchema, `{"skills": [{"name": "go", "relevance": 0.9}]}`, false},
		{"skills empty list", SkillsSchema, `{"skills": []}`, false},
		{"skills missing list", SkillsSchema, `{"items": []}`, true},
		{"skills empty name", SkillsSchema, `{"skills": [{"name": ""}]}`, true},
		{"prediction number", PredictionSchema, `{"probability": 0.73}`, false},
		{"prediction string", PredictionSchema, `{"probability": "0.73"}`, false},
		{"prediction missing", PredictionSchema, `{"score": 0.73}`, true},
		{"prediction wrong type", PredictionSchema, `{"probability": true}`, true},
		{"draft valid", DraftSchema, `{"summary": "Go engineer", "highlights": ["Built APIs"]}`, false},
		{"draft bad highlights", DraftSchema, `{"summary": "x", "highlights": [1]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.schema, tt.doc)
			if tt.wantError {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.NotEmpty(t, ve.Errors)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, err.Error(), "missing.schema.json")
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(PredictionSchema, `{ invalid json }`)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, PredictionSchema, le.Schema)
}

func TestValidate_ReportsFieldPaths(t *testing.T) {
	err := Validate(SkillsSchema, `{"skills": [{"name": ""}]}`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "skills.0.name", ve.Errors[0].Field)

	// compiled schemas are reused
	assert.NoError(t, Validate(SkillsSchema, `{"skills": []}`))
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Schema: SkillsSchema, Errors: []FieldError{
		{Field: "(root)", Message: "skills is required"},
		{Field: "skills.0.name", Message: "too short"},
	}}

	assert.Equal(t, "skills.schema.json: (root): skills is required; skills.0.name: too short", err.Error())
}
