package schemas

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(ResponseSchema), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "string questions",
			doc:  `{"questions": ["Q1"], "recommendations": []}`,
		},
		{
			name: "object questions with details",
			doc: `{"questions": [{"question": "Explain channels", "difficulty": "medium", "hints": ["buffering"]}],
			       "recommendations": [{"recommendation": "Review the memory model"}],
			       "metadata": {"total_questions": 1}}`,
		},
		{
			name: "mixed item kinds",
			doc:  `{"questions": ["What is a mutex?", {"question": "What is a semaphore?"}]}`,
		},
		{
			name:    "missing questions",
			doc:     `{"recommendations": ["Practice"]}`,
			wantErr: true,
		},
		{
			name:    "questions not an array",
			doc:     `{"questions": "What is Go?"}`,
			wantErr: true,
		},
		{
			name:    "object item without question",
			doc:     `{"questions": [{"text": "What is Go?"}]}`,
			wantErr: true,
		},
		{
			name:    "metadata not an object",
			doc:     `{"questions": ["Q1"], "metadata": []}`,
			wantErr: true,
		},
		{
			name:    "top level array",
			doc:     `["Q1", "Q2"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateResponse([]byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "error should be ValidationError type")
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateResponse_MalformedDocument(t *testing.T) {
	err := ValidateResponse([]byte(`{"questions": [`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateJSONString_Valid(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`
	assert.NoError(t, ValidateJSONString(schema, `{"name": "mid"}`))
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	err := ValidateJSONString(schema, `{"name": 123}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "questions", Message: "is required"},
			{Field: "metadata", Message: "Invalid type"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "1. questions: is required")
	assert.Contains(t, msg, "2. metadata: Invalid type")
}

func TestSchemaLoadError(t *testing.T) {
	cause := errors.New("bad syntax")
	err := &SchemaLoadError{Path: "x.json", Message: "invalid", Cause: cause}

	assert.Equal(t, "failed to load schema x.json: invalid: bad syntax", err.Error())
	assert.ErrorIs(t, err, cause)
}
