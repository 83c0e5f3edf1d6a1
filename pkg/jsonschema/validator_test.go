package jsonschema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"type": "object",
	"properties": {
		"name": { "type": "string" },
		"age": { "type": "integer", "minimum": 0 }
	},
	"required": ["name"]
}`

func TestSchema_Validate(t *testing.T) {
	schema, err := Compile(personSchema)
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"Valid object", `{"name": "John", "age": 30}`, false},
		{"Missing required property", `{"age": 30}`, true},
		{"Wrong type", `{"name": "John", "age": "thirty"}`, true},
		{"Below minimum", `{"name": "John", "age": -1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate([]byte(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %T", err)
			assert.NotEmpty(t, verrs)
		})
	}
}

func TestSchema_ValidateInvalidJSON(t *testing.T) {
	schema, err := Compile(personSchema)
	require.NoError(t, err)

	err = schema.Validate([]byte(`{"name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)

	_, err = Compile(`not json`)
	assert.Error(t, err)
}

func TestValidate_MultipleViolations(t *testing.T) {
	err := Validate([]byte(`{"age": "x"}`), personSchema)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.GreaterOrEqual(t, len(verrs), 2)
	assert.Contains(t, err.Error(), "; ")
}
