package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var document = []byte(`{
	"name": "John Doe",
	"age": 30,
	"address": {"city": "Anytown"},
	"phones": [
		{"type": "home", "number": "555-1234"},
		{"type": "work", "number": "555-5678"}
	],
	"active": true,
	"scores": [10, 20, 30],
	"metadata": null
}`)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Simple property", "$.name", "John Doe"},
		{"Plain gjson path", "name", "John Doe"},
		{"Numeric property", "$.age", "30"},
		{"Boolean property", "$.active", "true"},
		{"Nested property", "$.address.city", "Anytown"},
		{"Array element", "$.scores[1]", "20"},
		{"Object in array", "$.phones[0].number", "555-1234"},
		{"Bracket notation", "$['address']['city']", "Anytown"},
		{"Double quoted bracket", `$["name"]`, "John Doe"},
		{"Null value", "$.metadata", "null"},
		{"Object value", "$.address", `{"city": "Anytown"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(document, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract(nil, "$.name")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Extract(document, "")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Extract(document, "$.missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExists(t *testing.T) {
	assert.True(t, Exists(document, "$.name"))
	assert.False(t, Exists(document, "$.metadata"))
	assert.False(t, Exists(document, "$.missing"))
	assert.False(t, Exists([]byte("not json"), "$.name"))
}

func TestExtractMultiple(t *testing.T) {
	got, err := ExtractMultiple(document, map[string]string{
		"name": "$.name",
		"city": "$.address.city",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "John Doe", "city": "Anytown"}, got)

	got, err = ExtractMultiple(document, map[string]string{
		"name":    "$.name",
		"missing": "$.nope",
	})
	assert.Error(t, err)
	assert.Equal(t, "John Doe", got["name"])
}

func TestToGjsonPath(t *testing.T) {
	assert.Equal(t, "@this", toGjsonPath("$"))
	assert.Equal(t, "users.0.name", toGjsonPath("$.users[0].name"))
	assert.Equal(t, "0.id", toGjsonPath("$[0].id"))
	assert.Equal(t, "a.b", toGjsonPath("$['a']['b']"))
}
