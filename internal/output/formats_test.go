package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/soryu/requestbuilder/http"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  OutputFormat
	}{
		{"", FormatText},
		{"text", FormatText},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseFormat("junit")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &Formatter{}, GetFormatter(FormatText, false, true))
	assert.IsType(t, &JSONFormatter{}, GetFormatter(FormatJSON, false, true))
	assert.IsType(t, &YAMLFormatter{}, GetFormatter(FormatYAML, false, true))
	assert.IsType(t, &Formatter{}, GetFormatter("unknown", false, true))
}

func TestJSONFormatter_Request(t *testing.T) {
	f := &JSONFormatter{}
	var data RequestData
	require.NoError(t, json.Unmarshal([]byte(f.FormatRequest(testRequest(t))), &data))

	assert.Equal(t, "POST", data.Method)
	assert.Equal(t, "https://api.example.com/users?page=1", data.URL)
	assert.Equal(t, "Bearer token123", data.Headers["Authorization"])
	assert.Equal(t, map[string]interface{}{"name": "John Doe"}, data.Body)
}

func TestJSONFormatter_Response(t *testing.T) {
	t.Run("verbose includes timing", func(t *testing.T) {
		f := &JSONFormatter{Verbose: true, Pretty: true}
		var data ResponseData
		require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(testResponse(200, `{"id":1}`))), &data))

		assert.Equal(t, 200, data.StatusCode)
		assert.Equal(t, int64(42), data.ResponseTime)
		require.NotNil(t, data.Timing)
		assert.Equal(t, int64(5), data.Timing.DNSLookup)
		assert.Equal(t, map[string]interface{}{"id": float64(1)}, data.Body)
	})

	t.Run("plain body stays text", func(t *testing.T) {
		f := &JSONFormatter{}
		var data ResponseData
		require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(testResponse(500, "oops"))), &data))

		assert.Equal(t, "oops", data.Body)
		assert.Nil(t, data.Timing)
	})
}

func TestJSONFormatter_Error(t *testing.T) {
	f := &JSONFormatter{}
	statusErr := &http.StatusError{StatusCode: 404, Body: []byte("missing")}

	var data ErrorData
	require.NoError(t, json.Unmarshal([]byte(f.FormatError(fmt.Errorf("get: %w", statusErr))), &data))
	assert.Equal(t, 404, data.StatusCode)
	assert.Equal(t, 10404, data.Code)

	require.NoError(t, json.Unmarshal([]byte(f.FormatError(errors.New("dial failed"))), &data))
	assert.Equal(t, "dial failed", data.Error)
}

func TestYAMLFormatter(t *testing.T) {
	f := &YAMLFormatter{Verbose: true}

	out := f.FormatResponse(testResponse(201, `{"id":7}`))
	require.True(t, strings.HasPrefix(out, "---\n"))

	var data ResponseData
	require.NoError(t, yaml.Unmarshal([]byte(out), &data))
	assert.Equal(t, 201, data.StatusCode)
	require.NotNil(t, data.Timing)
	assert.Equal(t, int64(42), data.Timing.Total)

	var req RequestData
	require.NoError(t, yaml.Unmarshal([]byte(f.FormatRequest(testRequest(t))), &req))
	assert.Equal(t, "POST", req.Method)

	assert.Contains(t, f.FormatError(errors.New("boom")), "error: boom")
}
