package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes a fresh command tree and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := execute(root, &stderr)
	return stdout.String(), stderr.String(), err
}

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   string
}

func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.header = r.Header.Clone()
		rec.body = string(data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestGetCommand(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, `{"user":{"id":42,"name":"ann"}}`)

	stdout, _, err := runCLI(t, "get", server.URL+"/users/42?b=2&a=1",
		"--no-color",
		"-H", "X-Test-Header: test-value",
		"-q", "page=3",
		"-e", "name=$.user.name",
		"-e", "user.id",
	)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/users/42", rec.path)
	assert.Equal(t, "b=2&a=1&page=3", rec.query)
	assert.Equal(t, "test-value", rec.header.Get("X-Test-Header"))

	assert.Contains(t, stdout, "REQUEST: GET "+server.URL+"/users/42?b=2&a=1&page=3")
	assert.Contains(t, stdout, "RESPONSE: 200 OK")
	assert.Contains(t, stdout, "✓ name = ann")
	assert.Contains(t, stdout, "✓ user.id = 42")
}

func TestPostCommand_JSON(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusCreated, `{"id":1}`)

	_, _, err := runCLI(t, "post", server.URL+"/items", "--no-color", "--json", `{"name":"widget"}`)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, `{"name":"widget"}`, rec.body)
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	assert.Equal(t, "application/json", rec.header.Get("Accept"))
}

func TestPostCommand_InvalidJSON(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, "")

	_, stderr, err := runCLI(t, "post", server.URL, "--json", `{"name":`)
	require.Error(t, err)
	assert.Contains(t, stderr, "not valid JSON")
}

func TestPutCommand_DataFromFile(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, "")
	path := filepath.Join(t.TempDir(), "body.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain body"), 0o600))

	_, _, err := runCLI(t, "put", server.URL+"/doc", "--no-color", "-d", "@"+path)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "plain body", rec.body)
}

func TestDeleteCommand(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, `{"status":"success","message":"Resource deleted"}`)

	_, _, err := runCLI(t, "delete", server.URL+"/items/1", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/items/1", rec.path)
}

func TestFailFlag(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusNotFound, `{"error":"missing"}`)

	t.Run("without --fail a 404 is printed", func(t *testing.T) {
		stdout, _, err := runCLI(t, "get", server.URL, "--no-color")
		require.NoError(t, err)
		assert.Contains(t, stdout, "404 Not Found")
	})

	t.Run("with --fail a 404 is an error", func(t *testing.T) {
		_, stderr, err := runCLI(t, "get", server.URL, "--no-color", "--fail")
		require.Error(t, err)
		assert.Contains(t, stderr, "✗")
		assert.Contains(t, stderr, "404")
		assert.Equal(t, 1, strings.Count(stderr, "404"), "error must be reported once")
	})
}

func TestErrorFieldFlag(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{"error":{"message":"quota exceeded"}}`)

	_, stderr, err := runCLI(t, "get", server.URL, "--no-color", "--error-field", "$.error.message")
	require.Error(t, err)
	assert.Contains(t, stderr, "quota exceeded")
}

func TestSchemaFlag(t *testing.T) {
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type":"object","required":["id"]}`), 0o600))

	valid, _ := newRecordingServer(t, http.StatusOK, `{"id":1}`)
	_, _, err := runCLI(t, "get", valid.URL, "--no-color", "--schema", schemaPath)
	require.NoError(t, err)

	invalid, _ := newRecordingServer(t, http.StatusOK, `{"name":"x"}`)
	_, stderr, err := runCLI(t, "get", invalid.URL, "--no-color", "--schema", schemaPath)
	require.Error(t, err)
	assert.Contains(t, stderr, "does not match schema")
}

func TestOutputJSON(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{"id":7}`)

	stdout, _, err := runCLI(t, "get", server.URL, "-o", "json")
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &data), stdout)
	assert.Equal(t, float64(200), data["statusCode"])
	assert.Equal(t, map[string]interface{}{"id": float64(7)}, data["body"])
}

func TestOutputUnknown(t *testing.T) {
	_, stderr, err := runCLI(t, "get", "http://localhost", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown output format")
}

func TestExtractFailure(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{"id":7}`)

	stdout, _, err := runCLI(t, "get", server.URL, "--no-color", "-e", "$.missing")
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ $.missing")
}

func TestConfigProfile(t *testing.T) {
	server, rec := newRecordingServer(t, http.StatusOK, `{}`)

	cfgPath := filepath.Join(t.TempDir(), "profiles.yaml")
	cfg := "profiles:\n" +
		"  local:\n" +
		"    baseUrl: " + server.URL + "/api\n" +
		"    json: true\n" +
		"    headers:\n" +
		"      X-Client: reqb\n" +
		"    auth:\n" +
		"      value: Bearer t0ken\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, _, err := runCLI(t, "get", "/users?active=true", "--no-color", "-c", cfgPath, "-p", "local")
	require.NoError(t, err)

	assert.Equal(t, "/api/users", rec.path)
	assert.Equal(t, "active=true", rec.query)
	assert.Equal(t, "reqb", rec.header.Get("X-Client"))
	assert.Equal(t, "Bearer t0ken", rec.header.Get("Authorization"))
	assert.Equal(t, "application/json", rec.header.Get("Accept"))
}

func TestProfileWithoutConfig(t *testing.T) {
	_, stderr, err := runCLI(t, "get", "/users", "-p", "local")
	require.Error(t, err)
	assert.Contains(t, stderr, "--profile requires --config")
}

func TestInvalidHeader(t *testing.T) {
	_, stderr, err := runCLI(t, "get", "http://localhost", "-H", "no-colon")
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid header")
}

func TestRootHelp(t *testing.T) {
	stdout, _, err := runCLI(t)
	require.NoError(t, err)
	assert.Contains(t, stdout, "reqb")
	for _, sub := range []string{"get", "post", "put", "delete"} {
		assert.Contains(t, stdout, sub)
	}
}
