package jsonpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrEmptyDocument is returned when there is no JSON to search.
	ErrEmptyDocument = errors.New("jsonpath: empty JSON document")

	// ErrEmptyPath is returned for an empty expression.
	ErrEmptyPath = errors.New("jsonpath: empty path expression")

	// ErrNotFound is returned when the path does not resolve.
	ErrNotFound = errors.New("jsonpath: path not found")
)

// Extract returns the value at path in doc rendered as a string. Objects and
// arrays come back as raw JSON, null as "null".
//
// path accepts JSONPath-style expressions ($.users[0].name) as well as plain
// gjson paths (users.0.name).
func Extract(doc []byte, path string) (string, error) {
	result, err := Lookup(doc, path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// Lookup resolves path in doc and returns the raw gjson result.
func Lookup(doc []byte, path string) (gjson.Result, error) {
	if len(doc) == 0 {
		return gjson.Result{}, ErrEmptyDocument
	}
	if path == "" {
		return gjson.Result{}, ErrEmptyPath
	}

	result := gjson.GetBytes(doc, toGjsonPath(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return result, nil
}

// Exists reports whether path resolves to a non-null value in doc.
func Exists(doc []byte, path string) bool {
	result, err := Lookup(doc, path)
	return err == nil && result.Type != gjson.Null
}

// ExtractMultiple extracts several named paths at once. Values that resolve
// are returned even when others fail; the error lists every failure.
func ExtractMultiple(doc []byte, paths map[string]string) (map[string]string, error) {
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("jsonpath: no paths provided")
	}

	results := make(map[string]string, len(paths))
	var failures []string
	for name, path := range paths {
		value, err := Extract(doc, path)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// toGjsonPath converts a JSONPath expression to gjson syntax.
// $.users[0].name becomes users.0.name.
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}
	path = strings.TrimPrefix(path, ".")

	// $['name'] and $["name"]
	for _, quote := range []string{"'", "\""} {
		path = strings.ReplaceAll(path, "["+quote, ".")
		path = strings.ReplaceAll(path, quote+"]", "")
	}

	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	return strings.TrimPrefix(path, ".")
}
