package config

import (
	"strings"
	"testing"
)

// TestValidationError_Error tests the ValidationError.Error() method
func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "standard error",
			err: ValidationError{
				Path:    "profiles.dev.baseUrl",
				Message: "baseUrl is required",
			},
			expected: "profiles.dev.baseUrl: baseUrl is required",
		},
		{
			name: "empty path",
			err: ValidationError{
				Path:    "",
				Message: "some error",
			},
			expected: ": some error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Expected '%s' but got '%s'", tt.expected, result)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name          string
		config        Config
		expectedPaths []string
	}{
		{
			name: "valid",
			config: Config{
				Default: "dev",
				Profiles: map[string]Profile{
					"dev": {BaseURL: "http://localhost:8080", Timeout: "5s"},
				},
			},
		},
		{
			name:          "no profiles",
			config:        Config{},
			expectedPaths: []string{"profiles"},
		},
		{
			name: "unknown default",
			config: Config{
				Default:  "prod",
				Profiles: map[string]Profile{"dev": {BaseURL: "http://localhost"}},
			},
			expectedPaths: []string{"default"},
		},
		{
			name: "bad profile",
			config: Config{
				Profiles: map[string]Profile{
					"dev": {
						Timeout:    "whenever",
						Headers:    map[string]string{" ": "x"},
						Auth:       &Auth{Header: "X-Key"},
						ErrorField: "$",
					},
				},
			},
			expectedPaths: []string{
				"profiles.dev.baseUrl",
				"profiles.dev.timeout",
				"profiles.dev.headers",
				"profiles.dev.auth.value",
				"profiles.dev.errorField",
			},
		},
		{
			name: "relative base URL",
			config: Config{
				Profiles: map[string]Profile{"dev": {BaseURL: "localhost:8080/api"}},
			},
			expectedPaths: []string{"profiles.dev.baseUrl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateConfig(&tt.config)
			if len(errs) != len(tt.expectedPaths) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.expectedPaths), len(errs), errs)
			}
			for i, path := range tt.expectedPaths {
				if errs[i].Path != path {
					t.Errorf("Expected error %d at %s, got %s", i, path, errs[i].Path)
				}
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Path: "profiles", Message: "at least one profile is required"},
		{Path: "default", Message: "unknown profile: x"},
	}

	msg := errs.Error()
	if !strings.HasPrefix(msg, "invalid config: ") {
		t.Errorf("Expected prefix 'invalid config: ', got %s", msg)
	}
	if !strings.Contains(msg, "profiles: at least one profile is required; default: unknown profile: x") {
		t.Errorf("Unexpected message: %s", msg)
	}
}
