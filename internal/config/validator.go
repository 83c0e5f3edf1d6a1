package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is returned by ParseConfig when validation fails.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Error()
	}
	return "invalid config: " + strings.Join(messages, "; ")
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) []ValidationError {
	var errors []ValidationError

	if len(config.Profiles) == 0 {
		errors = append(errors, ValidationError{
			Path:    "profiles",
			Message: "at least one profile is required",
		})
	}

	if config.Default != "" {
		if _, ok := config.Profiles[config.Default]; !ok {
			errors = append(errors, ValidationError{
				Path:    "default",
				Message: fmt.Sprintf("unknown profile: %s", config.Default),
			})
		}
	}

	for _, name := range config.ProfileNames() {
		errors = append(errors, validateProfile(name, config.Profiles[name])...)
	}

	return errors
}

func validateProfile(name string, profile Profile) []ValidationError {
	var errors []ValidationError
	path := func(field string) string {
		return fmt.Sprintf("profiles.%s.%s", name, field)
	}

	if profile.BaseURL == "" {
		errors = append(errors, ValidationError{
			Path:    path("baseUrl"),
			Message: "baseUrl is required",
		})
	} else if u, err := url.Parse(profile.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		errors = append(errors, ValidationError{
			Path:    path("baseUrl"),
			Message: fmt.Sprintf("baseUrl must be an absolute URL: %s", profile.BaseURL),
		})
	}

	if _, err := ParseDurationString(profile.Timeout); err != nil {
		errors = append(errors, ValidationError{
			Path:    path("timeout"),
			Message: err.Error(),
		})
	}

	for key := range profile.Headers {
		if strings.TrimSpace(key) == "" {
			errors = append(errors, ValidationError{
				Path:    path("headers"),
				Message: "header name cannot be empty",
			})
		}
	}

	if profile.Auth != nil && profile.Auth.Value == "" {
		errors = append(errors, ValidationError{
			Path:    path("auth.value"),
			Message: "auth value is required",
		})
	}

	if field := strings.TrimSpace(profile.ErrorField); field == "$" || field == "$." {
		errors = append(errors, ValidationError{
			Path:    path("errorField"),
			Message: "errorField must name a field, not the whole document",
		})
	}

	return errors
}
