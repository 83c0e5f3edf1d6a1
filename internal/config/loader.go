package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soryu/requestbuilder/http"
)

// Config is a set of named client profiles.
type Config struct {
	// Default names the profile used when none is requested.
	Default  string             `json:"default,omitempty" yaml:"default,omitempty"`
	Profiles map[string]Profile `json:"profiles" yaml:"profiles"`
}

// Profile describes one API: where it lives and what every request to it
// carries.
type Profile struct {
	BaseURL string            `json:"baseUrl" yaml:"baseUrl"`
	Timeout string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Auth    *Auth             `json:"auth,omitempty" yaml:"auth,omitempty"`

	// JSON sends Content-Type and Accept application/json on every request.
	JSON bool `json:"json,omitempty" yaml:"json,omitempty"`

	// FailOnStatus rejects responses outside the 2xx range.
	FailOnStatus bool `json:"failOnStatus,omitempty" yaml:"failOnStatus,omitempty"`

	// ErrorField is a JSON path; a non-null value there rejects the response.
	ErrorField string `json:"errorField,omitempty" yaml:"errorField,omitempty"`
}

// Auth is a static credential header. Value may reference an environment
// variable as ${NAME}.
type Auth struct {
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	Value  string `json:"value" yaml:"value"`
}

// LoadConfig loads a profiles file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses profiles data and validates it. The format comes from
// the extension of path and defaults to YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	var config Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	if errs := ValidateConfig(&config); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &config, nil
}

// Profile returns the named profile, or the default one when name is empty.
// A file with a single profile needs no default.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.Default
	}
	if name == "" && len(c.Profiles) == 1 {
		for only := range c.Profiles {
			name = only
		}
	}
	if name == "" {
		return Profile{}, fmt.Errorf("no profile selected; choose one of: %s", strings.Join(c.ProfileNames(), ", "))
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return profile, nil
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TimeoutDuration parses Timeout. Zero means the client default.
func (p Profile) TimeoutDuration() (time.Duration, error) {
	return ParseDurationString(p.Timeout)
}

// Behavior turns the profile into the default behavior of a client:
// headers, then auth, then JSON, then the response checks.
func (p Profile) Behavior() http.Behavior {
	var behaviors []http.Behavior

	keys := make([]string, 0, len(p.Headers))
	for key := range p.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		behaviors = append(behaviors, http.HeaderBehavior{Key: key, Value: p.Headers[key]})
	}

	if p.Auth != nil {
		header := p.Auth.Header
		if header == "" {
			header = "Authorization"
		}
		behaviors = append(behaviors, http.NewAuthenticatingBehavior(header, os.ExpandEnv(p.Auth.Value)))
	}

	if p.JSON {
		behaviors = append(behaviors, http.JSONBehavior{})
	}
	if p.FailOnStatus {
		behaviors = append(behaviors, http.StatusCheckBehavior())
	}
	if p.ErrorField != "" {
		behaviors = append(behaviors, http.NewJSONErrorFieldBehavior(p.ErrorField))
	}

	return http.Combine(behaviors...)
}

// ClientOptions returns the options that configure a client for the
// profile.
func (p Profile) ClientOptions() ([]http.ClientOption, error) {
	timeout, err := p.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	opts := []http.ClientOption{http.WithDefaultBehavior(p.Behavior())}
	if timeout > 0 {
		opts = append(opts, http.WithTimeout(timeout))
	}
	return opts, nil
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	var seconds int
	if _, err := fmt.Sscanf(s, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}
