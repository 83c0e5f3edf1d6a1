package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soryu/requestbuilder/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a --output value.
func ParseFormat(name string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(name)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.WireRequest) string
	FormatResponse(resp http.Response) string
	FormatError(err error) string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode   int               `json:"statusCode" yaml:"statusCode"`
	Status       string            `json:"status" yaml:"status"`
	Headers      map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body         interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	ResponseTime int64             `json:"responseTimeMs" yaml:"responseTimeMs"`
	Timing       *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
	Timestamp    string            `json:"timestamp" yaml:"timestamp"`
}

// ErrorData represents a failed send
type ErrorData struct {
	Error      string `json:"error" yaml:"error"`
	StatusCode int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Code       int    `json:"code,omitempty" yaml:"code,omitempty"`
}

// NewRequestData converts a wire request for serialization.
func NewRequestData(req *http.WireRequest) RequestData {
	return RequestData{
		Method:    req.Method,
		URL:       req.URL.String(),
		Headers:   flattenHeaders(req.Header),
		Body:      decodeBody(req.Body),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// NewResponseData converts a response for serialization. Timing is only
// included when verbose.
func NewResponseData(resp http.Response, verbose bool) ResponseData {
	meta := resp.Meta
	data := ResponseData{
		StatusCode:   meta.StatusCode,
		Status:       meta.Status,
		Headers:      flattenHeaders(meta.Header),
		Body:         decodeBody(resp.Data),
		ResponseTime: meta.ResponseTimeMillis(),
		Timestamp:    time.Now().Format(time.RFC3339),
	}

	if verbose {
		timing := meta.Timing
		data.Timing = &TimingData{
			DNSLookup:       timing.DNSLookupTime.Milliseconds(),
			TCPConnection:   timing.TCPConnectTime.Milliseconds(),
			TLSHandshake:    timing.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: timing.TimeToFirstByte.Milliseconds(),
			ContentTransfer: timing.ContentTransferTime.Milliseconds(),
			Total:           timing.TotalTime.Milliseconds(),
		}
	}
	return data
}

// NewErrorData converts a send failure for serialization.
func NewErrorData(err error) ErrorData {
	data := ErrorData{Error: err.Error()}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		data.StatusCode = statusErr.StatusCode
		data.Code = statusErr.Code()
	}
	return data
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.WireRequest) string {
	return f.marshal(NewRequestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp http.Response) string {
	return f.marshal(NewResponseData(resp, f.Verbose))
}

// FormatError formats a failed send as JSON
func (f *JSONFormatter) FormatError(err error) string {
	return f.marshal(NewErrorData(err))
}

func (f *JSONFormatter) marshal(v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to marshal output: %s"}`, err)
	}
	return string(output) + "\n"
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.WireRequest) string {
	return f.marshal(NewRequestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp http.Response) string {
	return f.marshal(NewResponseData(resp, f.Verbose))
}

// FormatError formats a failed send as YAML
func (f *YAMLFormatter) FormatError(err error) string {
	return f.marshal(NewErrorData(err))
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal output: %s\n", err)
	}
	return "---\n" + string(output)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}

func flattenHeaders(header map[string][]string) map[string]string {
	if len(header) == 0 {
		return nil
	}
	flat := make(map[string]string, len(header))
	for key, values := range header {
		flat[key] = strings.Join(values, ", ")
	}
	return flat
}

// decodeBody returns parsed JSON when the body is JSON and the raw text
// otherwise.
func decodeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return parsed
}
