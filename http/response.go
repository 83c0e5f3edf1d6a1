package http

import (
	"net/http"
	"net/url"
	"time"
)

// TimingInfo stores detailed timing information for an HTTP exchange.
// Transports that cannot observe a phase leave it zero.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte (TTFB) is the time from the last completed connection
	// phase to the first response byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// ResponseMeta is everything about a response except its body.
type ResponseMeta struct {
	StatusCode   int
	Status       string
	Header       http.Header
	URL          *url.URL
	ResponseTime time.Duration
	Timing       TimingInfo
}

// Response is the outcome of a completed exchange: the body bytes plus the
// response metadata.
type Response struct {
	Data []byte
	Meta *ResponseMeta
}

// Text returns the body as a string.
func (r Response) Text() string {
	return string(r.Data)
}

// StatusCode is a shortcut for Meta.StatusCode.
func (r Response) StatusCode() int {
	if r.Meta == nil {
		return 0
	}
	return r.Meta.StatusCode
}

// GetHeader returns the first value of the named header.
func (m *ResponseMeta) GetHeader(key string) string {
	if m == nil || m.Header == nil {
		return ""
	}
	return m.Header.Get(key)
}

// IsSuccess returns true if the status code is in the 2xx range.
func (m *ResponseMeta) IsSuccess() bool {
	return m != nil && m.StatusCode >= 200 && m.StatusCode < 300
}

// IsRedirect returns true if the status code is in the 3xx range.
func (m *ResponseMeta) IsRedirect() bool {
	return m != nil && m.StatusCode >= 300 && m.StatusCode < 400
}

// IsClientError returns true if the status code is in the 4xx range.
func (m *ResponseMeta) IsClientError() bool {
	return m != nil && m.StatusCode >= 400 && m.StatusCode < 500
}

// IsServerError returns true if the status code is in the 5xx range.
func (m *ResponseMeta) IsServerError() bool {
	return m != nil && m.StatusCode >= 500 && m.StatusCode < 600
}

// ResponseTimeMillis returns the response time in milliseconds.
func (m *ResponseMeta) ResponseTimeMillis() int64 {
	return m.ResponseTime.Milliseconds()
}
