package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/soryu/requestbuilder/pkg/promise"
)

// QueryItem is one name=value pair of a query string.
type QueryItem struct {
	Name  string
	Value string
}

// WireRequest is the materialized request handed to a Transport. It is
// produced fresh by every call to Request and is not modified afterwards.
type WireRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// HTTPRequest converts the wire request into a *net/http.Request bound to ctx.
func (r *WireRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	for key, values := range r.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return req, nil
}

// RequestBuilder accumulates the parts of a request. Every With method
// mutates the builder and returns it for chaining.
//
// A builder belongs to one goroutine until it is sent; it is not safe for
// concurrent mutation.
type RequestBuilder struct {
	client   *Client
	baseURL  *url.URL
	method   string
	endpoint string
	query    []QueryItem
	body     []byte
	hasBody  bool
	behavior *CombinedBehavior
}

// NewRequestBuilder starts a request for endpoint, resolved against baseURL.
// The builder is not bound to a client; send it with Client.Send.
func NewRequestBuilder(baseURL *url.URL, method, endpoint string) *RequestBuilder {
	var base *url.URL
	if baseURL != nil {
		u := *baseURL
		base = &u
	}
	return &RequestBuilder{
		baseURL:  base,
		method:   strings.ToUpper(method),
		endpoint: endpoint,
		behavior: Combine(),
	}
}

// Get starts a GET request.
func Get(baseURL *url.URL, endpoint string) *RequestBuilder {
	return NewRequestBuilder(baseURL, http.MethodGet, endpoint)
}

// Post starts a POST request. A nil body attaches nothing.
func Post(baseURL *url.URL, endpoint string, body []byte) *RequestBuilder {
	rb := NewRequestBuilder(baseURL, http.MethodPost, endpoint)
	if body != nil {
		rb.WithBody(body)
	}
	return rb
}

// Put starts a PUT request. A nil body attaches nothing.
func Put(baseURL *url.URL, endpoint string, body []byte) *RequestBuilder {
	rb := NewRequestBuilder(baseURL, http.MethodPut, endpoint)
	if body != nil {
		rb.WithBody(body)
	}
	return rb
}

// Delete starts a DELETE request.
func Delete(baseURL *url.URL, endpoint string) *RequestBuilder {
	return NewRequestBuilder(baseURL, http.MethodDelete, endpoint)
}

// Method returns the HTTP method.
func (b *RequestBuilder) Method() string {
	return b.method
}

// BaseURL returns a copy of the base URL the builder resolves against.
func (b *RequestBuilder) BaseURL() *url.URL {
	if b.baseURL == nil {
		return nil
	}
	u := *b.baseURL
	return &u
}

// Behavior returns the behaviors attached so far, in order.
func (b *RequestBuilder) Behavior() *CombinedBehavior {
	return b.behavior
}

// WithQuery appends one query item per non-nil value. Keys are appended in
// sorted order so the result does not depend on map iteration.
func (b *RequestBuilder) WithQuery(params map[string]*string) *RequestBuilder {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		b.query = append(b.query, QueryItem{Name: key, Value: *params[key]})
	}
	return b
}

// WithQueryParams appends every pair of params, in sorted key order.
func (b *RequestBuilder) WithQueryParams(params map[string]string) *RequestBuilder {
	optional := make(map[string]*string, len(params))
	for key, value := range params {
		value := value
		optional[key] = &value
	}
	return b.WithQuery(optional)
}

// WithQueryParam appends a single query item.
func (b *RequestBuilder) WithQueryParam(name, value string) *RequestBuilder {
	return b.WithQueryItems(QueryItem{Name: name, Value: value})
}

// WithQueryItems appends items as given. Duplicate names are kept.
func (b *RequestBuilder) WithQueryItems(items ...QueryItem) *RequestBuilder {
	b.query = append(b.query, items...)
	return b
}

// WithBody attaches the request body.
//
// Attaching a body to a method that does not carry one, or attaching a second
// body, is a programming error and panics.
func (b *RequestBuilder) WithBody(data []byte) *RequestBuilder {
	if !methodCarriesBody(b.method) {
		panic(fmt.Sprintf("requestbuilder: %s requests cannot carry a body", b.method))
	}
	if b.hasBody {
		panic("requestbuilder: request body already attached")
	}
	b.body = data
	b.hasBody = true
	return b
}

// WithBehavior appends behavior to the attached list. Combined behaviors are
// flattened into the list.
func (b *RequestBuilder) WithBehavior(behavior Behavior) *RequestBuilder {
	b.behavior = Combine(b.behavior, behavior)
	return b
}

// WithHeader attaches a single header through a HeaderBehavior.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	return b.WithBehavior(HeaderBehavior{Key: key, Value: value})
}

// Request materializes the wire request: the endpoint joined to the base
// path, the query items in insertion order, the body, and the headers of the
// attached behaviors. It fails with ErrMalformedRequest when the URL cannot
// be resolved.
func (b *RequestBuilder) Request() (*WireRequest, error) {
	return b.materialize(b.behavior)
}

// Send dispatches the request through the client that created the builder.
func (b *RequestBuilder) Send() *promise.Promise[Response] {
	if b.client == nil {
		return promise.Rejected[Response](ErrUnboundRequest)
	}
	return b.client.Send(b)
}

func (b *RequestBuilder) materialize(behavior Behavior) (*WireRequest, error) {
	u, err := b.resolveURL()
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	for key, value := range behavior.AdditionalHeaders() {
		header.Set(key, value)
	}

	var body []byte
	if b.hasBody {
		body = append([]byte{}, b.body...)
	}

	return &WireRequest{
		Method: b.method,
		URL:    u,
		Header: header,
		Body:   body,
	}, nil
}

func (b *RequestBuilder) resolveURL() (*url.URL, error) {
	if b.baseURL == nil || !b.baseURL.IsAbs() || b.baseURL.Host == "" {
		return nil, fmt.Errorf("%w: base URL must be absolute", ErrMalformedRequest)
	}

	path, err := url.PathUnescape(b.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: endpoint %q: %v", ErrMalformedRequest, b.endpoint, err)
	}
	if strings.IndexFunc(path, isControl) >= 0 {
		return nil, fmt.Errorf("%w: endpoint %q contains control characters", ErrMalformedRequest, b.endpoint)
	}

	// Path carries the decoded form and RawPath the caller's escapes, so an
	// escaped slash in the endpoint stays part of one segment.
	u := *b.baseURL
	u.RawPath = joinPath(b.baseURL.EscapedPath(), b.endpoint)
	u.Path = joinPath(u.Path, path)

	if query := encodeQuery(b.query); query != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + query
		} else {
			u.RawQuery = query
		}
	}
	return &u, nil
}

func joinPath(base, endpoint string) string {
	if endpoint == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// encodeQuery keeps insertion order, unlike url.Values.Encode.
func encodeQuery(items []QueryItem) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(item.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(item.Value))
	}
	return sb.String()
}

func methodCarriesBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
