package http

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/soryu/requestbuilder/pkg/promise"
)

const testBaseURL = "https://api.example.com"

// mockTransport returns a fixed outcome and remembers every request.
type mockTransport struct {
	mu       sync.Mutex
	requests []*WireRequest
	resp     Response
	err      error
	async    bool
}

func newMockTransport(status int, body string) *mockTransport {
	return &mockTransport{
		resp: Response{
			Data: []byte(body),
			Meta: &ResponseMeta{
				StatusCode: status,
				Status:     http.StatusText(status),
				Header:     http.Header{},
			},
		},
	}
}

func failingTransport(err error) *mockTransport {
	return &mockTransport{err: err}
}

func (m *mockTransport) Perform(req *WireRequest) *promise.Promise[Response] {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	return promise.New(func(fulfill func(Response) bool, reject func(error) bool) {
		settle := func() {
			if m.err != nil {
				reject(m.err)
				return
			}
			fulfill(m.resp)
		}
		if m.async {
			go settle()
			return
		}
		settle()
	})
}

func (m *mockTransport) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockTransport) last() *WireRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// verifyingTransport hands each request to check before returning resp.
func verifyingTransport(t *testing.T, check func(*WireRequest), resp Response) Transport {
	return TransportFunc(func(req *WireRequest) *promise.Promise[Response] {
		check(req)
		return promise.Resolved(resp)
	})
}

// recordingBehavior counts hook calls.
type recordingBehavior struct {
	BaseBehavior
	headers    map[string]string
	successErr error

	before  atomic.Int32
	success atomic.Int32
	failure atomic.Int32
	lastErr atomic.Value
}

func (r *recordingBehavior) AdditionalHeaders() map[string]string {
	return r.headers
}

func (r *recordingBehavior) BeforeSend(*WireRequest) {
	r.before.Add(1)
}

func (r *recordingBehavior) AfterSuccess(*WireRequest, *ResponseMeta, []byte) error {
	r.success.Add(1)
	return r.successErr
}

func (r *recordingBehavior) AfterFailure(_ *WireRequest, _ *ResponseMeta, err error) {
	r.failure.Add(1)
	r.lastErr.Store(err)
}

func newTestClient(t *testing.T, transport Transport, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithTransport(transport), WithExecutor(promise.Inline)}, opts...)
	client, err := NewClient(testBaseURL, opts...)
	require.NoError(t, err)
	return client
}

func await[T any](t *testing.T, p *promise.Promise[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := p.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "promise never settled")
	return v, err
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
