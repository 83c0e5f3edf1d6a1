package http

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/soryu/requestbuilder/pkg/log"
	"github.com/soryu/requestbuilder/pkg/promise"
)

const defaultTimeout = 30 * time.Second

// Client sends requests built against one base URL. It owns the transport,
// a default behavior merged into every send, and the executor on which every
// settlement continuation runs.
//
// Client is safe for concurrent use; each send owns its wire request and its
// promise.
type Client struct {
	baseURL         *url.URL
	transport       Transport
	httpClient      *http.Client
	timeout         time.Duration
	defaultBehavior Behavior
	executor        promise.Executor
	logger          log.Logger
	codec           JSONCodec
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a client for baseURL, which must be absolute.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidBaseURL, baseURL)
	}

	client := &Client{
		baseURL:         u,
		timeout:         defaultTimeout,
		defaultBehavior: EmptyBehavior{},
		executor:        promise.Main(),
		logger:          log.NewNoopLogger(),
		codec:           StdJSONCodec{},
	}

	for _, option := range options {
		option(client)
	}

	if client.transport == nil {
		httpClient := client.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: client.timeout}
		}
		client.transport = NewHTTPTransport(httpClient)
	}

	return client, nil
}

// WithTransport replaces the HTTP transport, typically with a mock in tests.
func WithTransport(transport Transport) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithHTTPClient sets the *net/http.Client used by the default transport.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default transport. It has no effect
// together with WithHTTPClient or WithTransport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithDefaultBehavior sets the behavior merged in front of every request's
// own behaviors.
func WithDefaultBehavior(behavior Behavior) ClientOption {
	return func(c *Client) {
		if behavior == nil {
			behavior = EmptyBehavior{}
		}
		c.defaultBehavior = behavior
	}
}

// WithHeader adds a header to the default behavior.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultBehavior = Combine(c.defaultBehavior, HeaderBehavior{Key: key, Value: value})
	}
}

// WithExecutor sets the continuation context. Use promise.Inline to run
// continuations on the goroutine that completed the exchange.
func WithExecutor(exec promise.Executor) ClientOption {
	return func(c *Client) {
		c.executor = exec
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger log.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithJSONCodec replaces the codec used by the JSON helpers.
func WithJSONCodec(codec JSONCodec) ClientOption {
	return func(c *Client) {
		if codec != nil {
			c.codec = codec
		}
	}
}

// BaseURL returns a copy of the client's base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// Executor returns the continuation context of the client.
func (c *Client) Executor() promise.Executor {
	return c.executor
}

// DefaultBehavior returns the behavior merged into every send.
func (c *Client) DefaultBehavior() Behavior {
	return c.defaultBehavior
}

// Codec returns the JSON codec of the client.
func (c *Client) Codec() JSONCodec {
	return c.codec
}

// Request starts a request bound to the client.
func (c *Client) Request(method, endpoint string) *RequestBuilder {
	rb := NewRequestBuilder(c.baseURL, method, endpoint)
	rb.client = c
	return rb
}

// Get starts a GET request bound to the client.
func (c *Client) Get(endpoint string) *RequestBuilder {
	return c.Request(http.MethodGet, endpoint)
}

// Post starts a POST request bound to the client. A nil body attaches nothing.
func (c *Client) Post(endpoint string, body []byte) *RequestBuilder {
	rb := c.Request(http.MethodPost, endpoint)
	if body != nil {
		rb.WithBody(body)
	}
	return rb
}

// Put starts a PUT request bound to the client. A nil body attaches nothing.
func (c *Client) Put(endpoint string, body []byte) *RequestBuilder {
	rb := c.Request(http.MethodPut, endpoint)
	if body != nil {
		rb.WithBody(body)
	}
	return rb
}

// Delete starts a DELETE request bound to the client.
func (c *Client) Delete(endpoint string) *RequestBuilder {
	return c.Request(http.MethodDelete, endpoint)
}

// Send dispatches b and returns a promise settled on the client's executor.
//
// The client's default behavior is merged in front of the builder's, the
// wire request is materialized, BeforeSend runs, and the transport is called.
// A completed exchange then runs AfterSuccess, whose first error rejects the
// send; a transport failure runs AfterFailure and rejects with the transport
// error. A request that cannot be materialized rejects with
// ErrMalformedRequest and never reaches the transport.
//
// Send panics if b is nil or was built against a different base URL.
func (c *Client) Send(b *RequestBuilder) *promise.Promise[Response] {
	if b == nil {
		panic(fmt.Sprintf("requestbuilder: nil request sent to client base %s", c.baseURL))
	}
	if b.baseURL == nil || b.baseURL.String() != c.baseURL.String() {
		panic(fmt.Sprintf("requestbuilder: request base %v does not match client base %s", b.baseURL, c.baseURL))
	}

	behavior := Combine(c.defaultBehavior, b.behavior)
	on := promise.On(c.executor)

	req, err := b.materialize(behavior)
	if err != nil {
		c.logger.Debug("request not sent",
			log.String("method", b.method),
			log.String("endpoint", b.endpoint),
			log.Err(err),
		)
		return promise.Rejected[Response](err, on)
	}

	behavior.BeforeSend(req)

	exchange := c.transport.Perform(req)
	if exchange == nil {
		exchange = promise.Rejected[Response](ErrInvalidResponse)
	}

	return promise.Handle(exchange, func(resp Response) (Response, error) {
		if resp.Meta == nil {
			behavior.AfterFailure(req, nil, ErrInvalidResponse)
			return Response{}, ErrInvalidResponse
		}
		if err := behavior.AfterSuccess(req, resp.Meta, resp.Data); err != nil {
			c.logger.Debug("response rejected",
				log.String("method", req.Method),
				log.String("url", req.URL.String()),
				log.Int("status", resp.Meta.StatusCode),
				log.Err(err),
			)
			return Response{}, err
		}
		return resp, nil
	}, func(err error) (Response, error) {
		behavior.AfterFailure(req, nil, err)
		return Response{}, err
	}, on)
}
