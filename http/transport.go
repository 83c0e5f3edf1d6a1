package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/soryu/requestbuilder/pkg/promise"
)

// Transport performs one exchange. The returned promise fulfills when a
// response was received, whatever its status, and rejects on network or
// protocol failure. It may settle on any goroutine.
type Transport interface {
	Perform(req *WireRequest) *promise.Promise[Response]
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(req *WireRequest) *promise.Promise[Response]

// Perform calls f(req).
func (f TransportFunc) Perform(req *WireRequest) *promise.Promise[Response] {
	return f(req)
}

// HTTPTransport performs exchanges with a *net/http.Client and records
// detailed timing for each one.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client. A nil client gets a 30 second timeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPTransport{client: client}
}

// Perform runs the exchange on its own goroutine.
func (t *HTTPTransport) Perform(req *WireRequest) *promise.Promise[Response] {
	return promise.New(func(fulfill func(Response) bool, reject func(error) bool) {
		go func() {
			resp, err := t.Do(context.Background(), req)
			if err != nil {
				reject(err)
				return
			}
			fulfill(resp)
		}()
	})
}

// Do runs the exchange synchronously.
func (t *HTTPTransport) Do(ctx context.Context, req *WireRequest) (Response, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return Response{}, err
	}

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool

	// TTFB is measured from the end of the last completed connection phase.
	lastPhaseEnd := timing.StartTime

	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			end := time.Now()
			timing.DNSLookupTime = end.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = end
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil && !connectStart.IsZero() {
				end := time.Now()
				timing.TCPConnectTime = end.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = end
			}
		},
		TLSHandshakeStart: func() {
			if connectDone || dnsDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				end := time.Now()
				timing.TLSHandshakeTime = end.Sub(tlsHandshakeStart)
				lastPhaseEnd = end
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}

	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer httpResp.Body.Close()

	transferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return Response{}, err
	}
	timing.ContentTransferTime = time.Since(transferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	return Response{
		Data: body,
		Meta: &ResponseMeta{
			StatusCode:   httpResp.StatusCode,
			Status:       httpResp.Status,
			Header:       httpResp.Header,
			URL:          httpResp.Request.URL,
			ResponseTime: timing.TotalTime,
			Timing:       timing,
		},
	}, nil
}
