package http

import (
	"sync"
	"time"

	"github.com/soryu/requestbuilder/pkg/log"
	"github.com/soryu/requestbuilder/pkg/metrics"
)

// LoggingBehavior writes the request lifecycle to a structured logger.
// Header values are never logged.
type LoggingBehavior struct {
	BaseBehavior
	logger log.Logger
}

// NewLoggingBehavior logs to logger. A nil logger discards everything.
func NewLoggingBehavior(logger log.Logger) LoggingBehavior {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return LoggingBehavior{logger: logger}
}

func (b LoggingBehavior) BeforeSend(req *WireRequest) {
	b.logger.Debug("sending request",
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Int("body_bytes", len(req.Body)),
	)
}

func (b LoggingBehavior) AfterSuccess(req *WireRequest, resp *ResponseMeta, body []byte) error {
	b.logger.Info("request completed",
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(body)),
		log.Duration("elapsed", resp.ResponseTime),
	)
	return nil
}

func (b LoggingBehavior) AfterFailure(req *WireRequest, resp *ResponseMeta, err error) {
	fields := []log.Field{
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Err(err),
	}
	if resp != nil {
		fields = append(fields, log.Int("status", resp.StatusCode))
	}
	b.logger.Error("request failed", fields...)
}

// MetricsBehavior records the latency and outcome of every send in a
// metrics.Recorder, keyed by "METHOD /path".
//
// A send counts as successful when the transport completed with a 2xx
// status. When an earlier behavior rejects the response the send is recorded
// as failed. Rejections raised by later behaviors are not seen here.
//
// Build it with NewMetricsBehavior. The zero value records nothing.
type MetricsBehavior struct {
	BaseBehavior
	recorder *metrics.Recorder
	started  *sync.Map // *WireRequest -> time.Time
	now      func() time.Time
}

// NewMetricsBehavior feeds recorder.
func NewMetricsBehavior(recorder *metrics.Recorder) MetricsBehavior {
	return MetricsBehavior{
		recorder: recorder,
		started:  &sync.Map{},
		now:      time.Now,
	}
}

// Recorder returns the recorder fed by the behavior.
func (b MetricsBehavior) Recorder() *metrics.Recorder {
	return b.recorder
}

func (b MetricsBehavior) BeforeSend(req *WireRequest) {
	if b.started == nil {
		return
	}
	b.started.Store(req, b.clock())
}

func (b MetricsBehavior) AfterSuccess(req *WireRequest, resp *ResponseMeta, body []byte) error {
	b.record(req, resp, resp.IsSuccess(), int64(len(body)))
	return nil
}

func (b MetricsBehavior) AfterFailure(req *WireRequest, resp *ResponseMeta, _ error) {
	b.record(req, resp, false, 0)
}

// AfterSkipped releases the start time of a send rejected by an earlier
// behavior and counts it as failed.
func (b MetricsBehavior) AfterSkipped(req *WireRequest, resp *ResponseMeta, _ error) {
	b.record(req, resp, false, 0)
}

func (b MetricsBehavior) record(req *WireRequest, resp *ResponseMeta, success bool, bytes int64) {
	elapsed := b.elapsed(req, resp)
	if b.recorder == nil {
		return
	}
	b.recorder.Record(metricName(req), elapsed, success, bytes)
}

func (b MetricsBehavior) clock() time.Time {
	if b.now == nil {
		return time.Now()
	}
	return b.now()
}

func (b MetricsBehavior) elapsed(req *WireRequest, resp *ResponseMeta) time.Duration {
	if b.started != nil {
		if start, ok := b.started.LoadAndDelete(req); ok {
			return b.clock().Sub(start.(time.Time))
		}
	}
	if resp != nil {
		return resp.ResponseTime
	}
	return 0
}

func metricName(req *WireRequest) string {
	path := req.URL.Path
	if path == "" {
		path = "/"
	}
	return req.Method + " " + path
}
