package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder aggregates request latencies in HDR histograms.
//
// Counters are atomic and histograms are guarded by a mutex, so a single
// Recorder may be shared by every request a client sends.
type Recorder struct {
	// Range: 1 microsecond to 1 hour, 3 significant figures by default.
	latencyHist   *hdrhistogram.Histogram
	latencyHistMu sync.Mutex

	// Per-name histograms, keyed by the caller (for example "GET /users").
	namedHists   map[string]*hdrhistogram.Histogram
	namedHistsMu sync.Mutex

	totalRequests   atomic.Int64
	successRequests atomic.Int64
	failedRequests  atomic.Int64
	totalBytes      atomic.Int64

	config Config
}

// Config bounds the histograms. Values are in microseconds.
type Config struct {
	HistogramMin     int64
	HistogramMax     int64
	HistogramSigFigs int
}

// DefaultConfig returns the default histogram bounds.
func DefaultConfig() Config {
	return Config{
		HistogramMin:     1,
		HistogramMax:     3600000000, // 1 hour in microseconds
		HistogramSigFigs: 3,
	}
}

// LatencyStats summarises a histogram.
type LatencyStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P90   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Snapshot is a point-in-time view of a Recorder.
type Snapshot struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalBytes      int64
	Latency         LatencyStats
}

// ErrorRate is the failed share of all recorded requests.
func (s Snapshot) ErrorRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.FailedRequests) / float64(s.TotalRequests)
}

// NewRecorder creates a Recorder with DefaultConfig.
func NewRecorder() *Recorder {
	return NewRecorderWithConfig(DefaultConfig())
}

// NewRecorderWithConfig creates a Recorder with custom histogram bounds.
func NewRecorderWithConfig(config Config) *Recorder {
	return &Recorder{
		latencyHist: hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		namedHists:  make(map[string]*hdrhistogram.Histogram),
		config:      config,
	}
}

// Record adds one request outcome. name may be empty to skip the per-name
// breakdown.
func (r *Recorder) Record(name string, duration time.Duration, success bool, bytes int64) {
	micros := duration.Microseconds()
	if micros < r.config.HistogramMin {
		micros = r.config.HistogramMin
	}
	if micros > r.config.HistogramMax {
		micros = r.config.HistogramMax
	}

	r.latencyHistMu.Lock()
	_ = r.latencyHist.RecordValue(micros)
	r.latencyHistMu.Unlock()

	if name != "" {
		r.namedHistsMu.Lock()
		hist, ok := r.namedHists[name]
		if !ok {
			hist = hdrhistogram.New(r.config.HistogramMin, r.config.HistogramMax, r.config.HistogramSigFigs)
			r.namedHists[name] = hist
		}
		_ = hist.RecordValue(micros)
		r.namedHistsMu.Unlock()
	}

	r.totalRequests.Add(1)
	r.totalBytes.Add(bytes)
	if success {
		r.successRequests.Add(1)
	} else {
		r.failedRequests.Add(1)
	}
}

// Snapshot returns the aggregate view across all names.
func (r *Recorder) Snapshot() Snapshot {
	r.latencyHistMu.Lock()
	stats := statsOf(r.latencyHist)
	r.latencyHistMu.Unlock()

	return Snapshot{
		TotalRequests:   r.totalRequests.Load(),
		SuccessRequests: r.successRequests.Load(),
		FailedRequests:  r.failedRequests.Load(),
		TotalBytes:      r.totalBytes.Load(),
		Latency:         stats,
	}
}

// Latency returns the stats recorded under name.
func (r *Recorder) Latency(name string) (LatencyStats, bool) {
	r.namedHistsMu.Lock()
	defer r.namedHistsMu.Unlock()

	hist, ok := r.namedHists[name]
	if !ok {
		return LatencyStats{}, false
	}
	return statsOf(hist), true
}

// Reset clears all recorded data.
func (r *Recorder) Reset() {
	r.latencyHistMu.Lock()
	r.latencyHist.Reset()
	r.latencyHistMu.Unlock()

	r.namedHistsMu.Lock()
	r.namedHists = make(map[string]*hdrhistogram.Histogram)
	r.namedHistsMu.Unlock()

	r.totalRequests.Store(0)
	r.successRequests.Store(0)
	r.failedRequests.Store(0)
	r.totalBytes.Store(0)
}

func statsOf(h *hdrhistogram.Histogram) LatencyStats {
	us := func(v int64) time.Duration { return time.Duration(v) * time.Microsecond }
	return LatencyStats{
		Count: h.TotalCount(),
		Min:   us(h.Min()),
		Max:   us(h.Max()),
		Mean:  time.Duration(h.Mean() * float64(time.Microsecond)),
		P50:   us(h.ValueAtQuantile(50)),
		P90:   us(h.ValueAtQuantile(90)),
		P95:   us(h.ValueAtQuantile(95)),
		P99:   us(h.ValueAtQuantile(99)),
	}
}
