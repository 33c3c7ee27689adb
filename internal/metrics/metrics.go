package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Recorder collects counters for a single batch run. Each run owns its own
// registry so the textfile only ever describes that run.
type Recorder struct {
	registry *prometheus.Registry
	command  string

	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	JudgeFallbacks   prometheus.Counter
	CacheHits        prometheus.Counter
	DomainsGenerated prometheus.Counter
	LastRun          prometheus.Gauge
}

// NewRecorder registers the run metrics, labelled with the command name.
func NewRecorder(command string) *Recorder {
	labels := prometheus.Labels{"command": command}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		command:  command,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "domaingen_llm_requests_total",
			Help:        "LLM requests by client and outcome.",
			ConstLabels: labels,
		}, []string{"client", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "domaingen_llm_request_duration_seconds",
			Help:        "Latency of LLM requests.",
			Buckets:     []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			ConstLabels: labels,
		}, []string{"client"}),
		JudgeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "domaingen_judge_fallbacks_total",
			Help:        "Verdicts replaced by the zero-score default.",
			ConstLabels: labels,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "domaingen_verdict_cache_hits_total",
			Help:        "Verdicts served from the local cache.",
			ConstLabels: labels,
		}),
		DomainsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "domaingen_domains_generated_total",
			Help:        "Candidate domains produced by the generator.",
			ConstLabels: labels,
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "domaingen_last_run_timestamp_seconds",
			Help:        "Unix time the run finished.",
			ConstLabels: labels,
		}),
	}
	r.registry.MustRegister(r.Requests, r.RequestDuration, r.JudgeFallbacks, r.CacheHits, r.DomainsGenerated, r.LastRun)
	return r
}

// ObserveRequest records one request to client taking d.
func (r *Recorder) ObserveRequest(client, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.Requests.WithLabelValues(client, outcome).Inc()
	r.RequestDuration.WithLabelValues(client).Observe(d.Seconds())
}

// JudgeFallback counts a verdict replaced by the default.
func (r *Recorder) JudgeFallback() {
	if r != nil {
		r.JudgeFallbacks.Inc()
	}
}

// CacheHit counts a verdict served from the cache.
func (r *Recorder) CacheHit() {
	if r != nil {
		r.CacheHits.Inc()
	}
}

// Generated adds n candidate domains.
func (r *Recorder) Generated(n int) {
	if r != nil && n > 0 {
		r.DomainsGenerated.Add(float64(n))
	}
}

// Flush stamps the run time and writes the node-exporter textfile. An empty
// path is a no-op.
func (r *Recorder) Flush(path string) error {
	if r == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	r.LastRun.SetToCurrentTime()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
