package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	r := NewRecorder("evaluate")
	r.ObserveRequest("gemini", OutcomeOK, 2*time.Second)
	r.ObserveRequest("gemini", OutcomeOK, time.Second)
	r.ObserveRequest("gemini", OutcomeFallback, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Requests.WithLabelValues("gemini", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Requests.WithLabelValues("gemini", OutcomeFallback)))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.ObserveRequest("ollama", OutcomeOK, time.Second)
	r.JudgeFallback()
	r.CacheHit()
	r.Generated(2)
	assert.NoError(t, r.Flush(filepath.Join(t.TempDir(), "x.prom")))
}

func TestFlushWritesTextfile(t *testing.T) {
	r := NewRecorder("generate")
	r.DomainsGenerated.Add(3)

	path := filepath.Join(t.TempDir(), "textfile", "domaingen.prom")
	require.NoError(t, r.Flush(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `domaingen_domains_generated_total{command="generate"} 3`)
	assert.Contains(t, string(data), "domaingen_last_run_timestamp_seconds")
}

func TestFlushEmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, NewRecorder("summarize").Flush(""))
}

func TestCounterHelpers(t *testing.T) {
	r := NewRecorder("evaluate")
	r.JudgeFallback()
	r.CacheHit()
	r.CacheHit()
	r.Generated(3)
	r.Generated(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.JudgeFallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.CacheHits))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.DomainsGenerated))
}
