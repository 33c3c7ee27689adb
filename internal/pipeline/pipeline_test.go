package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domain-name-generator/internal/ai"
	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/match"
	"domain-name-generator/internal/metrics"
)

type fakeCompleter struct {
	replies map[string]string
	err     error
	prompts []string
}

func (f *fakeCompleter) Generate(_ context.Context, model, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for desc, reply := range f.replies {
		if strings.Contains(prompt, desc) {
			return reply, nil
		}
	}
	return "", nil
}

type fakeJudge struct {
	mu     sync.Mutex
	calls  []string
	scores map[string]float64
	fail   map[string]bool
}

func (f *fakeJudge) Model() string { return "fake-judge" }

func (f *fakeJudge) Evaluate(_ context.Context, description, domain string) ai.Outcome {
	f.mu.Lock()
	f.calls = append(f.calls, domain)
	f.mu.Unlock()
	if f.fail[domain] {
		return ai.DefaultOutcome(domain, "not json", errors.New("malformed"))
	}
	score := f.scores[domain]
	return ai.Outcome{
		Verdict: dataset.DomainVerdict{
			Domain:       domain,
			Relevance:    score,
			Brandability: score,
			Safety:       1,
			HasValidTLD:  match.HasValidTLD(domain),
			Comment:      "ok",
		},
	}
}

type memoryCache struct {
	rows  map[string]dataset.DomainVerdict
	saves int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{rows: map[string]dataset.DomainVerdict{}}
}

func (m *memoryCache) key(model, description, domain string) string {
	return model + "|" + description + "|" + match.NormalizeKey(domain)
}

func (m *memoryCache) Lookup(model, description, domain string) (dataset.DomainVerdict, bool, error) {
	v, ok := m.rows[m.key(model, description, domain)]
	return v, ok, nil
}

func (m *memoryCache) SaveVerdict(model, description, _ string, verdict dataset.DomainVerdict) error {
	m.saves++
	m.rows[m.key(model, description, verdict.Domain)] = verdict
	return nil
}

func TestPromptFor(t *testing.T) {
	prompt := PromptFor("organic coffee shop")
	assert.True(t, strings.HasPrefix(prompt, "Suggest 3 brandable domain names for a business described as: \"organic coffee shop\".\n"))
	assert.Contains(t, prompt, "MUST end in .com, .org, or .net.")
	assert.True(t, strings.HasSuffix(prompt, "without any other text or numbering."))
}

func TestDescriptionLists(t *testing.T) {
	assert.Len(t, BusinessDescriptions, 10)
	assert.Len(t, EdgeCaseDescriptions, 10)
}

func TestGeneratorModes(t *testing.T) {
	reply := "brewhaus.com\n\n- roastery.net -\nnot-a-domain\nroast.io\n"
	tests := []struct {
		name string
		mode Mode
		want []string
	}{
		{"lines", ModeLines, []string{"brewhaus.com", "- roastery.net -", "not-a-domain", "roast.io"}},
		{"guardrailed", ModeGuardrailed, []string{"brewhaus.com", "roastery.net"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeCompleter{replies: map[string]string{"organic coffee shop": reply}}
			gen, err := NewGenerator(GeneratorOptions{Client: client, Model: "m", Mode: tt.mode})
			require.NoError(t, err)

			got := gen.Suggest(context.Background(), "organic coffee shop")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuardrailedOutputIsClean(t *testing.T) {
	client := &fakeCompleter{replies: map[string]string{"x": "--alpha.com.\n .beta-.org\n-gamma.net-"}}
	gen, err := NewGenerator(GeneratorOptions{Client: client, Model: "m", Mode: ModeGuardrailed})
	require.NoError(t, err)

	for _, domain := range gen.Suggest(context.Background(), "x") {
		assert.Equal(t, strings.Trim(domain, "-. "), domain)
		assert.True(t, match.HasValidTLD(domain), domain)
	}
}

func TestGeneratorTransportFailureYieldsEmptyList(t *testing.T) {
	rec := metrics.NewRecorder("generate")
	client := &fakeCompleter{err: errors.New("connection refused")}
	gen, err := NewGenerator(GeneratorOptions{Client: client, Model: "m", Recorder: rec})
	require.NoError(t, err)

	records, err := gen.Run(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotNil(t, r.SuggestedDomains)
		assert.Empty(t, r.SuggestedDomains)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Requests.WithLabelValues("ollama", metrics.OutcomeError)))
}

func TestGeneratorRunStopsOnCancel(t *testing.T) {
	client := &fakeCompleter{replies: map[string]string{"a": "a.com"}}
	gen, err := NewGenerator(GeneratorOptions{Client: client, Model: "m", Pacer: NewPacer(time.Hour)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records, err := gen.Run(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}

type cancellingCompleter struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingCompleter) Generate(ctx context.Context, _, _ string) (string, error) {
	c.calls++
	c.cancel()
	return "", ctx.Err()
}

func TestGeneratorRunCancelledDuringRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := &cancellingCompleter{cancel: cancel}
	gen, err := NewGenerator(GeneratorOptions{Client: client, Model: "m"})
	require.NoError(t, err)

	records, err := gen.Run(ctx, []string{"organic coffee shop"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
	assert.Equal(t, 1, client.calls)
}

func TestNewGeneratorValidates(t *testing.T) {
	_, err := NewGenerator(GeneratorOptions{Model: "m"})
	assert.Error(t, err)
	_, err = NewGenerator(GeneratorOptions{Client: &fakeCompleter{}, Model: " "})
	assert.Error(t, err)
}

func TestEvaluatorRun(t *testing.T) {
	judge := &fakeJudge{
		scores: map[string]float64{"brewhaus.com": 0.9, "roast.net": 0.7},
		fail:   map[string]bool{"example.xyz": true},
	}
	rec := metrics.NewRecorder("evaluate")
	ev, err := NewEvaluator(EvaluatorOptions{Judge: judge, Recorder: rec})
	require.NoError(t, err)

	records := []dataset.GenerationRecord{
		{BusinessDescription: "organic coffee shop", SuggestedDomains: []string{"brewhaus.com, roast.net", "example.xyz"}},
		{BusinessDescription: "  ", SuggestedDomains: []string{"skipped.com"}},
		{BusinessDescription: "empty", SuggestedDomains: nil},
	}
	out, err := ev.Run(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, out, 2)

	verdicts := out[0].EvaluatedDomains
	require.Len(t, verdicts, 3)
	assert.Equal(t, "brewhaus.com", verdicts[0].Domain)
	assert.Equal(t, 0.9, verdicts[0].Relevance)
	assert.Equal(t, "roast.net", verdicts[1].Domain)

	fallback := verdicts[2]
	assert.Equal(t, "example.xyz", fallback.Domain)
	assert.False(t, fallback.HasValidTLD)
	assert.Zero(t, fallback.Relevance)
	assert.Zero(t, fallback.Brandability)
	assert.Zero(t, fallback.Safety)
	assert.Equal(t, ai.FallbackComment, fallback.Comment)

	assert.Equal(t, "empty", out[1].BusinessDescription)
	assert.NotNil(t, out[1].EvaluatedDomains)
	assert.Empty(t, out[1].EvaluatedDomains)

	assert.NotContains(t, judge.calls, "skipped.com")
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.JudgeFallbacks))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Requests.WithLabelValues("judge", metrics.OutcomeOK)))
}

func TestEvaluatorUsesCache(t *testing.T) {
	judge := &fakeJudge{
		scores: map[string]float64{"brewhaus.com": 0.8},
		fail:   map[string]bool{"bad.com": true},
	}
	cache := newMemoryCache()
	rec := metrics.NewRecorder("evaluate")
	ev, err := NewEvaluator(EvaluatorOptions{Judge: judge, Cache: cache, Recorder: rec, RunID: "run-1"})
	require.NoError(t, err)

	records := []dataset.GenerationRecord{
		{BusinessDescription: "coffee", SuggestedDomains: []string{"brewhaus.com", "bad.com"}},
	}
	_, err = ev.Run(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.saves, "fallback verdicts are not cached")

	out, err := ev.Run(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 0.8, out[0].EvaluatedDomains[0].Relevance)
	assert.Equal(t, []string{"brewhaus.com", "bad.com", "bad.com"}, judge.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CacheHits))
}

func TestEvaluatorStopsOnCancel(t *testing.T) {
	judge := &fakeJudge{}
	ev, err := NewEvaluator(EvaluatorOptions{Judge: judge, Pacer: NewPacer(time.Hour)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := ev.Run(ctx, []dataset.GenerationRecord{
		{BusinessDescription: "coffee", SuggestedDomains: []string{"a.com"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out)
	assert.Empty(t, judge.calls)
}

func TestPacerSpacing(t *testing.T) {
	p := NewPacer(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	require.NoError(t, p.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
	assert.Equal(t, 40*time.Millisecond, p.Delay())
}

func TestPacerZeroDelayNeverWaits(t *testing.T) {
	p := NewPacer(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), time.Second)

	var nilPacer *Pacer
	assert.NoError(t, nilPacer.Wait(context.Background()))
}
