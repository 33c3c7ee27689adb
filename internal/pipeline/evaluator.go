package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/ai"
	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/match"
	"domain-name-generator/internal/metrics"
	"domain-name-generator/internal/util"
)

// Judge scores a single candidate. *ai.Judge satisfies it.
type Judge interface {
	Evaluate(ctx context.Context, description, domain string) ai.Outcome
	Model() string
}

// VerdictCache stores verdicts between runs. *store.Database satisfies it.
type VerdictCache interface {
	Lookup(model, description, domain string) (dataset.DomainVerdict, bool, error)
	SaveVerdict(model, description, runID string, verdict dataset.DomainVerdict) error
}

// EvaluatorOptions configures an Evaluator. Cache and Recorder are optional.
type EvaluatorOptions struct {
	Judge    Judge
	Pacer    *Pacer
	Cache    VerdictCache
	Recorder *metrics.Recorder
	RunID    string
}

// Evaluator walks generated records and asks the judge about every domain.
type Evaluator struct {
	judge    Judge
	pacer    *Pacer
	cache    VerdictCache
	recorder *metrics.Recorder
	runID    string
	log      *logrus.Entry
}

// NewEvaluator validates opts and returns an Evaluator.
func NewEvaluator(opts EvaluatorOptions) (*Evaluator, error) {
	if opts.Judge == nil {
		return nil, fmt.Errorf("evaluator: judge is required")
	}
	return &Evaluator{
		judge:    opts.Judge,
		pacer:    opts.Pacer,
		cache:    opts.Cache,
		recorder: opts.Recorder,
		runID:    opts.RunID,
		log: logrus.WithFields(logrus.Fields{
			"run_id": opts.RunID,
			"judge":  opts.Judge.Model(),
		}),
	}, nil
}

// Run evaluates every record in order. Records with a blank description are
// skipped and comma-joined suggestion strings are flattened first. On
// cancellation the records completed so far are returned with ctx's error.
func (e *Evaluator) Run(ctx context.Context, records []dataset.GenerationRecord) ([]dataset.EvaluationRecord, error) {
	evaluated := make([]dataset.EvaluationRecord, 0, len(records))
	for i, record := range records {
		if strings.TrimSpace(record.BusinessDescription) == "" {
			e.log.WithField("index", i).Debug("skipping record without description")
			continue
		}

		verdicts := make([]dataset.DomainVerdict, 0, len(record.SuggestedDomains))
		for _, domain := range match.SplitList(record.SuggestedDomains) {
			verdict, err := e.evaluate(ctx, record.BusinessDescription, domain)
			if err != nil {
				return evaluated, err
			}
			verdicts = append(verdicts, verdict)
		}

		evaluated = append(evaluated, dataset.EvaluationRecord{
			BusinessDescription: record.BusinessDescription,
			EvaluatedDomains:    verdicts,
		})
		e.log.WithFields(logrus.Fields{
			"progress": fmt.Sprintf("%d/%d", i+1, len(records)),
			"domains":  len(verdicts),
		}).Info("record evaluated")
	}
	return evaluated, nil
}

func (e *Evaluator) evaluate(ctx context.Context, description, domain string) (dataset.DomainVerdict, error) {
	entry := e.log.WithFields(logrus.Fields{
		"description": description,
		"domain":      domain,
	})

	if e.cache != nil {
		cached, ok, err := e.cache.Lookup(e.judge.Model(), description, domain)
		if err != nil {
			entry.WithError(err).Warn("verdict cache lookup failed")
		} else if ok {
			e.recorder.CacheHit()
			cached.HasValidTLD = match.HasValidTLD(domain)
			return cached, nil
		}
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return dataset.DomainVerdict{}, err
	}

	timer := util.StartTimer()
	outcome := e.judge.Evaluate(ctx, description, domain)
	if outcome.Fallback {
		if err := ctx.Err(); err != nil {
			return dataset.DomainVerdict{}, err
		}
		e.recorder.ObserveRequest("judge", metrics.OutcomeFallback, timer.Elapsed())
		e.recorder.JudgeFallback()
		entry.WithError(outcome.Err).WithField("raw", outcome.Raw).Warn("judge reply unusable, using default verdict")
		return outcome.Verdict, nil
	}
	e.recorder.ObserveRequest("judge", metrics.OutcomeOK, timer.Elapsed())

	if e.cache != nil {
		if err := e.cache.SaveVerdict(e.judge.Model(), description, e.runID, outcome.Verdict); err != nil {
			entry.WithError(err).Warn("verdict cache write failed")
		}
	}
	entry.WithField("elapsed_ms", timer.ElapsedMs()).Debug("verdict received")
	return outcome.Verdict, nil
}
