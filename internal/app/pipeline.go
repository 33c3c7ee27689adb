package app

import (
	"errors"
	"time"

	"domain-name-generator/internal/ai"
	"domain-name-generator/internal/pipeline"
	"domain-name-generator/internal/store"
)

// NewGenerator wires the local client into a paced generator.
func (r *Runtime) NewGenerator(model string, mode pipeline.Mode) (*pipeline.Generator, error) {
	return pipeline.NewGenerator(pipeline.GeneratorOptions{
		Client:   r.Generator(),
		Model:    model,
		Mode:     mode,
		Pacer:    pipeline.NewPacer(r.Config.Pacing.GenerateDelay),
		Recorder: r.Recorder,
		RunID:    r.RunID,
	})
}

// NewEvaluator wires the judge into a paced evaluator. cache may be nil.
func (r *Runtime) NewEvaluator(judge *ai.Judge, delay time.Duration, cache *store.Database) (*pipeline.Evaluator, error) {
	if judge == nil {
		return nil, errors.New("evaluator: judge is required")
	}
	opts := pipeline.EvaluatorOptions{
		Judge:    judge,
		Pacer:    pipeline.NewPacer(delay),
		Recorder: r.Recorder,
		RunID:    r.RunID,
	}
	if cache != nil {
		opts.Cache = cache
	}
	return pipeline.NewEvaluator(opts)
}
