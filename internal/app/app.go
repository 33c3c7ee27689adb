package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/ai"
	"domain-name-generator/internal/config"
	"domain-name-generator/internal/metrics"
	"domain-name-generator/internal/ollama"
	"domain-name-generator/internal/store"
	"domain-name-generator/internal/util"
)

// Runtime bundles what every command needs after startup.
type Runtime struct {
	Config   *config.Config
	RunID    string
	Recorder *metrics.Recorder
	Log      *logrus.Entry

	timer util.Timer
	stop  context.CancelFunc
	cache *store.Database
}

// Start loads configuration, configures logging and returns a context that
// is cancelled on SIGINT or SIGTERM.
func Start(command string) (context.Context, *Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cfg.ConfigureLogging()

	runID := uuid.NewString()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rt := &Runtime{
		Config:   cfg,
		RunID:    runID,
		Recorder: metrics.NewRecorder(command),
		Log: logrus.WithFields(logrus.Fields{
			"command": command,
			"run_id":  runID,
		}),
		timer: util.StartTimer(),
		stop:  stop,
	}
	rt.Log.Info("run started")
	return ctx, rt, nil
}

// Finish closes the verdict cache, flushes metrics and releases the signal
// handler. Abort goes through here too, so the cache is closed on every exit.
func (r *Runtime) Finish() {
	defer r.stop()
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			r.Log.WithError(err).Warn("close verdict cache")
		}
		r.cache = nil
	}
	if err := r.Recorder.Flush(r.Config.Metrics.Textfile); err != nil {
		r.Log.WithError(err).Warn("flush metrics")
	}
	r.Log.WithField("elapsed_ms", r.timer.ElapsedMs()).Info("run finished")
}

// Abort logs err, flushes metrics and exits non-zero.
func (r *Runtime) Abort(err error, msg string) {
	r.Log.WithError(err).Error(msg)
	r.Finish()
	os.Exit(1)
}

// Generator returns the local inference client.
func (r *Runtime) Generator() *ollama.Client {
	return ollama.NewClient(ollama.Config{
		BaseURL: r.Config.Generator.BaseURL,
		Timeout: r.Config.Generator.Timeout,
	})
}

// Judge builds the configured judge, chaining the fallback provider when one
// is configured. model overrides the configured judge model when non-empty.
func (r *Runtime) Judge(model string) (*ai.Judge, error) {
	primary, err := r.provider(r.Config.Judge.Provider, model)
	if err != nil {
		return nil, fmt.Errorf("judge provider %s: %w", r.Config.Judge.Provider, err)
	}
	if name := r.Config.Judge.FallbackProvider; name != "" {
		fallback, err := r.provider(name, "")
		switch {
		case errors.Is(err, ai.ErrDisabled):
			r.Log.WithField("provider", name).Warn("fallback provider has no credentials, continuing without it")
		case err != nil:
			return nil, fmt.Errorf("fallback provider %s: %w", name, err)
		default:
			primary = ai.WithFallback(primary, fallback)
		}
	}

	judgeModel := model
	if judgeModel == "" {
		judgeModel = r.modelFor(r.Config.Judge.Provider)
	}
	return ai.NewJudge(primary, judgeModel)
}

func (r *Runtime) provider(name, model string) (ai.Provider, error) {
	judgeCfg := r.Config.Judge
	switch name {
	case config.ProviderGemini:
		if model == "" {
			model = judgeCfg.Model
		}
		return ai.NewGeminiClient(ai.Config{
			APIKey:      judgeCfg.APIKey,
			Model:       model,
			BaseURL:     judgeCfg.BaseURL,
			Temperature: judgeCfg.Temperature,
			Timeout:     judgeCfg.Timeout,
		})
	case config.ProviderOpenAI:
		if model == "" {
			model = r.Config.OpenAI.Model
		}
		return ai.NewOpenAIClient(ai.Config{
			APIKey:      r.Config.OpenAI.APIKey,
			Model:       model,
			BaseURL:     r.Config.OpenAI.BaseURL,
			Temperature: judgeCfg.Temperature,
			Timeout:     judgeCfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

func (r *Runtime) modelFor(provider string) string {
	if provider == config.ProviderOpenAI {
		return r.Config.OpenAI.Model
	}
	return r.Config.Judge.Model
}

// OpenCache opens the verdict cache when one is configured. A nil database
// with a nil error means caching is off. A non-empty refreshModel drops that
// judge model's cached verdicts before the run. The Runtime owns the handle
// and closes it in Finish.
func (r *Runtime) OpenCache(refreshModel string) (*store.Database, error) {
	path := r.Config.Cache.Path
	if path == "" {
		return nil, nil
	}
	if r.cache != nil {
		return r.cache, nil
	}
	db, err := store.Open(path, logrus.GetLevel() < logrus.DebugLevel)
	if err != nil {
		return nil, fmt.Errorf("open verdict cache: %w", err)
	}
	r.cache = db
	log := r.Log.WithField("path", path)
	if refreshModel != "" {
		if err := db.ClearModel(refreshModel); err != nil {
			return nil, fmt.Errorf("clear cached verdicts for %s: %w", refreshModel, err)
		}
		log = log.WithField("refreshed_model", refreshModel)
	}
	log.Info("verdict cache enabled")
	return db, nil
}
