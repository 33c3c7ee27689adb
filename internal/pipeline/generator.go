package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/match"
	"domain-name-generator/internal/metrics"
	"domain-name-generator/internal/util"
)

// Completer produces raw text for a prompt. *ollama.Client satisfies it.
type Completer interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Mode selects how raw generator output is split into candidates.
type Mode int

const (
	// ModeLines keeps every non-blank line of the reply.
	ModeLines Mode = iota
	// ModeGuardrailed keeps only name.tld tokens with an accepted suffix.
	ModeGuardrailed
)

func (m Mode) String() string {
	switch m {
	case ModeLines:
		return "lines"
	case ModeGuardrailed:
		return "guardrailed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Parse splits a raw reply according to the mode.
func (m Mode) Parse(output string) []string {
	if m == ModeGuardrailed {
		return match.ExtractDomains(output)
	}
	return match.SplitLines(output)
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Client   Completer
	Model    string
	Mode     Mode
	Pacer    *Pacer
	Recorder *metrics.Recorder
	RunID    string
}

// Generator asks the local model for domain suggestions, one description at
// a time.
type Generator struct {
	client   Completer
	model    string
	mode     Mode
	pacer    *Pacer
	recorder *metrics.Recorder
	log      *logrus.Entry
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("generator: client is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("generator: model is required")
	}
	return &Generator{
		client:   opts.Client,
		model:    opts.Model,
		mode:     opts.Mode,
		pacer:    opts.Pacer,
		recorder: opts.Recorder,
		log: logrus.WithFields(logrus.Fields{
			"run_id": opts.RunID,
			"model":  opts.Model,
			"mode":   opts.Mode.String(),
		}),
	}, nil
}

// Suggest returns the candidates for one description. Transport failures are
// logged and yield an empty, non-nil list.
func (g *Generator) Suggest(ctx context.Context, description string) []string {
	timer := util.StartTimer()
	output, err := g.client.Generate(ctx, g.model, PromptFor(description))
	if err != nil {
		g.recorder.ObserveRequest("ollama", metrics.OutcomeError, timer.Elapsed())
		g.log.WithError(err).WithField("description", description).Warn("generation failed")
		return []string{}
	}
	g.recorder.ObserveRequest("ollama", metrics.OutcomeOK, timer.Elapsed())

	domains := g.mode.Parse(output)
	if domains == nil {
		domains = []string{}
	}
	g.recorder.Generated(len(domains))
	g.log.WithFields(logrus.Fields{
		"description": description,
		"domains":     len(domains),
		"elapsed_ms":  timer.ElapsedMs(),
	}).Debug("suggestions received")
	return domains
}

// Run generates a record per description in order. When ctx is cancelled the
// records produced so far are returned alongside ctx's error.
func (g *Generator) Run(ctx context.Context, descriptions []string) ([]dataset.GenerationRecord, error) {
	records := make([]dataset.GenerationRecord, 0, len(descriptions))
	for i, description := range descriptions {
		if err := g.pacer.Wait(ctx); err != nil {
			return records, err
		}
		domains := g.Suggest(ctx, description)
		if err := ctx.Err(); err != nil {
			return records, err
		}
		records = append(records, dataset.GenerationRecord{
			BusinessDescription: description,
			SuggestedDomains:    domains,
		})
		g.log.WithFields(logrus.Fields{
			"progress": fmt.Sprintf("%d/%d", i+1, len(descriptions)),
		}).Info("description processed")
	}
	return records, nil
}
