package main

import (
	"errors"
	"flag"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/ai"
	"domain-name-generator/internal/app"
	"domain-name-generator/internal/config"
	"domain-name-generator/internal/dataset"
)

func main() {
	var (
		count      = flag.Int("count", 100, "Number of business descriptions to request")
		model      = flag.String("model", "", "Hosted model used for seeding (defaults to judge.seed_model for gemini)")
		outputPath = flag.String("out", "", "Output GenerationRecord JSON file")
		rawPath    = flag.String("raw", "", "Where to keep the raw reply when it cannot be decoded")
	)
	flag.Parse()

	ctx, rt, err := app.Start("seed")
	if err != nil {
		logrus.Fatalf("startup: %v", err)
	}
	cfg := rt.Config

	out := cfg.Path(cfg.Data.SeedDataset)
	if *outputPath != "" {
		out = *outputPath
	}
	raw := cfg.Path(cfg.Data.SeedRaw)
	if *rawPath != "" {
		raw = *rawPath
	}
	modelName := *model
	if modelName == "" && cfg.Judge.Provider == config.ProviderGemini {
		modelName = cfg.Judge.SeedModel
	}

	judge, err := rt.Judge(modelName)
	if err != nil {
		rt.Abort(err, "configure hosted model")
	}

	rt.Log.WithFields(logrus.Fields{
		"model": judge.Model(),
		"count": *count,
	}).Info("requesting seed dataset")

	records, err := judge.Seed(ctx, *count)
	if err != nil {
		var seedErr *ai.SeedError
		if errors.As(err, &seedErr) {
			if werr := dataset.WriteText(raw, seedErr.Raw); werr != nil {
				rt.Log.WithError(werr).Warn("save raw reply")
			} else {
				rt.Log.WithField("path", raw).Info("raw reply saved for inspection")
			}
		}
		rt.Abort(err, "seed dataset")
	}

	if err := dataset.WriteJSON(out, records); err != nil {
		rt.Abort(err, "write seed dataset")
	}
	rt.Log.WithFields(logrus.Fields{
		"path":    out,
		"samples": len(records),
	}).Info("seed dataset saved")
	rt.Finish()
}
