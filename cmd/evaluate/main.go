package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/app"
	"domain-name-generator/internal/dataset"
)

func main() {
	var (
		inputPath  = flag.String("in", "", "Input GenerationRecord JSON file")
		outputPath = flag.String("out", "", "Output EvaluationRecord JSON file")
		base       = flag.Bool("base", false, "Evaluate the base model dataset instead of the fine-tuned one")
		refresh    = flag.Bool("refresh", false, "Drop the judge model's cached verdicts before evaluating")
	)
	flag.Parse()

	ctx, rt, err := app.Start("evaluate")
	if err != nil {
		logrus.Fatalf("startup: %v", err)
	}
	cfg := rt.Config

	in := cfg.Path(cfg.Data.FinetunedDataset)
	out := cfg.Path(cfg.Data.EvaluatedFinetuned)
	if *base {
		in = cfg.Path(cfg.Data.BaseDataset)
		out = cfg.Path(cfg.Data.EvaluatedDataset)
	}
	if *inputPath != "" {
		in = *inputPath
	}
	if *outputPath != "" {
		out = *outputPath
	}

	records, err := dataset.LoadGenerations(in)
	if err != nil {
		rt.Abort(err, "load generation records")
	}

	judge, err := rt.Judge("")
	if err != nil {
		rt.Abort(err, "configure judge")
	}
	refreshModel := ""
	if *refresh {
		refreshModel = judge.Model()
	}
	cache, err := rt.OpenCache(refreshModel)
	if err != nil {
		rt.Abort(err, "open cache")
	}

	evaluator, err := rt.NewEvaluator(judge, cfg.Pacing.EvaluateDelay, cache)
	if err != nil {
		rt.Abort(err, "configure evaluator")
	}

	rt.Log.WithFields(logrus.Fields{
		"input":    in,
		"records":  len(records),
		"judge":    judge.Provider().Name(),
		"model":    judge.Model(),
		"interval": cfg.Pacing.EvaluateDelay,
	}).Info("evaluating dataset")

	evaluated, err := evaluator.Run(ctx, records)
	if err != nil {
		rt.Abort(err, "evaluation interrupted, output not written")
	}
	if err := dataset.WriteJSON(out, evaluated); err != nil {
		rt.Abort(err, "write evaluated dataset")
	}

	rt.Log.WithFields(logrus.Fields{
		"path":    out,
		"records": len(evaluated),
	}).Info("evaluated dataset saved")
	rt.Finish()
}
