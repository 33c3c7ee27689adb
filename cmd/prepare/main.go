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
		outputPath = flag.String("out", "", "Output chat JSONL file")
	)
	flag.Parse()

	_, rt, err := app.Start("prepare")
	if err != nil {
		logrus.Fatalf("startup: %v", err)
	}
	cfg := rt.Config

	in := cfg.Path(cfg.Data.SeedDataset)
	if *inputPath != "" {
		in = *inputPath
	}
	out := cfg.Path(cfg.Data.TrainingSet)
	if *outputPath != "" {
		out = *outputPath
	}

	records, err := dataset.LoadGenerations(in)
	if err != nil {
		rt.Abort(err, "load generation records")
	}

	entries := dataset.BuildTrainingSet(records)
	if err := dataset.WriteJSONL(out, entries); err != nil {
		rt.Abort(err, "write training set")
	}

	rt.Log.WithFields(logrus.Fields{
		"input":      len(records),
		"unique":     len(entries),
		"duplicates": len(records) - len(entries),
		"path":       out,
	}).Info("training set formatted")
	rt.Finish()
}
