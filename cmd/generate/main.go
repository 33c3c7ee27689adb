package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/app"
	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/pipeline"
)

func main() {
	var (
		guardrails = flag.Bool("guardrails", false, "Use the fine-tuned model and keep only name.tld tokens ending in .com/.org/.net")
		model      = flag.String("model", "", "Generator model (defaults to the configured base or fine-tuned model)")
		outputPath = flag.String("out", "", "Output GenerationRecord JSON file")
	)
	flag.Parse()

	ctx, rt, err := app.Start("generate")
	if err != nil {
		logrus.Fatalf("startup: %v", err)
	}
	cfg := rt.Config

	mode := pipeline.ModeLines
	modelName := cfg.Generator.Model
	out := cfg.Path(cfg.Data.BaseDataset)
	if *guardrails {
		mode = pipeline.ModeGuardrailed
		modelName = cfg.Generator.FinetunedModel
		out = cfg.Path(cfg.Data.GuardrailedDataset)
	}
	if *model != "" {
		modelName = *model
	}
	if *outputPath != "" {
		out = *outputPath
	}

	gen, err := rt.NewGenerator(modelName, mode)
	if err != nil {
		rt.Abort(err, "configure generator")
	}

	rt.Log.WithFields(logrus.Fields{
		"model":        modelName,
		"mode":         mode.String(),
		"descriptions": len(pipeline.BusinessDescriptions),
	}).Info("generating domain suggestions")

	records, err := gen.Run(ctx, pipeline.BusinessDescriptions)
	if err != nil {
		rt.Abort(err, "generation interrupted, output not written")
	}
	if err := dataset.WriteJSON(out, records); err != nil {
		rt.Abort(err, "write dataset")
	}

	rt.Log.WithFields(logrus.Fields{
		"path":    out,
		"samples": len(records),
	}).Info("dataset saved")
	rt.Finish()
}
