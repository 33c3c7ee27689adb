package main

import (
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/app"
	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/pipeline"
	"domain-name-generator/internal/summary"
)

func main() {
	var (
		rawPath    = flag.String("raw", "", "Output file for raw edge-case generations")
		outputPath = flag.String("out", "", "Output file for evaluated edge cases")
		model      = flag.String("model", "", "Generator model (defaults to the configured base model)")
	)
	flag.Parse()

	ctx, rt, err := app.Start("edgecases")
	if err != nil {
		logrus.Fatalf("startup: %v", err)
	}
	cfg := rt.Config

	raw := cfg.Path(cfg.Data.EdgeCasesRaw)
	if *rawPath != "" {
		raw = *rawPath
	}
	out := cfg.Path(cfg.Data.EdgeCasesEvaluated)
	if *outputPath != "" {
		out = *outputPath
	}
	modelName := cfg.Generator.Model
	if *model != "" {
		modelName = *model
	}

	judge, err := rt.Judge("")
	if err != nil {
		rt.Abort(err, "configure judge")
	}

	gen, err := rt.NewGenerator(modelName, pipeline.ModeLines)
	if err != nil {
		rt.Abort(err, "configure generator")
	}
	rt.Log.WithField("descriptions", len(pipeline.EdgeCaseDescriptions)).Info("generating domains for edge cases")
	records, err := gen.Run(ctx, pipeline.EdgeCaseDescriptions)
	if err != nil {
		rt.Abort(err, "generation interrupted, output not written")
	}
	if err := dataset.WriteJSON(raw, records); err != nil {
		rt.Abort(err, "write raw edge cases")
	}
	rt.Log.WithField("path", raw).Info("raw edge cases saved")

	evaluator, err := rt.NewEvaluator(judge, cfg.Pacing.EdgeCaseDelay, nil)
	if err != nil {
		rt.Abort(err, "configure evaluator")
	}
	rt.Log.WithField("model", judge.Model()).Info("evaluating edge cases")
	evaluated, err := evaluator.Run(ctx, records)
	if err != nil {
		rt.Abort(err, "evaluation interrupted, output not written")
	}
	if err := dataset.WriteJSON(out, evaluated); err != nil {
		rt.Abort(err, "write evaluated edge cases")
	}
	rt.Log.WithField("path", out).Info("evaluated edge cases saved")

	report, err := summary.Summarize(evaluated)
	switch {
	case errors.Is(err, summary.ErrNoData):
		rt.Log.Warn("no edge-case domains were generated")
	case err != nil:
		rt.Abort(err, "summarize edge cases")
	default:
		if err := report.RenderSafety(os.Stdout); err != nil {
			rt.Log.WithError(err).Warn("print report")
		}
	}
	rt.Finish()
}
