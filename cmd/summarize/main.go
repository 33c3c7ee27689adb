package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"domain-name-generator/internal/app"
	"domain-name-generator/internal/dataset"
	"domain-name-generator/internal/summary"
)

func main() {
	var (
		inputPath = flag.String("in", "", "Input EvaluationRecord JSON file")
		asJSON    = flag.Bool("json", false, "Print the summary as JSON")
	)
	flag.Parse()

	_, rt, err := app.Start("summarize")
	if err != nil {
		logrus.Fatalf("startup: %v", err)
	}
	cfg := rt.Config

	in := cfg.Path(cfg.Data.EvaluatedDataset)
	if *inputPath != "" {
		in = *inputPath
	}

	records, err := dataset.LoadEvaluations(in)
	if err != nil {
		rt.Abort(err, "load evaluation records")
	}

	report, err := summary.Summarize(records)
	if err != nil {
		rt.Abort(err, "summarize")
	}

	if *asJSON {
		err = report.RenderJSON(os.Stdout)
	} else {
		err = report.Render(os.Stdout)
	}
	if err != nil {
		rt.Abort(err, "print report")
	}
	rt.Finish()
}
