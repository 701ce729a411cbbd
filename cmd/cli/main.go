package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"fac2x2/adapters/excel"
	"fac2x2/app"
	"fac2x2/domain/trial"
	"fac2x2/internal/config"
	"fac2x2/internal/report"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	n := flag.Int("n", 4600, "total sample size")
	rateC := flag.Float64("rate-c", 0.0445, "control-arm one-year event rate")
	hrA := flag.Float64("hr-a", 0.80, "simple A hazard ratio")
	hrB := flag.Float64("hr-b", 0.80, "simple B hazard ratio")
	hrAB := flag.Float64("hr-ab", 0.72, "simple AB hazard ratio")
	minCensor := flag.Float64("min-censor", 4.0, "minimum censoring time")
	maxCensor := flag.Float64("max-censor", 8.4, "maximum censoring time")
	alpha := flag.Float64("alpha", 0.05, "two-sided family-wise alpha")
	digits := flag.Int("digits", 4, "critical value decimal places")
	seed := flag.Int64("seed", cfg.Compute.Seed, "integration seed")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	asMarkdown := flag.Bool("markdown", false, "print the report as markdown")
	xlsxPath := flag.String("xlsx", "", "also write an xlsx report to this path")
	flag.Parse()

	req := app.DesignRequest{
		Params: trial.DesignParams{
			SampleSize: *n,
			RateC:      *rateC,
			HazardRatios: trial.HazardRatios{
				SimpleA:  *hrA,
				SimpleB:  *hrB,
				SimpleAB: *hrAB,
			},
			MinCensor:    *minCensor,
			MaxCensor:    *maxCensor,
			Alpha:        *alpha,
			Digits:       *digits,
			Correlations: trial.DefaultDesignCorrelations(),
		},
		Seed: *seed,
	}

	result, err := app.NewDesignService(nil).Run(context.Background(), req)
	if err != nil {
		log.Fatalf("[cli] design run failed: %v", err)
	}

	switch {
	case *asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("[cli] encode failed: %v", err)
		}
	case *asMarkdown:
		fmt.Print(report.DesignMarkdown(result))
	default:
		printSummary(result)
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			log.Fatalf("[cli] create %s: %v", *xlsxPath, err)
		}
		defer f.Close()
		if err := excel.NewReportWriter().WriteDesign(f, result); err != nil {
			log.Fatalf("[cli] xlsx write failed: %v", err)
		}
		fmt.Printf("wrote %s\n", *xlsxPath)
	}
}

func printSummary(result *trial.DesignResult) {
	fmt.Printf("expected events: %.1f\n", result.ExpectedEvents)
	fmt.Printf("event probabilities C/A/B/AB: %.4f %.4f %.4f %.4f (avg %.4f)\n",
		result.Events.Control, result.Events.A, result.Events.B, result.Events.AB, result.Events.Average)
	fmt.Printf("power overall A: %.3f\n", result.PowerOverallA)
	fmt.Printf("power overall B: %.3f\n", result.PowerOverallB)
	for _, pd := range result.Procedures {
		fmt.Printf("procedure %-12s power %.3f  critical values:", pd.Procedure, pd.Power)
		for _, h := range pd.Procedure.Tests() {
			if crit, ok := pd.CriticalValues.Threshold(h); ok {
				fmt.Printf(" %s=%.4g", h, crit)
			}
		}
		fmt.Println()
	}
}
