// Package report renders design and analysis results as markdown and HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"fac2x2/domain/trial"
)

// DesignMarkdown builds a markdown summary of one design run.
func DesignMarkdown(result *trial.DesignResult) string {
	var b strings.Builder
	params := result.Params

	fmt.Fprintf(&b, "# Factorial design summary\n\n")
	fmt.Fprintf(&b, "Scenario `%s`, seed %d.\n\n", result.ScenarioID, result.Seed)
	fmt.Fprintf(&b, "## Design\n\n")
	fmt.Fprintf(&b, "| parameter | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| sample size | %d |\n", params.SampleSize)
	fmt.Fprintf(&b, "| control one-year event rate | %.4f |\n", params.RateC)
	fmt.Fprintf(&b, "| hazard ratios (A, B, AB) | %.3f, %.3f, %.3f |\n",
		params.HazardRatios.SimpleA, params.HazardRatios.SimpleB, params.HazardRatios.SimpleAB)
	fmt.Fprintf(&b, "| censoring window | %.2f to %.2f |\n", params.MinCensor, params.MaxCensor)
	fmt.Fprintf(&b, "| alpha (two-sided) | %.4f |\n\n", params.Alpha)

	fmt.Fprintf(&b, "## Events\n\n")
	fmt.Fprintf(&b, "Arm event probabilities C/A/B/AB: %.4f / %.4f / %.4f / %.4f (average %.4f).\n",
		result.Events.Control, result.Events.A, result.Events.B, result.Events.AB, result.Events.Average)
	fmt.Fprintf(&b, "Expected events: %.1f.\n\n", result.ExpectedEvents)

	fmt.Fprintf(&b, "## Power\n\n")
	fmt.Fprintf(&b, "| test | power |\n|---|---|\n")
	fmt.Fprintf(&b, "| overall A | %.3f |\n", result.PowerOverallA)
	fmt.Fprintf(&b, "| overall B | %.3f |\n", result.PowerOverallB)
	for _, pd := range result.Procedures {
		fmt.Fprintf(&b, "| procedure %s | %.3f |\n", pd.Procedure, pd.Power)
	}
	b.WriteString("\n## Critical values\n\n")
	for _, pd := range result.Procedures {
		fmt.Fprintf(&b, "- **%s**:", pd.Procedure)
		for _, h := range pd.Procedure.Tests() {
			if crit, ok := pd.CriticalValues.Threshold(h); ok {
				fmt.Fprintf(&b, " %s %.4g;", h, crit)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AnalysisMarkdown builds a markdown summary of one analysis run.
func AnalysisMarkdown(result *trial.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Factorial analysis summary\n\n")
	fmt.Fprintf(&b, "| effect | hazard ratio | 95%% CI | p-value |\n|---|---|---|---|\n")
	writeEffect := func(name string, e trial.EffectSummary) {
		fmt.Fprintf(&b, "| %s | %.4f | (%.4f, %.4f) | %.4g |\n", name, e.HazardRatio, e.Lower, e.Upper, e.PValue)
	}
	writeEffect("overall A", result.OverallA)
	writeEffect("simple A", result.SimpleA)
	writeEffect("simple AB", result.SimpleAB)

	fmt.Fprintf(&b, "\nEstimated correlations: %.4f (overall/simple A), %.4f (overall/simple AB), %.4f (simple A/simple AB).\n\n",
		result.Correlations.OverallSimpleA, result.Correlations.OverallSimpleAB, result.Correlations.SimpleASimpleAB)

	fmt.Fprintf(&b, "## Conclusions\n\n")
	for _, pa := range result.Procedures {
		fmt.Fprintf(&b, "- **%s**:", pa.Procedure)
		d := pa.Decisions
		if d.OverallA != "" {
			fmt.Fprintf(&b, " overall A %s;", d.OverallA)
		}
		if d.SimpleA != "" {
			fmt.Fprintf(&b, " simple A %s;", d.SimpleA)
		}
		if d.SimpleAB != "" {
			fmt.Fprintf(&b, " simple AB %s;", d.SimpleAB)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
