package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fac2x2/domain/trial"
)

// ReportWriter exports a design result as a workbook
type ReportWriter struct{}

// NewReportWriter creates a new design report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

const designSheet = "Design"

// WriteDesign renders one design result into a single-sheet workbook and
// streams it to w.
func (rw *ReportWriter) WriteDesign(w io.Writer, result *trial.DesignResult) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(designSheet)
	if err != nil {
		return fmt.Errorf("failed to create design sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	row := 1
	set := func(label string, value interface{}) {
		_ = f.SetCellValue(designSheet, fmt.Sprintf("A%d", row), label)
		_ = f.SetCellValue(designSheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	params := result.Params
	set("Scenario", result.ScenarioID.String())
	set("Sample size", params.SampleSize)
	set("Control one-year event rate", params.RateC)
	set("Hazard ratio A", params.HazardRatios.SimpleA)
	set("Hazard ratio B", params.HazardRatios.SimpleB)
	set("Hazard ratio AB", params.HazardRatios.SimpleAB)
	set("Censoring window", fmt.Sprintf("%.2f - %.2f", params.MinCensor, params.MaxCensor))
	set("Alpha (two-sided)", params.Alpha)
	set("Seed", result.Seed)
	row++

	set("Event probability: control", result.Events.Control)
	set("Event probability: A", result.Events.A)
	set("Event probability: B", result.Events.B)
	set("Event probability: AB", result.Events.AB)
	set("Event probability: average", result.Events.Average)
	set("Expected events", result.ExpectedEvents)
	row++

	set("Power: overall A", result.PowerOverallA)
	set("Power: overall B", result.PowerOverallB)
	row++

	for _, pd := range result.Procedures {
		set(fmt.Sprintf("Procedure %s power", pd.Procedure), pd.Power)
		for _, h := range pd.Procedure.Tests() {
			if crit, ok := pd.CriticalValues.Threshold(h); ok {
				set(fmt.Sprintf("  critical value (%s)", h), crit)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
