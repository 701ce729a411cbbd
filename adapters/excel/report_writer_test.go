package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"fac2x2/domain/trial"
)

func TestWriteDesign_RoundTrip(t *testing.T) {
	result := &trial.DesignResult{
		ScenarioID: "scn-xlsx",
		Params: trial.DesignParams{
			SampleSize:   4600,
			RateC:        0.0445,
			HazardRatios: trial.HazardRatios{SimpleA: 0.80, SimpleB: 0.80, SimpleAB: 0.72},
			MinCensor:    4.0,
			MaxCensor:    8.4,
			Alpha:        0.05,
			Digits:       4,
			Correlations: trial.DefaultDesignCorrelations(),
		},
		Seed:           42,
		Events:         trial.ArmEventProbabilities{Control: 0.2446, A: 0.2013, B: 0.2013, AB: 0.1832, Average: 0.2076},
		ExpectedEvents: 954.9,
		PowerOverallA:  0.718,
		PowerOverallB:  0.718,
		Procedures: []trial.ProcedureDesign{
			{
				Procedure: trial.ProcedureHalfHalf,
				CriticalValues: trial.CriticalValueSet{
					Procedure: trial.ProcedureHalfHalf,
					SimpleA:   0.0269,
					SimpleAB:  0.0269,
				},
				Power: 0.941,
			},
		},
	}

	var buf bytes.Buffer
	if err := NewReportWriter().WriteDesign(&buf, result); err != nil {
		t.Fatalf("WriteDesign failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("workbook did not reopen: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Design" {
		t.Fatalf("unexpected sheets: %v", got)
	}

	rows, err := f.GetRows("Design")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	cells := map[string]string{}
	for _, row := range rows {
		if len(row) >= 2 {
			cells[row[0]] = row[1]
		}
	}

	for label, want := range map[string]string{
		"Scenario":       "scn-xlsx",
		"Sample size":    "4600",
		"Seed":           "42",
		"Hazard ratio A": "0.8",
	} {
		if cells[label] != want {
			t.Fatalf("cell %q = %q, want %q (rows: %v)", label, cells[label], want, rows)
		}
	}
	if _, ok := cells["Procedure 1/2-1/2 power"]; !ok {
		t.Fatalf("missing procedure power row; rows: %v", rows)
	}
}
