package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fac2x2/domain/core"
	"fac2x2/internal/testkit"
)

func sweepOverSampleSizes(sizes ...int) SweepRequest {
	req := SweepRequest{}
	for _, n := range sizes {
		params := testkit.CanonicalDesignParams()
		params.SampleSize = n
		req.Scenarios = append(req.Scenarios, DesignRequest{Params: params, Seed: 42})
	}
	return req
}

func TestSweepService_SampleSizeSweep(t *testing.T) {
	svc := NewSweepService(NewDesignService(nil), 3)
	result, err := svc.Run(context.Background(), sweepOverSampleSizes(3000, 4600, 6000))
	require.NoError(t, err)
	require.Len(t, result.Results, 3)

	// results come back in request order
	assert.Equal(t, 3000, result.Results[0].Params.SampleSize)
	assert.Equal(t, 4600, result.Results[1].Params.SampleSize)
	assert.Equal(t, 6000, result.Results[2].Params.SampleSize)

	// power grows with sample size
	assert.Less(t, result.Results[0].PowerOverallA, result.Results[1].PowerOverallA)
	assert.Less(t, result.Results[1].PowerOverallA, result.Results[2].PowerOverallA)

	// summaries cover the observed range
	assert.Equal(t, result.Results[0].PowerOverallA, result.OverallA.Min)
	assert.Equal(t, result.Results[2].PowerOverallA, result.OverallA.Max)
	assert.GreaterOrEqual(t, result.OverallA.Mean, result.OverallA.Min)
	assert.LessOrEqual(t, result.OverallA.Mean, result.OverallA.Max)
	assert.Equal(t, result.Results[1].PowerOverallA, result.OverallA.Median)

	require.Len(t, result.Summaries, 3)
	for _, s := range result.Summaries {
		assert.NotEmpty(t, s.Procedure)
		assert.GreaterOrEqual(t, s.Mean, s.Min)
		assert.LessOrEqual(t, s.Mean, s.Max)
	}
}

func TestSweepService_Deterministic(t *testing.T) {
	svc := NewSweepService(NewDesignService(nil), 4)
	req := sweepOverSampleSizes(3000, 4600)

	a, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, b.Results, len(a.Results))
	for i := range a.Results {
		a.Results[i].ScenarioID, b.Results[i].ScenarioID = "", ""
		a.Results[i].RuntimeMs, b.Results[i].RuntimeMs = 0, 0
		assert.Equal(t, a.Results[i], b.Results[i], "scenario %d", i)
	}
	assert.Equal(t, a.OverallA, b.OverallA)
	assert.Equal(t, a.Summaries, b.Summaries)
}

func TestSweepService_ScenarioErrorAbortsBatch(t *testing.T) {
	svc := NewSweepService(NewDesignService(nil), 2)
	req := sweepOverSampleSizes(3000, 4600)
	req.Scenarios[1].Params.Alpha = 2.0

	_, err := svc.Run(context.Background(), req)
	require.Error(t, err)
	assert.True(t, core.IsDomainError(err), "expected domain error, got %v", err)
}

func TestSweepService_EmptyBatch(t *testing.T) {
	svc := NewSweepService(NewDesignService(nil), 2)
	_, err := svc.Run(context.Background(), SweepRequest{})
	require.Error(t, err)
	assert.True(t, core.IsDomainError(err))
}
