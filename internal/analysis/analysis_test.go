package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgical-vision/scan-service/internal/models"
)

func fastRunner() *Runner {
	r := NewRunner()
	r.StepDelay = time.Millisecond
	return r
}

func testScan(risk string) models.Scan {
	return models.Scan{
		ID:        "scan-1",
		ScanType:  models.ScanTypeMRI,
		RiskLevel: risk,
	}
}

func TestRunAIAnalysis(t *testing.T) {
	r := fastRunner()

	var steps []int
	result, err := r.RunAIAnalysis(context.Background(), testScan(models.RiskLow), func(pct int) {
		steps = append(steps, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, steps)
	assert.Equal(t, models.KindAIAnalysis, result.Kind)
	assert.Equal(t, "scan-1", result.ScanID)
	assert.True(t, models.ValidRiskLevel(result.RiskLevel))
	assert.NotEmpty(t, result.Findings)
	assert.Equal(t, 50, result.Confidence)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestRunAIAnalysisCancellation(t *testing.T) {
	r := NewRunner()
	r.StepDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RunAIAnalysis(ctx, testScan(models.RiskLow), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSegmentation(t *testing.T) {
	r := fastRunner()

	result, err := r.RunSegmentation(context.Background(), testScan(models.RiskLow), nil)
	require.NoError(t, err)

	assert.Equal(t, models.KindSegmentation, result.Kind)
	require.Len(t, result.Regions, 3)
	seen := make(map[string]bool)
	for _, region := range result.Regions {
		assert.Equal(t, "anatomy", region.Layer)
		assert.Greater(t, region.VolumeCC, 0.0)
		assert.False(t, seen[region.Label], "region labels must be distinct")
		seen[region.Label] = true
	}
}

func TestRunSegmentationHighRiskAddsMass(t *testing.T) {
	r := fastRunner()

	result, err := r.RunSegmentation(context.Background(), testScan(models.RiskHigh), nil)
	require.NoError(t, err)

	require.Len(t, result.Regions, 4)
	mass := result.Regions[3]
	assert.Equal(t, "suspected mass", mass.Label)
	assert.Equal(t, "tumor", mass.Layer)
}

func TestRunSimulation(t *testing.T) {
	r := fastRunner()

	result, err := r.RunSimulation(context.Background(), testScan(models.RiskLow), nil)
	require.NoError(t, err)

	assert.Equal(t, models.KindSimulation, result.Kind)
	assert.Contains(t, approaches, result.Approach)
	assert.GreaterOrEqual(t, result.SuccessProbability, 70)
	assert.Less(t, result.SuccessProbability, 95)
	assert.GreaterOrEqual(t, result.EstimatedMinutes, 90)
	assert.Equal(t, simulationSteps, result.Steps)
}

func TestRunSimulationHighRiskPenalty(t *testing.T) {
	r := fastRunner()

	// High risk shifts the success window down by 15 points.
	for i := 0; i < 20; i++ {
		result, err := r.RunSimulation(context.Background(), testScan(models.RiskHigh), nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.SuccessProbability, 55)
		assert.Less(t, result.SuccessProbability, 80)
	}
}

func TestStepCancelsMidRun(t *testing.T) {
	r := NewRunner()
	r.StepDelay = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	var last int
	done := make(chan error, 1)
	go func() {
		_, err := r.RunSegmentation(ctx, testScan(models.RiskLow), func(pct int) {
			last = pct
			if pct == 30 {
				cancel()
			}
		})
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 30, last)
	case <-time.After(time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}
