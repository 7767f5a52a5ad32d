// Package analysis implements the simulated processing flows of the
// dashboard: AI analysis, segmentation and surgical simulation. Each run is
// a paced progress loop that synthesizes a result from fixed pools at 100%.
// Runs stop cleanly on context cancellation, so an abandoned viewer never
// leaves a loop updating dead state.
package analysis

import (
	"context"
	"math/rand"
	"time"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/services"
)

// ProgressFunc receives the completion percentage after each step.
type ProgressFunc func(percent int)

// Runner paces the simulated flows.
type Runner struct {
	StepDelay time.Duration // per 10% step, default 300ms
	rng       *rand.Rand
}

func NewRunner() *Runner {
	return &Runner{
		StepDelay: 300 * time.Millisecond,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// step sleeps one pacing interval, honoring cancellation.
func (r *Runner) step(ctx context.Context) error {
	t := time.NewTimer(r.StepDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) runSteps(ctx context.Context, progress ProgressFunc) error {
	for pct := 10; pct <= 100; pct += 10 {
		if err := r.step(ctx); err != nil {
			return err
		}
		if progress != nil {
			progress(pct)
		}
	}
	return nil
}

// RunAIAnalysis fakes an AI pass over the scan and reuses the risk
// assessment generator for the result payload.
func (r *Runner) RunAIAnalysis(ctx context.Context, scan models.Scan, progress ProgressFunc) (models.AIAnalysisResult, error) {
	if err := r.runSteps(ctx, progress); err != nil {
		return models.AIAnalysisResult{}, err
	}

	assessment := services.AssessScan(scan.ID, scan.ScanType)
	return models.AIAnalysisResult{
		Kind:        models.KindAIAnalysis,
		ScanID:      scan.ID,
		RiskLevel:   assessment.Level,
		Findings:    assessment.Findings,
		Confidence:  assessment.Confidence,
		CompletedAt: time.Now(),
	}, nil
}

var regionLabels = []string{
	"frontal lobe",
	"temporal lobe",
	"parietal lobe",
	"occipital lobe",
	"cerebellum",
	"brainstem",
}

// RunSegmentation fakes a segmentation pass producing three labeled
// regions with random volumes.
func (r *Runner) RunSegmentation(ctx context.Context, scan models.Scan, progress ProgressFunc) (models.SegmentationResult, error) {
	if err := r.runSteps(ctx, progress); err != nil {
		return models.SegmentationResult{}, err
	}

	idx := r.rng.Perm(len(regionLabels))[:3]
	regions := make([]models.SegmentedRegion, 0, 3)
	for _, i := range idx {
		regions = append(regions, models.SegmentedRegion{
			Label:    regionLabels[i],
			VolumeCC: 50 + r.rng.Float64()*150,
			Layer:    "anatomy",
		})
	}
	if scan.RiskLevel == models.RiskHigh || scan.RiskLevel == models.RiskMedium {
		regions = append(regions, models.SegmentedRegion{
			Label:    "suspected mass",
			VolumeCC: 2 + r.rng.Float64()*12,
			Layer:    "tumor",
		})
	}

	return models.SegmentationResult{
		Kind:        models.KindSegmentation,
		ScanID:      scan.ID,
		Regions:     regions,
		CompletedAt: time.Now(),
	}, nil
}

var approaches = []string{
	"endoscopic transnasal",
	"pterional craniotomy",
	"suboccipital approach",
	"stereotactic biopsy",
}

var simulationSteps = []string{
	"Patient positioning and registration",
	"Incision planning",
	"Approach corridor dissection",
	"Lesion access and resection",
	"Hemostasis and closure",
}

// RunSimulation fakes a surgical planning run.
func (r *Runner) RunSimulation(ctx context.Context, scan models.Scan, progress ProgressFunc) (models.SimulationResult, error) {
	if err := r.runSteps(ctx, progress); err != nil {
		return models.SimulationResult{}, err
	}

	success := 70 + r.rng.Intn(25)
	if scan.RiskLevel == models.RiskHigh {
		success -= 15
	}

	return models.SimulationResult{
		Kind:               models.KindSimulation,
		ScanID:             scan.ID,
		Approach:           approaches[r.rng.Intn(len(approaches))],
		SuccessProbability: success,
		EstimatedMinutes:   90 + r.rng.Intn(180),
		Steps:              simulationSteps,
		CompletedAt:        time.Now(),
	}, nil
}
