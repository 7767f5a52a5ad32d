package models

import (
	"time"
)

// Analysis kinds, one per simulated processing flow.
const (
	KindAIAnalysis   = "ai_analysis"
	KindSegmentation = "segmentation"
	KindSimulation   = "simulation"
)

// AIAnalysisResult is produced by the simulated AI analysis flow.
type AIAnalysisResult struct {
	Kind        string    `json:"kind"` // always KindAIAnalysis
	ScanID      string    `json:"scan_id"`
	RiskLevel   string    `json:"risk_level"`
	Findings    []string  `json:"findings"`
	Confidence  int       `json:"confidence"`
	CompletedAt time.Time `json:"completed_at"`
}

// SegmentedRegion is one labeled region in a segmentation result.
type SegmentedRegion struct {
	Label    string  `json:"label"`
	VolumeCC float64 `json:"volume_cc"`
	Layer    string  `json:"layer"`
}

// SegmentationResult is produced by the simulated segmentation flow.
type SegmentationResult struct {
	Kind        string            `json:"kind"` // always KindSegmentation
	ScanID      string            `json:"scan_id"`
	Regions     []SegmentedRegion `json:"regions"`
	CompletedAt time.Time         `json:"completed_at"`
}

// SimulationResult is produced by the simulated surgical planning flow.
type SimulationResult struct {
	Kind               string    `json:"kind"` // always KindSimulation
	ScanID             string    `json:"scan_id"`
	Approach           string    `json:"approach"`
	SuccessProbability int       `json:"success_probability"`
	EstimatedMinutes   int       `json:"estimated_minutes"`
	Steps              []string  `json:"steps"`
	CompletedAt        time.Time `json:"completed_at"`
}
