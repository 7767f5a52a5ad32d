package models

import (
	"time"
)

// Scan type values accepted by the upload endpoint.
const (
	ScanTypeCT         = "ct"
	ScanTypeMRI        = "mri"
	ScanTypeXRay       = "xray"
	ScanTypeUltrasound = "ultrasound"
)

// Risk levels assigned by the assessment generator.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Scan processing statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Scan struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	ScanType    string    `json:"scan_type"`
	RiskLevel   string    `json:"risk_level"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	FileSize    int64     `json:"file_size"`
	FileType    string    `json:"file_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// RiskAssessment is the mock AI output attached to every upload.
type RiskAssessment struct {
	ScanID     string    `json:"scan_id"`
	Level      string    `json:"level"`
	Findings   []string  `json:"findings"`
	Confidence int       `json:"confidence"`
	AssessedAt time.Time `json:"assessed_at"`
}

// Stats is the aggregate shape returned by GET /api/stats.
type Stats struct {
	TotalScans     int64 `json:"totalScans"`
	HighRiskCases  int64 `json:"highRiskCases"`
	RecentScans    int64 `json:"recentScans"`
	ActivePatients int64 `json:"activePatients"`
}

// ValidScanType reports whether t is one of the accepted scan types.
func ValidScanType(t string) bool {
	switch t {
	case ScanTypeCT, ScanTypeMRI, ScanTypeXRay, ScanTypeUltrasound:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the scan statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ValidRiskLevel reports whether l is one of the risk levels.
func ValidRiskLevel(l string) bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}
