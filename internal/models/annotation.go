package models

import (
	"time"
)

// Annotation severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Annotation is a user note tied to a position in normalized scene space.
// 2D slice annotations carry a SliceIndex and use only X/Y.
type Annotation struct {
	ID         string    `json:"id"`
	ScanID     string    `json:"scan_id"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Z          float64   `json:"z"`
	Text       string    `json:"text"`
	Severity   string    `json:"severity"`
	SliceIndex int       `json:"slice_index"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidSeverity reports whether s is one of the annotation severities.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}
