package handlers

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"
)

type ScanUploadedEvent struct {
	ScanID      string `json:"scan_id"`
	ObjectName  string `json:"object_name"`
	ScanType    string `json:"scan_type"`
	RiskLevel   string `json:"risk_level"`
	PatientName string `json:"patient_name"`
}

type ScanAssessedEvent struct {
	ScanID     string   `json:"scan_id"`
	Level      string   `json:"level"`
	Findings   []string `json:"findings"`
	Confidence int      `json:"confidence"`
}

type ScanDeletedEvent struct {
	ScanID string `json:"scan_id"`
}

func HandleScanUploaded(msg *nats.Msg) {
	log.Println("[NATS] Received scans.uploaded")

	var payload ScanUploadedEvent
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Printf("[NATS] scans.uploaded: invalid payload: %v", err)
		_ = msg.Nak()
		return
	}

	log.Printf("[NATS] Scan uploaded: %s (%s, risk=%s)", payload.ScanID, payload.ScanType, payload.RiskLevel)

	_ = msg.Ack()
}

func HandleScanAssessed(msg *nats.Msg) {
	log.Println("[NATS] Received scans.assessed")

	var payload ScanAssessedEvent
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Printf("[NATS] scans.assessed: invalid payload: %v", err)
		_ = msg.Nak()
		return
	}

	log.Printf("[NATS] Scan assessed: %s level=%s confidence=%d", payload.ScanID, payload.Level, payload.Confidence)

	_ = msg.Ack()
}

func HandleScanDeleted(msg *nats.Msg) {
	log.Println("[NATS] Received scans.deleted")

	var payload ScanDeletedEvent
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Printf("[NATS] scans.deleted: invalid payload: %v", err)
		_ = msg.Nak()
		return
	}

	log.Printf("[NATS] Scan removed: %s", payload.ScanID)

	_ = msg.Ack()
}
