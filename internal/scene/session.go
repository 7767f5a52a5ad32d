package scene

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/storage"
)

// Session ties one scan to one live scene and its render loop. Closing the
// session stops the loop and releases the scene; a closed session never
// ticks again.
type Session struct {
	ScanID string
	Scene  *Scene
	Loop   *Loop

	cancel context.CancelFunc

	mu          sync.Mutex
	annotations []models.Annotation
}

// Manager owns the viewer sessions, one per scan at most.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// heartRate keys the vessel pulse to the assessed risk.
func heartRate(riskLevel string) float64 {
	switch riskLevel {
	case models.RiskHigh:
		return 110
	case models.RiskMedium:
		return 88
	default:
		return 72
	}
}

// Open bootstraps a scene for the scan and starts its render loop. A second
// Open for the same scan returns the existing session. A zero-area viewport
// yields a nil session, mirroring the null-mount no-op of the viewers.
func (m *Manager) Open(scan models.Scan, width, height int) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[scan.ID]; ok {
		return existing
	}

	s := NewScene(width, height, scan)
	if s == nil {
		return nil
	}

	loop := NewLoop(s, LoopOptions{
		RotationSpeed: 0.25,
		HeartRate:     heartRate(scan.RiskLevel),
	})

	ctx, cancel := context.WithCancel(context.Background())
	session := &Session{
		ScanID: scan.ID,
		Scene:  s,
		Loop:   loop,
		cancel: cancel,
	}
	m.sessions[scan.ID] = session

	go loop.Run(ctx)

	return session
}

// Get returns the live session for a scan, if any.
func (m *Manager) Get(scanID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[scanID]
	return session, ok
}

// Close stops a scan's session and removes it. Reports whether a session
// existed; closing an unknown or already-closed scan is a safe no-op.
func (m *Manager) Close(scanID string) bool {
	m.mu.Lock()
	session, ok := m.sessions[scanID]
	delete(m.sessions, scanID)
	m.mu.Unlock()

	if !ok {
		return false
	}

	session.Loop.Stop()
	session.cancel()
	return true
}

// CloseAll tears down every session, used at shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Loop.Stop()
		s.cancel()
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Annotate3D raycasts the click point into the scene and, on a hit with
// non-empty text, records an annotation and drops a marker mesh. Empty or
// whitespace text cancels the annotation.
func (s *Session) Annotate3D(u, v float64, text, severity string) (models.Annotation, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Annotation{}, false
	}
	if !models.ValidSeverity(severity) {
		severity = models.SeverityInfo
	}

	_, hit, ok := s.Scene.PickObject(u, v)
	if !ok {
		return models.Annotation{}, false
	}

	a := models.Annotation{
		ID:        uuid.New().String(),
		ScanID:    s.ScanID,
		X:         hit.X,
		Y:         hit.Y,
		Z:         hit.Z,
		Text:      text,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	s.Scene.AddObject(NewMarker(hit, severity))
	s.record(a)
	return a, true
}

// Annotate2D normalizes pixel coordinates against the canvas and records a
// slice annotation on non-empty text.
func (s *Session) Annotate2D(px, py, width, height float64, sliceIndex int, text, severity string) (models.Annotation, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Annotation{}, false
	}
	if !models.ValidSeverity(severity) {
		severity = models.SeverityInfo
	}

	u, v, ok := Normalize2D(px, py, width, height)
	if !ok {
		return models.Annotation{}, false
	}

	a := models.Annotation{
		ID:         uuid.New().String(),
		ScanID:     s.ScanID,
		X:          u,
		Y:          v,
		Text:       text,
		Severity:   severity,
		SliceIndex: sliceIndex,
		CreatedAt:  time.Now(),
	}

	s.record(a)
	return a, true
}

// Annotations returns a copy of the session's annotation list.
func (s *Session) Annotations() []models.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Annotation, len(s.annotations))
	copy(out, s.annotations)
	return out
}

func (s *Session) record(a models.Annotation) {
	s.mu.Lock()
	s.annotations = append(s.annotations, a)
	s.mu.Unlock()

	// Annotations live in session memory; the table write is best-effort.
	_ = storage.SaveAnnotation(a)
}
