package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/storage"
)

func TestManagerOpenAndClose(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()

	session := m.Open(testCTScan(models.RiskLow), 800, 600)
	require.NotNil(t, session)
	assert.Equal(t, 1, m.Count())

	// Reopening the same scan reuses the session
	again := m.Open(testCTScan(models.RiskLow), 800, 600)
	assert.Same(t, session, again)
	assert.Equal(t, 1, m.Count())

	assert.True(t, m.Close("scan-1"))
	assert.Equal(t, 0, m.Count())

	// Close is a no-op the second time and never panics
	assert.NotPanics(t, func() {
		assert.False(t, m.Close("scan-1"))
	})
	assert.True(t, session.Loop.Stopped())
}

func TestManagerOpenZeroViewport(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()

	assert.Nil(t, m.Open(testCTScan(models.RiskLow), 0, 0))
	assert.Equal(t, 0, m.Count())
}

func TestClosedSessionStopsTicking(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()

	session := m.Open(testCTScan(models.RiskLow), 800, 600)
	require.NotNil(t, session)

	require.Eventually(t, func() bool { return session.Loop.Ticks() > 0 }, time.Second, 5*time.Millisecond)

	m.Close("scan-1")
	time.Sleep(50 * time.Millisecond)
	ticks := session.Loop.Ticks()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, ticks, session.Loop.Ticks())
}

func TestAnnotate3D(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()
	t.Cleanup(m.CloseAll)

	session := m.Open(testCTScan(models.RiskLow), 800, 800)
	require.NotNil(t, session)

	markersBefore := session.Scene.CountLayer(LayerMarkers)

	// Click dead center: the anatomy mass sits on the axis
	a, ok := session.Annotate3D(0.5, 0.5, "suspicious region", models.SeverityWarning)
	require.True(t, ok)
	assert.Equal(t, "scan-1", a.ScanID)
	assert.Equal(t, models.SeverityWarning, a.Severity)
	assert.NotEmpty(t, a.ID)

	assert.Equal(t, markersBefore+1, session.Scene.CountLayer(LayerMarkers))
	assert.Len(t, session.Annotations(), 1)

	// The schema-backed table receives the annotation too
	stored, err := storage.GetAnnotations("scan-1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAnnotate3DEmptyTextCancels(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()
	t.Cleanup(m.CloseAll)

	session := m.Open(testCTScan(models.RiskLow), 800, 800)

	_, ok := session.Annotate3D(0.5, 0.5, "   ", models.SeverityInfo)
	assert.False(t, ok)
	assert.Empty(t, session.Annotations())
}

func TestAnnotate3DMissDoesNotRecord(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()
	t.Cleanup(m.CloseAll)

	session := m.Open(testCTScan(models.RiskLow), 800, 800)

	_, ok := session.Annotate3D(0.01, 0.01, "nothing here", models.SeverityInfo)
	assert.False(t, ok)
	assert.Empty(t, session.Annotations())
}

func TestAnnotate2D(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()
	t.Cleanup(m.CloseAll)

	session := m.Open(testCTScan(models.RiskLow), 800, 600)

	a, ok := session.Annotate2D(400, 300, 800, 600, 7, "calcification", "bogus-severity")
	require.True(t, ok)
	assert.Equal(t, 0.5, a.X)
	assert.Equal(t, 0.5, a.Y)
	assert.Equal(t, 7, a.SliceIndex)
	assert.Equal(t, models.SeverityInfo, a.Severity, "unknown severity falls back to info")

	// Out-of-canvas clicks are dropped
	_, ok = session.Annotate2D(900, 300, 800, 600, 7, "off canvas", models.SeverityInfo)
	assert.False(t, ok)
}

func TestCloseAll(t *testing.T) {
	storage.InitializeMemory()
	m := NewManager()

	s1 := m.Open(testCTScan(models.RiskLow), 800, 600)
	scan2 := testCTScan(models.RiskHigh)
	scan2.ID = "scan-2"
	s2 := m.Open(scan2, 800, 600)

	m.CloseAll()
	assert.Equal(t, 0, m.Count())
	assert.True(t, s1.Loop.Stopped())
	assert.True(t, s2.Loop.Stopped())
}
