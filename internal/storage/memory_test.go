package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgical-vision/scan-service/internal/models"
)

func TestMemoryStorageBasics(t *testing.T) {
	m := NewMemoryStorage()

	in := testScan("s1", "Alice", models.RiskHigh)
	require.NoError(t, m.SaveScan(in))

	out, exists := m.GetScan("s1")
	require.True(t, exists)
	assert.Equal(t, "Alice", out.PatientName)

	assert.True(t, m.UpdateScanStatus("s1", models.StatusPending))
	out, _ = m.GetScan("s1")
	assert.Equal(t, models.StatusPending, out.Status)

	stats, err := m.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalScans)
	assert.Equal(t, int64(1), stats.HighRiskCases)

	assert.True(t, m.DeleteScan("s1"))
	assert.False(t, m.DeleteScan("s1"))
}

func TestMemoryStorageOrdering(t *testing.T) {
	m := NewMemoryStorage()

	older := testScan("s1", "A", models.RiskLow)
	older.UploadedAt = time.Now().Add(-time.Hour)
	newer := testScan("s2", "B", models.RiskLow)

	require.NoError(t, m.SaveScan(older))
	require.NoError(t, m.SaveScan(newer))

	scans := m.GetAllScans()
	require.Len(t, scans, 2)
	assert.Equal(t, "s2", scans[0].ID)
}

func TestMemoryStorageAnnotationsFollowScan(t *testing.T) {
	m := NewMemoryStorage()

	require.NoError(t, m.SaveScan(testScan("s1", "A", models.RiskLow)))
	require.NoError(t, m.SaveAnnotation(models.Annotation{ID: "a1", ScanID: "s1", Text: "note"}))

	got, err := m.GetAnnotations("s1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	m.DeleteScan("s1")
	got, err = m.GetAnnotations("s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
