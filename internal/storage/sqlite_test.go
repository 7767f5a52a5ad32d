package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surgical-vision/scan-service/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store := &SQLiteStorage{}
	require.NoError(t, store.Connect(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testScan(id, patient, risk string) models.Scan {
	return models.Scan{
		ID:          id,
		PatientName: patient,
		ScanType:    models.ScanTypeCT,
		RiskLevel:   risk,
		Status:      models.StatusCompleted,
		FileName:    "brain.png",
		FilePath:    "uploads/" + id + ".png",
		FileSize:    1024,
		FileType:    "image/png",
		UploadedAt:  time.Now(),
	}
}

func TestSaveAndGetScan(t *testing.T) {
	store := newTestStore(t)

	in := testScan("11111111-1111-1111-1111-111111111111", "Test Patient", models.RiskLow)
	in.Notes = "pre-op baseline"
	require.NoError(t, store.SaveScan(in))

	out, exists := store.GetScan(in.ID)
	require.True(t, exists)
	assert.Equal(t, in.PatientName, out.PatientName)
	assert.Equal(t, in.ScanType, out.ScanType)
	assert.Equal(t, in.RiskLevel, out.RiskLevel)
	assert.Equal(t, in.Notes, out.Notes)
	assert.Equal(t, in.FileSize, out.FileSize)
}

func TestGetScanNotFound(t *testing.T) {
	store := newTestStore(t)

	_, exists := store.GetScan("99999999-9999-9999-9999-999999999999")
	assert.False(t, exists)
}

func TestSaveScanUpsert(t *testing.T) {
	store := newTestStore(t)

	in := testScan("11111111-1111-1111-1111-111111111111", "Test Patient", models.RiskLow)
	require.NoError(t, store.SaveScan(in))

	in.Status = models.StatusFailed
	in.Notes = "reviewed"
	require.NoError(t, store.SaveScan(in))

	out, exists := store.GetScan(in.ID)
	require.True(t, exists)
	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Equal(t, "reviewed", out.Notes)

	assert.Len(t, store.GetAllScans(), 1)
}

func TestGetAllScansNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := testScan("11111111-1111-1111-1111-111111111111", "A", models.RiskLow)
	older.UploadedAt = time.Now().Add(-time.Hour)
	newer := testScan("22222222-2222-2222-2222-222222222222", "B", models.RiskLow)

	require.NoError(t, store.SaveScan(older))
	require.NoError(t, store.SaveScan(newer))

	scans := store.GetAllScans()
	require.Len(t, scans, 2)
	assert.Equal(t, newer.ID, scans[0].ID)
	assert.Equal(t, older.ID, scans[1].ID)
}

func TestDeleteScan(t *testing.T) {
	store := newTestStore(t)

	in := testScan("11111111-1111-1111-1111-111111111111", "Test Patient", models.RiskLow)
	require.NoError(t, store.SaveScan(in))

	assert.True(t, store.DeleteScan(in.ID))
	assert.False(t, store.DeleteScan(in.ID))

	_, exists := store.GetScan(in.ID)
	assert.False(t, exists)
}

func TestUpdateScanStatus(t *testing.T) {
	store := newTestStore(t)

	in := testScan("11111111-1111-1111-1111-111111111111", "Test Patient", models.RiskLow)
	require.NoError(t, store.SaveScan(in))

	assert.True(t, store.UpdateScanStatus(in.ID, models.StatusPending))
	out, _ := store.GetScan(in.ID)
	assert.Equal(t, models.StatusPending, out.Status)

	assert.False(t, store.UpdateScanStatus("unknown", models.StatusPending))
}

func TestStatsMatchScanList(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveScan(testScan("11111111-1111-1111-1111-111111111111", "Alice", models.RiskHigh)))
	require.NoError(t, store.SaveScan(testScan("22222222-2222-2222-2222-222222222222", "Bob", models.RiskLow)))
	require.NoError(t, store.SaveScan(testScan("33333333-3333-3333-3333-333333333333", "Alice", models.RiskHigh)))

	stats, err := store.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(len(store.GetAllScans())), stats.TotalScans)
	assert.Equal(t, int64(2), stats.HighRiskCases)
	assert.Equal(t, int64(3), stats.RecentScans)
	assert.Equal(t, int64(2), stats.ActivePatients)
}

func TestUsersWithScanCounts(t *testing.T) {
	store := newTestStore(t)

	user := models.User{
		ID:        "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		Name:      "Dr. Sarah Chen",
		Role:      models.RoleSurgeon,
		Email:     "sarah@example.com",
		LastLogin: time.Now(),
	}
	require.NoError(t, store.SaveUser(user))

	uploaded := testScan("11111111-1111-1111-1111-111111111111", "Alice", models.RiskLow)
	uploaded.UploadedBy = user.Name
	require.NoError(t, store.SaveScan(uploaded))

	users, err := store.GetAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ScanCount)
	assert.Equal(t, models.RoleSurgeon, users[0].Role)
}

func TestAnnotationsRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := testScan("11111111-1111-1111-1111-111111111111", "Alice", models.RiskLow)
	require.NoError(t, store.SaveScan(in))

	a := models.Annotation{
		ID:         "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
		ScanID:     in.ID,
		X:          0.4,
		Y:          0.6,
		Z:          0.1,
		Text:       "possible lesion",
		Severity:   models.SeverityWarning,
		SliceIndex: 7,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.SaveAnnotation(a))

	got, err := store.GetAnnotations(in.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.Text, got[0].Text)
	assert.Equal(t, a.Severity, got[0].Severity)
	assert.Equal(t, 7, got[0].SliceIndex)

	// Deleting the scan cascades to its annotations
	require.True(t, store.DeleteScan(in.ID))
	got, err = store.GetAnnotations(in.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
