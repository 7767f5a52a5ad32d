package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/surgical-vision/scan-service/internal/models"
)

// recentCutoff bounds the "recent scans" stat to the last 7 days.
func recentCutoff() time.Time {
	return time.Now().AddDate(0, 0, -7)
}

// MemoryStorage implements Storage in process memory. It is the default
// until a database backend is initialized, and is what handler tests run
// against.
type MemoryStorage struct {
	mu          sync.RWMutex
	scans       map[string]models.Scan
	users       map[string]models.User
	annotations map[string][]models.Annotation
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		scans:       make(map[string]models.Scan),
		users:       make(map[string]models.User),
		annotations: make(map[string][]models.Annotation),
	}
}

func (m *MemoryStorage) SaveScan(scan models.Scan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans[scan.ID] = scan
	return nil
}

func (m *MemoryStorage) GetScan(scanID string) (models.Scan, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scan, exists := m.scans[scanID]
	return scan, exists
}

func (m *MemoryStorage) GetAllScans() []models.Scan {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scans := make([]models.Scan, 0, len(m.scans))
	for _, scan := range m.scans {
		scans = append(scans, scan)
	}

	// Sort by upload date (newest first)
	sort.Slice(scans, func(i, j int) bool {
		return scans[i].UploadedAt.After(scans[j].UploadedAt)
	})

	return scans
}

func (m *MemoryStorage) DeleteScan(scanID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scans[scanID]; exists {
		delete(m.scans, scanID)
		delete(m.annotations, scanID)
		return true
	}
	return false
}

func (m *MemoryStorage) UpdateScanStatus(scanID, status string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	scan, exists := m.scans[scanID]
	if !exists {
		return false
	}
	scan.Status = status
	m.scans[scanID] = scan
	return true
}

func (m *MemoryStorage) GetStats() (models.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats models.Stats
	patients := make(map[string]struct{})
	for _, scan := range m.scans {
		stats.TotalScans++
		if scan.RiskLevel == models.RiskHigh {
			stats.HighRiskCases++
		}
		if scan.UploadedAt.After(recentCutoff()) {
			stats.RecentScans++
		}
		patients[scan.PatientName] = struct{}{}
	}
	stats.ActivePatients = int64(len(patients))
	return stats, nil
}

func (m *MemoryStorage) SaveUser(user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MemoryStorage) GetAllUsers() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		var count int64
		for _, scan := range m.scans {
			if scan.UploadedBy == user.Name {
				count++
			}
		}
		user.ScanCount = count
		users = append(users, user)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})

	return users, nil
}

func (m *MemoryStorage) SaveAnnotation(a models.Annotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annotations[a.ScanID] = append(m.annotations[a.ScanID], a)
	return nil
}

func (m *MemoryStorage) GetAnnotations(scanID string) ([]models.Annotation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	annotations := make([]models.Annotation, len(m.annotations[scanID]))
	copy(annotations, m.annotations[scanID])
	return annotations, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
