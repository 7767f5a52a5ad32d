package storage

import "github.com/surgical-vision/scan-service/internal/models"

// Storage interface defines the contract for all storage implementations
type Storage interface {
	SaveScan(scan models.Scan) error
	GetScan(scanID string) (models.Scan, bool)
	GetAllScans() []models.Scan
	DeleteScan(scanID string) bool
	UpdateScanStatus(scanID, status string) bool
	GetStats() (models.Stats, error)
	SaveUser(user models.User) error
	GetAllUsers() ([]models.User, error)
	SaveAnnotation(a models.Annotation) error
	GetAnnotations(scanID string) ([]models.Annotation, error)
	Close() error
}

// Global storage instance
var currentStorage Storage = NewMemoryStorage()

// InitializeSQLite sets up SQLite storage
func InitializeSQLite(path string) error {
	store := &SQLiteStorage{}
	if err := store.Connect(path); err != nil {
		return err
	}
	currentStorage = store
	return nil
}

// InitializePostgres sets up PostgreSQL storage
func InitializePostgres(connectionString string) error {
	store := &PostgresStorage{}
	if err := store.Connect(connectionString); err != nil {
		return err
	}
	currentStorage = store
	return nil
}

// InitializeMemory resets storage to the in-memory implementation.
func InitializeMemory() {
	currentStorage = NewMemoryStorage()
}

// Public functions that use the current storage implementation
func SaveScan(scan models.Scan) error {
	return currentStorage.SaveScan(scan)
}

func GetScan(scanID string) (models.Scan, bool) {
	return currentStorage.GetScan(scanID)
}

func GetAllScans() []models.Scan {
	return currentStorage.GetAllScans()
}

func DeleteScan(scanID string) bool {
	return currentStorage.DeleteScan(scanID)
}

func UpdateScanStatus(scanID, status string) bool {
	return currentStorage.UpdateScanStatus(scanID, status)
}

func GetStats() (models.Stats, error) {
	return currentStorage.GetStats()
}

func SaveUser(user models.User) error {
	return currentStorage.SaveUser(user)
}

func GetAllUsers() ([]models.User, error) {
	return currentStorage.GetAllUsers()
}

func SaveAnnotation(a models.Annotation) error {
	return currentStorage.SaveAnnotation(a)
}

func GetAnnotations(scanID string) ([]models.Annotation, error) {
	return currentStorage.GetAnnotations(scanID)
}

func Close() error {
	return currentStorage.Close()
}
