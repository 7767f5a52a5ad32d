package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/surgical-vision/scan-service/internal/models"
)

// SQLiteStorage implements Storage interface for SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// Connect opens the SQLite database file, creating it if needed
func (s *SQLiteStorage) Connect(path string) error {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open SQLite database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping SQLite database: %v", err)
	}

	// SQLite handles one writer at a time
	db.SetMaxOpenConns(1)

	s.db = db

	if err := s.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %v", err)
	}

	log.Printf("[DB] connected to SQLite at %s", path)
	return nil
}

func (s *SQLiteStorage) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		patient_name TEXT NOT NULL,
		scan_type TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		status TEXT NOT NULL,
		notes TEXT,
		uploaded_by TEXT,
		file_name TEXT,
		file_path TEXT,
		file_size INTEGER,
		file_type TEXT,
		uploaded_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		email TEXT,
		last_login TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS annotations (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		text TEXT NOT NULL,
		severity TEXT NOT NULL,
		slice_index INTEGER,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_uploaded_at ON scans(uploaded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_scans_risk_level ON scans(risk_level);
	CREATE INDEX IF NOT EXISTS idx_annotations_scan_id ON annotations(scan_id);
	`

	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStorage) SaveScan(scan models.Scan) error {
	query := `
	INSERT INTO scans (id, patient_name, scan_type, risk_level, status, notes, uploaded_by, file_name, file_path, file_size, file_type, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		patient_name = excluded.patient_name,
		scan_type = excluded.scan_type,
		risk_level = excluded.risk_level,
		status = excluded.status,
		notes = excluded.notes,
		uploaded_by = excluded.uploaded_by
	`

	_, err := s.db.Exec(query,
		scan.ID,
		scan.PatientName,
		scan.ScanType,
		scan.RiskLevel,
		scan.Status,
		scan.Notes,
		scan.UploadedBy,
		scan.FileName,
		scan.FilePath,
		scan.FileSize,
		scan.FileType,
		scan.UploadedAt,
	)

	return err
}

func (s *SQLiteStorage) GetScan(scanID string) (models.Scan, bool) {
	query := `
	SELECT id, patient_name, scan_type, risk_level, status, notes, uploaded_by, file_name, file_path, file_size, file_type, uploaded_at
	FROM scans WHERE id = ?
	`

	scan, err := scanRow(s.db.QueryRow(query, scanID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Scan{}, false
		}
		log.Printf("[DB] error getting scan: %v", err)
		return models.Scan{}, false
	}

	return scan, true
}

func (s *SQLiteStorage) GetAllScans() []models.Scan {
	query := `
	SELECT id, patient_name, scan_type, risk_level, status, notes, uploaded_by, file_name, file_path, file_size, file_type, uploaded_at
	FROM scans ORDER BY uploaded_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		log.Printf("[DB] error querying all scans: %v", err)
		return []models.Scan{}
	}
	defer rows.Close()

	return collectScans(rows)
}

func (s *SQLiteStorage) DeleteScan(scanID string) bool {
	result, err := s.db.Exec(`DELETE FROM scans WHERE id = ?`, scanID)
	if err != nil {
		log.Printf("[DB] error deleting scan: %v", err)
		return false
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0
}

func (s *SQLiteStorage) UpdateScanStatus(scanID, status string) bool {
	result, err := s.db.Exec(`UPDATE scans SET status = ? WHERE id = ?`, status, scanID)
	if err != nil {
		log.Printf("[DB] error updating scan status: %v", err)
		return false
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0
}

func (s *SQLiteStorage) GetStats() (models.Stats, error) {
	var stats models.Stats

	err := s.db.QueryRow(`
	SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN risk_level = 'high' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN uploaded_at > ? THEN 1 ELSE 0 END), 0),
		COUNT(DISTINCT patient_name)
	FROM scans
	`, recentCutoff()).Scan(&stats.TotalScans, &stats.HighRiskCases, &stats.RecentScans, &stats.ActivePatients)
	if err != nil {
		return models.Stats{}, err
	}

	return stats, nil
}

func (s *SQLiteStorage) SaveUser(user models.User) error {
	query := `
	INSERT INTO users (id, name, role, email, last_login)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		role = excluded.role,
		email = excluded.email,
		last_login = excluded.last_login
	`

	_, err := s.db.Exec(query, user.ID, user.Name, user.Role, user.Email, user.LastLogin)
	return err
}

func (s *SQLiteStorage) GetAllUsers() ([]models.User, error) {
	query := `
	SELECT u.id, u.name, u.role, u.email, u.last_login,
		(SELECT COUNT(*) FROM scans sc WHERE sc.uploaded_by = u.name)
	FROM users u ORDER BY u.name
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Role, &user.Email, &user.LastLogin, &user.ScanCount); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *SQLiteStorage) SaveAnnotation(a models.Annotation) error {
	query := `
	INSERT INTO annotations (id, scan_id, x, y, z, text, severity, slice_index, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, a.ID, a.ScanID, a.X, a.Y, a.Z, a.Text, a.Severity, a.SliceIndex, a.CreatedAt)
	return err
}

func (s *SQLiteStorage) GetAnnotations(scanID string) ([]models.Annotation, error) {
	query := `
	SELECT id, scan_id, x, y, z, text, severity, slice_index, created_at
	FROM annotations WHERE scan_id = ? ORDER BY created_at
	`

	rows, err := s.db.Query(query, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var annotations []models.Annotation
	for rows.Next() {
		var a models.Annotation
		if err := rows.Scan(&a.ID, &a.ScanID, &a.X, &a.Y, &a.Z, &a.Text, &a.Severity, &a.SliceIndex, &a.CreatedAt); err != nil {
			return nil, err
		}
		annotations = append(annotations, a)
	}

	return annotations, rows.Err()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// row is satisfied by *sql.Row and *sql.Rows
type row interface {
	Scan(dest ...any) error
}

func scanRow(r row) (models.Scan, error) {
	var scan models.Scan
	var notes, uploadedBy sql.NullString
	var uploadedAt time.Time
	err := r.Scan(
		&scan.ID,
		&scan.PatientName,
		&scan.ScanType,
		&scan.RiskLevel,
		&scan.Status,
		&notes,
		&uploadedBy,
		&scan.FileName,
		&scan.FilePath,
		&scan.FileSize,
		&scan.FileType,
		&uploadedAt,
	)
	if err != nil {
		return models.Scan{}, err
	}
	scan.Notes = notes.String
	scan.UploadedBy = uploadedBy.String
	scan.UploadedAt = uploadedAt
	return scan, nil
}

func collectScans(rows *sql.Rows) []models.Scan {
	var scans []models.Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			log.Printf("[DB] error scanning row: %v", err)
			continue
		}
		scans = append(scans, scan)
	}
	if scans == nil {
		return []models.Scan{}
	}
	return scans
}
