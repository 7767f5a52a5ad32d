package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/surgical-vision/scan-service/internal/models"
)

// PostgresStorage implements Storage interface for PostgreSQL
type PostgresStorage struct {
	db *sql.DB
}

// Connect establishes connection to PostgreSQL
func (p *PostgresStorage) Connect(connectionString string) error {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	p.db = db

	if err := p.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %v", err)
	}

	log.Println("[DB] connected to PostgreSQL")
	return nil
}

func (p *PostgresStorage) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS scans (
		id UUID PRIMARY KEY,
		patient_name VARCHAR(255) NOT NULL,
		scan_type VARCHAR(20) NOT NULL,
		risk_level VARCHAR(10) NOT NULL,
		status VARCHAR(20) NOT NULL,
		notes TEXT,
		uploaded_by VARCHAR(255),
		file_name VARCHAR(255),
		file_path VARCHAR(500),
		file_size BIGINT,
		file_type VARCHAR(50),
		uploaded_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		email VARCHAR(255),
		last_login TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS annotations (
		id UUID PRIMARY KEY,
		scan_id UUID NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		z DOUBLE PRECISION NOT NULL,
		text TEXT NOT NULL,
		severity VARCHAR(10) NOT NULL,
		slice_index INTEGER,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_uploaded_at ON scans(uploaded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_scans_risk_level ON scans(risk_level);
	CREATE INDEX IF NOT EXISTS idx_annotations_scan_id ON annotations(scan_id);
	`

	_, err := p.db.Exec(query)
	return err
}

func (p *PostgresStorage) SaveScan(scan models.Scan) error {
	query := `
	INSERT INTO scans (id, patient_name, scan_type, risk_level, status, notes, uploaded_by, file_name, file_path, file_size, file_type, uploaded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO UPDATE SET
		patient_name = EXCLUDED.patient_name,
		scan_type = EXCLUDED.scan_type,
		risk_level = EXCLUDED.risk_level,
		status = EXCLUDED.status,
		notes = EXCLUDED.notes,
		uploaded_by = EXCLUDED.uploaded_by
	`

	_, err := p.db.Exec(query,
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

func (p *PostgresStorage) GetScan(scanID string) (models.Scan, bool) {
	query := `
	SELECT id, patient_name, scan_type, risk_level, status, notes, uploaded_by, file_name, file_path, file_size, file_type, uploaded_at
	FROM scans WHERE id = $1
	`

	scan, err := scanRow(p.db.QueryRow(query, scanID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Scan{}, false
		}
		log.Printf("[DB] error getting scan: %v", err)
		return models.Scan{}, false
	}

	return scan, true
}

func (p *PostgresStorage) GetAllScans() []models.Scan {
	query := `
	SELECT id, patient_name, scan_type, risk_level, status, notes, uploaded_by, file_name, file_path, file_size, file_type, uploaded_at
	FROM scans ORDER BY uploaded_at DESC
	`

	rows, err := p.db.Query(query)
	if err != nil {
		log.Printf("[DB] error querying all scans: %v", err)
		return []models.Scan{}
	}
	defer rows.Close()

	return collectScans(rows)
}

func (p *PostgresStorage) DeleteScan(scanID string) bool {
	result, err := p.db.Exec(`DELETE FROM scans WHERE id = $1`, scanID)
	if err != nil {
		log.Printf("[DB] error deleting scan: %v", err)
		return false
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0
}

func (p *PostgresStorage) UpdateScanStatus(scanID, status string) bool {
	result, err := p.db.Exec(`UPDATE scans SET status = $1 WHERE id = $2`, status, scanID)
	if err != nil {
		log.Printf("[DB] error updating scan status: %v", err)
		return false
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0
}

func (p *PostgresStorage) GetStats() (models.Stats, error) {
	var stats models.Stats

	err := p.db.QueryRow(`
	SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN risk_level = 'high' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN uploaded_at > $1 THEN 1 ELSE 0 END), 0),
		COUNT(DISTINCT patient_name)
	FROM scans
	`, recentCutoff()).Scan(&stats.TotalScans, &stats.HighRiskCases, &stats.RecentScans, &stats.ActivePatients)
	if err != nil {
		return models.Stats{}, err
	}

	return stats, nil
}

func (p *PostgresStorage) SaveUser(user models.User) error {
	query := `
	INSERT INTO users (id, name, role, email, last_login)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		role = EXCLUDED.role,
		email = EXCLUDED.email,
		last_login = EXCLUDED.last_login
	`

	_, err := p.db.Exec(query, user.ID, user.Name, user.Role, user.Email, user.LastLogin)
	return err
}

func (p *PostgresStorage) GetAllUsers() ([]models.User, error) {
	query := `
	SELECT u.id, u.name, u.role, u.email, u.last_login,
		(SELECT COUNT(*) FROM scans sc WHERE sc.uploaded_by = u.name)
	FROM users u ORDER BY u.name
	`

	rows, err := p.db.Query(query)
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

func (p *PostgresStorage) SaveAnnotation(a models.Annotation) error {
	query := `
	INSERT INTO annotations (id, scan_id, x, y, z, text, severity, slice_index, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := p.db.Exec(query, a.ID, a.ScanID, a.X, a.Y, a.Z, a.Text, a.Severity, a.SliceIndex, a.CreatedAt)
	return err
}

func (p *PostgresStorage) GetAnnotations(scanID string) ([]models.Annotation, error) {
	query := `
	SELECT id, scan_id, x, y, z, text, severity, slice_index, created_at
	FROM annotations WHERE scan_id = $1 ORDER BY created_at
	`

	rows, err := p.db.Query(query, scanID)
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

func (p *PostgresStorage) Close() error {
	return p.db.Close()
}
