package models

import (
	"time"
)

// User roles.
const (
	RoleSurgeon = "surgeon"
	RoleNurse   = "nurse"
	RoleAdmin   = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	LastLogin time.Time `json:"last_login"`
	ScanCount int64     `json:"scan_count"`
}
