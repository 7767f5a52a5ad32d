package services

import (
	"fmt"
	"time"

	"github.com/surgical-vision/scan-service/internal/models"
	"github.com/surgical-vision/scan-service/internal/storage"
)

// DemoUser is the fixed account every login resolves to when no identity
// provider is configured.
var DemoUser = models.User{
	ID:    "a3f1c2d4-0001-4000-8000-000000000001",
	Name:  "Dr. Sarah Chen",
	Role:  models.RoleSurgeon,
	Email: "sarah.chen@surgicalvision.demo",
}

var demoUsers = []models.User{
	DemoUser,
	{
		ID:    "a3f1c2d4-0002-4000-8000-000000000002",
		Name:  "Marcus Webb",
		Role:  models.RoleNurse,
		Email: "marcus.webb@surgicalvision.demo",
	},
	{
		ID:    "a3f1c2d4-0003-4000-8000-000000000003",
		Name:  "Elena Vasquez",
		Role:  models.RoleAdmin,
		Email: "elena.vasquez@surgicalvision.demo",
	},
}

// SeedDemoUsers inserts the static demo accounts. Idempotent: seeding is an
// upsert on the fixed IDs.
func SeedDemoUsers() error {
	now := time.Now()
	for _, u := range demoUsers {
		u.LastLogin = now
		if err := storage.SaveUser(u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Name, err)
		}
	}
	return nil
}
