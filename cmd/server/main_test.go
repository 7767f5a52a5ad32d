package main

import (
	"os"
	"testing"

	"github.com/surgical-vision/scan-service/internal/configuration"
)

func TestMain(m *testing.M) {
	// Setup code here (runs once before all tests in this package)
	println("Setting up tests for main package...")

	exitCode := m.Run()

	// Teardown code here (runs once after all tests in this package)
	println("Tearing down tests for main package...")

	os.Exit(exitCode)
}

func TestDefaultConfiguration(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg := configuration.Load()

	if cfg.Server.Port != "3001" {
		t.Errorf("expected default port 3001, got %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
}

func TestPortOverride(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg := configuration.Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
}
