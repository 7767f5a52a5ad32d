package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/surgical-vision/scan-service/cmd/middleware"
	"github.com/surgical-vision/scan-service/internal/api"
	"github.com/surgical-vision/scan-service/internal/api/handlers"
	"github.com/surgical-vision/scan-service/internal/api/handlers/scan"
	"github.com/surgical-vision/scan-service/internal/api/handlers/util"
	"github.com/surgical-vision/scan-service/internal/configuration"
	"github.com/surgical-vision/scan-service/internal/nats"
	"github.com/surgical-vision/scan-service/internal/services"
	"github.com/surgical-vision/scan-service/internal/storage"
)

func main() {
	cfg := configuration.Load()

	// Metadata store: SQLite by default, PostgreSQL when configured
	switch cfg.Database.Driver {
	case "postgres":
		if err := storage.InitializePostgres(cfg.Database.ConnectionString()); err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
	default:
		if err := storage.InitializeSQLite(cfg.Database.SQLitePath); err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
	}

	if err := services.SeedDemoUsers(); err != nil {
		log.Printf("Warning: failed to seed demo users: %v", err)
	}

	// Optional object storage for uploaded scan images
	if cfg.MinIO.Endpoint != "" {
		if err := services.InitializeMinio(cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.BucketName, cfg.MinIO.UseSSL); err != nil {
			log.Printf("Warning: MinIO unavailable, keeping metadata only: %v", err)
		}
	}

	// Optional malware scanning of uploads
	util.InitClamAV(cfg.ClamAVURL)

	// Optional event bus
	if cfg.NATSURL != "" {
		if _, _, err := services.ConnectNATS(cfg.NATSURL); err != nil {
			log.Printf("Warning: NATS unavailable, events disabled: %v", err)
		} else if err := nats.SubscribeAll(nats.Routes()); err != nil {
			log.Printf("Warning: failed to subscribe event consumers: %v", err)
		}
	}

	// Optional OIDC; without it every request is the demo user
	if cfg.OIDCUrl != "" {
		if err := middleware.InitAuth(cfg.OIDCUrl); err != nil {
			log.Fatalf("Failed to initialize OIDC: %v", err)
		}
	}

	setupGracefulShutdown()

	handlers.SetPort(cfg.Server.Port)

	r := gin.Default()
	api.RegisterRoutes(r)

	log.Printf("Server starting on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Shutting down gracefully...")
		scan.Viewers.CloseAll()
		services.CloseNATS()
		if err := storage.Close(); err != nil {
			log.Printf("Warning: failed to close storage: %v", err)
		}
		os.Exit(0)
	}()
}
