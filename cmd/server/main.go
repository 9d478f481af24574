package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/chirpsocial/chirper-server/internal/api"
	"github.com/chirpsocial/chirper-server/internal/config"
	"github.com/chirpsocial/chirper-server/internal/janitor"
	"github.com/chirpsocial/chirper-server/internal/service"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/chirpsocial/chirper-server/internal/storage/disk"
	"github.com/chirpsocial/chirper-server/internal/storage/postgres"
	"github.com/chirpsocial/chirper-server/internal/storage/s3"
)

func main() {
	cfg := config.Envs

	db, err := postgres.Open(cfg.DB_URL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	log.Println("Successfully connected to database")

	users := postgres.NewUserStore(db)
	posts := postgres.NewPostStore(db)

	var avatars storage.FileStore
	switch cfg.StorageBackend {
	case "s3":
		avatars = s3.New(s3.Options{
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.BucketName,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
	case "disk":
		diskStore := disk.New(cfg.UploadDir)
		avatars = diskStore

		if cfg.JanitorSchedule != "" {
			j := janitor.New(users, diskStore, time.Hour)
			if err := j.Start(cfg.JanitorSchedule); err != nil {
				log.Fatal("Failed to start avatar janitor: ", err)
			}
			defer j.Stop()
		}
	default:
		log.Fatalf("Unknown storage backend %q", cfg.StorageBackend)
	}

	svc := service.New(users, posts, avatars)
	handler := api.SetupRouter(svc)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: handler,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting Chirper server on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
