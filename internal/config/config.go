package config

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// S3Config holds bucket credentials for the s3 avatar backend.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	Endpoint        string
	PublicBaseURL   string
}

type Config struct {
	DB_URL          string
	Port            string
	Environment     string
	UploadDir       string
	StorageBackend  string // "disk" or "s3"
	JanitorSchedule string // cron spec; empty disables the sweeper
	CorsConfig      cors.Options
	S3              S3Config
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		DB_URL:          getEnv("DB_URL", ""),
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENV", "development"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		StorageBackend:  getEnv("STORAGE_BACKEND", "disk"),
		JanitorSchedule: getEnv("JANITOR_SCHEDULE", "@hourly"),
		CorsConfig:      CorsConfig(),
		S3: S3Config{
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("S3_BUCKET_NAME", ""),
			Region:          getEnv("S3_REGION", "auto"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			PublicBaseURL:   getEnv("S3_PUBLIC_BASE_URL", ""),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
