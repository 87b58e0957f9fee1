package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"merchandising-service/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Server
	Port        string
	Environment string

	// JWT
	JWTSecret string

	// Infrastructure
	RedisURL string
	NATSURL  string

	// Import pipeline
	ImportFallbackEncoding string
	ImportDuplicatePolicy  string
	ImportSessionTTL       time.Duration

	// Uploads
	UploadDir string
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	sessionTTL, err := time.ParseDuration(getEnv("IMPORT_SESSION_TTL", "30m"))
	if err != nil {
		sessionTTL = 30 * time.Minute
	}

	return &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "merchandising_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),

		// Infrastructure
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		NATSURL:  getEnv("NATS_URL", ""),

		// Import pipeline
		ImportFallbackEncoding: getEnv("IMPORT_FALLBACK_ENCODING", "windows-1252"),
		ImportDuplicatePolicy:  getEnv("IMPORT_DUPLICATE_POLICY", "append"),
		ImportSessionTTL:       sessionTTL,

		// Uploads
		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run auto-migration to ensure schema is up to date
	if err := db.AutoMigrate(
		&models.Magasin{},
		&models.Categorie{},
		&models.Zone{},
		&models.FurnitureType{},
		&models.Planogram{},
		&models.Furniture{},
		&models.ProductPosition{},
		&models.Tache{},
		&models.User{},
	); err != nil {
		log.Printf("Warning: Auto-migration failed: %v", err)
		// Don't fail startup, just log the warning
	} else {
		log.Println("✓ Database schema migration completed")
	}

	return db, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
