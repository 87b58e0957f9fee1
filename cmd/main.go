package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"merchandising-service/internal/config"
	"merchandising-service/internal/events"
	"merchandising-service/internal/handlers"
	"merchandising-service/internal/importer"
	"merchandising-service/internal/middleware"
	"merchandising-service/internal/repository"
)

// @title Merchandising API
// @version 1.0.0
// @description Store merchandising service: stores, zones, categories, tabular imports and planograms

// @host localhost:8090
// @BasePath /api

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
		redisClient = nil
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize NATS events publisher
	var eventsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		} else {
			log.Println("✓ NATS events publisher initialized")
		}
	}

	// Initialize repositories with Redis for caching
	magasinRepo := repository.NewMagasinRepository(db, redisClient)
	categorieRepo := repository.NewCategorieRepository(db, redisClient)
	zoneRepo := repository.NewZoneRepository(db, redisClient)
	planogramRepo := repository.NewPlanogramRepository(db, redisClient)
	userRepo := repository.NewUserRepository(db)
	saver := &repository.Saver{
		Magasins:   magasinRepo,
		Categories: categorieRepo,
		Zones:      zoneRepo,
	}

	// Import pipeline configuration
	fallback, err := importer.EncodingByName(cfg.ImportFallbackEncoding)
	if err != nil {
		log.Printf("WARNING: %v (falling back to windows-1252)", err)
		fallback = nil
	}
	decodeOpts := importer.DecodeOptions{FallbackEncoding: fallback}
	defaultPolicy, err := importer.ParseDuplicatePolicy(cfg.ImportDuplicatePolicy)
	if err != nil {
		log.Printf("WARNING: %v (defaulting to append)", err)
		defaultPolicy = importer.DuplicateAppend
	}

	// Session manager with background expiry of idle wizards
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	manager := importer.NewManager(cfg.ImportSessionTTL, logger)
	manager.StartSweeper(sweepCtx)

	// Initialize handlers
	magasinHandler := handlers.NewMagasinHandler(magasinRepo)
	categorieHandler := handlers.NewCategorieHandler(categorieRepo)
	zoneHandler := handlers.NewZoneHandler(zoneRepo)
	planogramHandler := handlers.NewPlanogramHandler(planogramRepo, eventsPublisher, cfg.UploadDir, logger)
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	importHandler := handlers.NewImportHandler(manager, saver, eventsPublisher, decodeOpts, defaultPolicy, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// Uploaded fixture images
	router.Static("/uploads", cfg.UploadDir)

	// Public routes
	router.POST("/api/auth/login", authHandler.Login)

	// Protected API routes
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/auth/me", authHandler.Me)
		api.GET("/auth1/users/store/:magasinId", authHandler.UsersByStore)

		magasins := api.Group("/magasins")
		{
			magasins.GET("/getAllMagasins", magasinHandler.GetAllMagasins)
			magasins.GET("/getMagasin/:magasinId", magasinHandler.GetMagasin)
			magasins.POST("/createMagasin", magasinHandler.CreateMagasin)
			magasins.POST("/createMagasinsList", magasinHandler.CreateMagasinsList)
		}

		categories := api.Group("/categories")
		{
			categories.GET("/getAllCategories", categorieHandler.GetAllCategories)
			categories.POST("/createCategorieList", categorieHandler.CreateCategorieList)
		}

		zones := api.Group("/zones")
		{
			zones.GET("/getZonesMagasin/:magasinId", zoneHandler.GetZonesMagasin)
			zones.POST("/createZonesList", zoneHandler.CreateZonesList)
		}

		api.GET("/furnitureType/getAllFurnitureTypes", planogramHandler.GetAllFurnitureTypes)
		api.POST("/furniture/upload", planogramHandler.UploadFurnitureImage)

		planograms := api.Group("/planogram")
		{
			planograms.POST("/createFullPlanogram", planogramHandler.CreateFullPlanogram)
			planograms.GET("/getPlanogram/:planogramId", planogramHandler.GetPlanogram)
			planograms.POST("/importPlanogramFile", planogramHandler.ImportPlanogramFile)
		}

		imports := api.Group("/import")
		{
			imports.POST("/:entity", importHandler.CreateSession)
			imports.GET("/sessions/:id", importHandler.GetSession)
			imports.PUT("/sessions/:id/mapping", importHandler.UpdateMapping)
			imports.POST("/sessions/:id/validate", importHandler.ValidateSession)
			imports.POST("/sessions/:id/confirm", importHandler.ConfirmImport)
			imports.POST("/sessions/:id/entries", importHandler.AddEntry)
			imports.PUT("/sessions/:id/entries/:entryId", importHandler.EditEntry)
			imports.DELETE("/sessions/:id/entries/:entryId", importHandler.DeleteEntry)
			imports.POST("/sessions/:id/save", importHandler.SaveSession)
			imports.DELETE("/sessions/:id", importHandler.DeleteSession)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Merchandising service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down merchandising-service...")

	stopSweeper()

	if eventsPublisher != nil {
		eventsPublisher.Close()
		log.Println("✓ Events publisher closed")
	}

	log.Println("Merchandising service stopped")
}
