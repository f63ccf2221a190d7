package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/handler"
	"github.com/pulsechat/pulse-backend/internal/middleware"
	"github.com/pulsechat/pulse-backend/internal/migration"
	"github.com/pulsechat/pulse-backend/internal/repository"
	"github.com/pulsechat/pulse-backend/internal/routes"
	"github.com/pulsechat/pulse-backend/internal/service"
	pkgjwt "github.com/pulsechat/pulse-backend/pkg/jwt"
	pkglogger "github.com/pulsechat/pulse-backend/pkg/logger"
	"github.com/pulsechat/pulse-backend/pkg/presence"
	pkgredis "github.com/pulsechat/pulse-backend/pkg/redis"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// PostgreSQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to PostgreSQL")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis (optional, presence only)
	var tracker *presence.Tracker
	if cfg.Redis.Addr != "" {
		redisClient, err := pkgredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without presence tracking)", err)
			tracker = presence.NewTracker(nil, 0)
		} else {
			pkglogger.Info("Connected to Redis")
			tracker = presence.NewTracker(redisClient, time.Duration(cfg.Presence.TTL)*time.Second)
		}
	} else {
		tracker = presence.NewTracker(nil, 0)
	}

	// JWT manager
	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	contactRepo := repository.NewContactRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	messageService := service.NewMessageService(messageRepo, userRepo)
	directoryService := service.NewDirectoryService(userRepo, contactRepo, tracker)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService)
	directoryHandler := handler.NewDirectoryHandler(directoryService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins: splitAndTrim(cfg.CORS.AllowOrigins, ","),
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Id", "X-Request-ID"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		MaxAge:       86400 * time.Second,
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.Setup(router, authHandler, messageHandler, directoryHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// initDB opens the PostgreSQL connection and configures the pool
func initDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.URL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	return db, nil
}
