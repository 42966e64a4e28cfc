package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"notes/internal/config"
	"notes/internal/database"
	"notes/internal/handlers"
	"notes/internal/middleware"
	"notes/internal/repositories"
	"notes/internal/services"
	"notes/pkg/logger"
	"notes/pkg/rabbitmq"

	"golang.org/x/crypto/bcrypt"
)

// maxBodyBytes leaves headroom over the 2 MiB content limit so oversized notes
// reach the validator and get a typed error instead of a transport rejection.
const maxBodyBytes = 4 << 20

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	// --- Database ---
	db, err := database.Open(database.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseDSN})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}

	// --- Events (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.NotesExchange})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		log.Info().Msg("RABBITMQ_URL not set, note events disabled")
	}

	app, err := newApp(cfg, db, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}

	// --- Start HTTP Server ---
	log.Info().Str("port", cfg.AppPort).Str("access_policy", cfg.AccessPolicy).Msg("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server gracefully stopped")
}

// newApp wires repositories, services and handlers onto a new Fiber app.
// publisher may be nil.
func newApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, error) {
	policy, err := services.PolicyByName(cfg.AccessPolicy)
	if err != nil {
		return nil, err
	}

	// --- Repositories ---
	noteRepo := repositories.NewGORMNoteRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	noteService := services.NewNoteService(noteRepo, publisher)
	userService := services.NewUserService(userRepo, bcrypt.DefaultCost)
	authService := services.NewAuthService(userService, cfg.JWTSecret, cfg.JWTTTL)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	noteHandler := handlers.NewNoteHandler(noteService, policy, cfg.PublicBaseURL)
	userHandler := handlers.NewUserHandler(userService, noteService)
	publicHandler := handlers.NewPublicHandler(noteService)

	app := fiber.New(fiber.Config{
		BodyLimit: maxBodyBytes,
	})
	app.Use(fiberlogger.New())

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)
	noteHandler.RegisterRoutes(apiV1.Group("", middleware.AuthRequired(authService)))
	publicHandler.RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "unreachable"
		}
		events := "disabled"
		if publisher != nil {
			events = "enabled"
		}

		code, status := fiber.StatusOK, "healthy"
		if dbStatus != "connected" {
			code, status = fiber.StatusServiceUnavailable, "degraded"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"events":   events,
		})
	})

	return app, nil
}
