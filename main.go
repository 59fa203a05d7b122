package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"darna/internal/catalog"
	"darna/internal/config"
	"darna/internal/events"
	"darna/internal/handlers"
	"darna/internal/middleware"
	"darna/internal/repositories"
	"darna/internal/services"
	"darna/pkg/db"
	"darna/pkg/rabbitmq"
)

const reservationQueue = "darna.reservations.created"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database ---
	gdb, err := db.Open(db.Options{
		Driver:          cfg.DatabaseDriver,
		DSN:             cfg.DatabaseDSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var forward events.Publisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, events stay in-process: %v", err)
		} else {
			defer mqClient.Close()
			forward = mqClient
			if err := mqClient.Consume(reservationQueue, events.ReservationCreated, logReservation); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	app, err := newApp(cfg, gdb, forward)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers into a Fiber app.
// forward may be nil, in which case events never leave the process.
func newApp(cfg *config.Config, gdb *gorm.DB, forward events.Publisher) (*fiber.App, error) {
	classifier, err := loadClassifier(cfg.CatalogRulesFile)
	if err != nil {
		return nil, err
	}
	bus := events.NewBus(forward)

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(gdb)
	userRepo := repositories.NewGORMUserRepository(gdb)
	serviceTypeRepo := repositories.NewGORMServiceTypeRepository(gdb)
	userCartRepo := repositories.NewGORMCartRepository(gdb)
	guestCartRepo := repositories.NewGORMGuestCartRepository(gdb)
	reservationRepo := repositories.NewGORMReservationRepository(gdb)
	draftRepo := repositories.NewGORMDraftRepository(gdb)
	ratingRepo := repositories.NewGORMRatingRepository(gdb)
	promotionRepo := repositories.NewGORMPromotionRepository(gdb)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, cfg.GuestTTL)
	productService := services.NewProductService(productRepo)
	catalogService := services.NewCatalogService(serviceTypeRepo, classifier, cfg.CatalogCacheTTL, cfg.StoragePublicURL)
	quoteService := services.NewQuoteService(serviceTypeRepo)
	promotionService := services.NewPromotionService(promotionRepo, cfg.PromotionCacheTTL)
	cartService := services.NewCartService(userCartRepo, guestCartRepo, productRepo, promotionService, bus,
		cfg.ShippingThreshold, cfg.ShippingFee)
	reservationService := services.NewReservationService(reservationRepo, draftRepo, quoteService, bus)
	ratingService := services.NewRatingService(ratingRepo, productRepo)

	// --- Handlers ---
	api := handlers.Set{
		Auth:         handlers.NewAuthHandler(authService),
		Products:     handlers.NewProductHandler(productService),
		Catalog:      handlers.NewCatalogHandler(catalogService),
		Cart:         handlers.NewCartHandler(cartService, bus),
		Reservations: handlers.NewReservationHandler(reservationService, quoteService),
		Ratings:      handlers.NewRatingHandler(ratingService),
		Promotions:   handlers.NewPromotionHandler(promotionService),
	}

	app := fiber.New(fiber.Config{AppName: "darna"})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization, Idempotency-Key",
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		database := "up"
		if sqlDB, err := gdb.DB(); err != nil {
			database = "down"
		} else {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := sqlDB.PingContext(ctx); err != nil {
				database = "down"
			}
		}
		broker := "disabled"
		if forward != nil {
			broker = "enabled"
		}
		status := fiber.StatusOK
		if database != "up" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   map[bool]string{true: "healthy", false: "degraded"}[status == fiber.StatusOK],
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"broker":   broker,
		})
	})

	// --- API Routes ---
	api.Register(app.Group("/api/v1"), middleware.NewGuards(authService))
	return app, nil
}

func loadClassifier(rulesFile string) (*catalog.Classifier, error) {
	if rulesFile == "" {
		return catalog.MustDefault(), nil
	}
	rules, err := catalog.LoadRules(rulesFile)
	if err != nil {
		return nil, err
	}
	classifier, err := catalog.NewClassifier(rules)
	if err != nil {
		return nil, fmt.Errorf("catalog rules %s: %w", rulesFile, err)
	}
	log.Printf("Loaded %d catalog rules from %s", len(rules), rulesFile)
	return classifier, nil
}

// logReservation reports new reservations for admin follow-up.
func logReservation(msg amqp.Delivery) error {
	var e events.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode reservation event: %w", err)
	}
	log.Printf("New reservation (tag %d) at %s: %v", msg.DeliveryTag, e.At.Format(time.RFC3339), e.Payload)
	return nil
}
