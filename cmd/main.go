package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"tasty-bites/internal/catalog"
	"tasty-bites/internal/config"
	"tasty-bites/internal/database"
	"tasty-bites/internal/dialogue"
	"tasty-bites/internal/logger"
	"tasty-bites/internal/messaging"
	"tasty-bites/internal/orders"
	"tasty-bites/internal/services/admin"
	"tasty-bites/internal/services/bot"
	"tasty-bites/internal/services/notification"
	"tasty-bites/internal/session"
	"tasty-bites/internal/users"
)

func main() {
	// Parse command line flags
	var (
		mode     = flag.String("mode", "", "Service mode (bot-service, notification-subscriber)")
		port     = flag.Int("port", 3000, "HTTP port")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	// Validate required mode flag
	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	// Route to appropriate service
	switch *mode {
	case "bot-service":
		if err := runBotService(ctx, cfg, log, *port); err != nil {
			log.Error("service_failed", "Bot service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runBotService runs the WhatsApp bot with its webhook and admin API
func runBotService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	// Initialize database
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	// Run database migrations
	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize messaging
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)

	// Load the menu once at startup
	menu, err := catalog.Load(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	log.Info("menu_loaded", fmt.Sprintf("Loaded %d menu items", len(menu.Items())), requestID, nil)

	// Pick the session store
	store, err := newSessionStore(ctx, cfg, log, requestID)
	if err != nil {
		return err
	}

	// Wire repositories and the dialogue engine
	userRepo := users.NewRepository(db, log)
	orderRepo := orders.NewRepository(db, publisher, log)
	engine := dialogue.NewEngine(menu, store, orderRepo, log)

	// Setup HTTP routes
	botHandler := bot.NewHandler(engine, userRepo, orderRepo, menu, log)
	mux := botHandler.SetupRoutes()

	adminHandler := admin.NewHandler(orderRepo, cfg, log)
	adminHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("service_started", fmt.Sprintf("Bot service started on port %d", port), requestID, map[string]interface{}{
			"port":          port,
			"session_store": cfg.Server.SessionStore,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// newSessionStore builds the configured session store
func newSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger, requestID string) (session.Store, error) {
	switch cfg.Server.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr(),
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		log.Info("redis_connected", "Connected to Redis session store", requestID, map[string]interface{}{
			"addr": cfg.RedisAddr(),
		})
		return session.NewRedisStore(client), nil
	default:
		log.Info("memory_store", "Using in-memory session store", requestID, nil)
		return session.NewMemoryStore(), nil
	}
}

// runNotificationSubscriber runs the console notification consumer
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	hostname, _ := os.Hostname()
	consumerTag := fmt.Sprintf("notification-subscriber-%s", hostname)

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, consumerTag, prefetch)
	subscriber := notification.NewSubscriber(consumer, log)

	return subscriber.Start(ctx)
}
