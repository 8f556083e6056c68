package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpapi "sewa-backend/internal/api/http"
	"sewa-backend/internal/config"
	"sewa-backend/internal/events"
	"sewa-backend/internal/jobs"
	"sewa-backend/internal/logger"
	"sewa-backend/internal/notify"
	"sewa-backend/internal/repository/postgres"
	"sewa-backend/internal/scheduler"
	"sewa-backend/internal/security"
	"sewa-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("scheduler", true, "Run the cron scheduler in this process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Sewa Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize Services
	bookingSvc := service.NewBookingService(
		store,
		store.BookingRepository,
		store.ItemRepository,
		store.UserRepository,
		store.ChatRepository,
		newTransitionHooks(cfg, store),
	)
	chatSvc := service.NewChatService(store.BookingRepository, store.ChatRepository, store.UserRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Rate limiting (optional)
	var limiter *httpapi.RateLimiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("Redis unreachable, rate limited routes will pass through until it recovers", "addr", cfg.Redis.Addr, "error", err)
		}
		cancel()
		limiter = httpapi.NewRateLimiter(cfg.RateLimit, rdb)
		logger.Info("Rate limiting configured", "enabled", cfg.RateLimit.Enabled, "capacity", cfg.RateLimit.Capacity)
	}

	// HTTP API
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Bookings:      httpapi.NewBookingHandler(bookingSvc),
		Chat:          httpapi.NewChatHandler(chatSvc),
		Notifications: httpapi.NewNotificationHandler(noteSvc),
		Auth:          httpapi.NewAuthMiddleware(tokenManager),
		RateLimiter:   limiter,
		DB:            store,
	})
	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// gRPC health + reflection
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	// Scheduler
	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		jobRunner := jobs.NewJobRunner(&jobs.Services{Booking: bookingSvc}, cfg)
		cronScheduler = scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
	}

	serveErr := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			serveErr <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http: %w", err)
		}
	}()

	// Wait for interrupt signal or a server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serveErr:
		logger.Error("Server failed", "error", err)
	}

	// Graceful shutdown
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	logger.Info("Server stopped. Goodbye!")
}

func openDatabase(cfg *config.Config) (*sql.DB, error) {
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Test database connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// newTransitionHooks assembles the in-transaction hooks and the optional
// post-commit listeners enabled by configuration.
func newTransitionHooks(cfg *config.Config, store *postgres.Store) *service.TransitionHooks {
	hooks := &service.TransitionHooks{
		Hooks: []service.TransitionHook{
			service.NewSystemMessageHook(store.ChatRepository),
			service.NewNotificationHook(store.NotificationRepository),
		},
	}
	if cfg.RabbitMQ.URL != "" {
		hooks.Listeners = append(hooks.Listeners, events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue))
		logger.Info("Publishing booking events", "queue", cfg.RabbitMQ.Queue)
	}
	if cfg.SendGrid.APIKey != "" {
		mailer := notify.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		hooks.Listeners = append(hooks.Listeners, notify.NewEmailNotifier(store.UserRepository, mailer))
		logger.Info("Sending booking status e-mails", "from", cfg.SendGrid.FromEmail)
	}
	return hooks
}
