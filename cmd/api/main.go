package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal-api/internal/config"
	"github.com/harentsoaR/doctors-portal-api/internal/handlers"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/services"
	"github.com/harentsoaR/doctors-portal-api/internal/services/mailer"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
)

// Catalogue loaded into the memory store so local runs have something to book.
var demoServices = []models.Service{
	{Name: "Teeth Orthodontics", Slots: []string{"08.00 AM - 08.30 AM", "08.30 AM - 09.00 AM", "09.00 AM - 09.30 AM", "09.30 AM - 10.00 AM"}},
	{Name: "Cosmetic Dentistry", Slots: []string{"10.05 AM - 10.30 AM", "10.30 AM - 11.00 AM", "11.00 AM - 11.30 AM"}},
	{Name: "Teeth Cleaning", Slots: []string{"08.00 AM - 08.30 AM", "09.00 AM - 09.30 AM", "10.00 AM - 10.30 AM", "11.00 AM - 11.30 AM"}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreDriver),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("notify_driver", cfg.NotifyDriver),
		zap.Bool("role_cache", cfg.RedisAddr != ""),
	)

	// --- Database Connection ---
	var st store.Store
	switch cfg.StoreDriver {
	case "memory":
		st = store.NewMemoryStore(demoServices...)
		logger.Warn("using in-memory store, data is lost on restart")
	default:
		client, mongoStore := connectMongo(cfg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.Error("failed to disconnect from MongoDB", zap.Error(err))
			}
		}()
		st = mongoStore
	}

	// --- Role cache ---
	var cache store.RoleCache
	if cfg.RedisAddr != "" {
		rdb := connectRedis(cfg, logger)
		defer rdb.Close()
		cache = store.NewRedisRoleCache(rdb, cfg.RoleCacheTTL)
	}

	// --- Notifications ---
	sender, closeSender := newSender(cfg, logger)
	defer closeSender()
	notificationSvc := services.NewNotificationService(sender, services.NotificationConfig{
		From:          cfg.EmailSender,
		ClinicAddress: cfg.ClinicAddress,
		Workers:       cfg.NotifyWorkers,
		QueueSize:     cfg.NotifyQueueSize,
	}, logger.Named("notifier"))
	notificationSvc.Start()

	var notifier services.Notifier
	if cfg.NotifyOnBooking {
		notifier = notificationSvc
	}

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("failed to build token manager", zap.Error(err))
	}

	// --- Initialize Handlers with Store and Services ---
	h := handlers.NewHandler(st, tokens, notifier, cache, logger)
	h.WarnOnTokenIssue = cfg.IsProduction()

	router := handlers.NewRouter(h, handlers.RouterConfig{
		AllowOrigins:    cfg.AllowedOrigins(),
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Doctors portal server running", zap.String("port", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := notificationSvc.Stop(ctx); err != nil {
		logger.Error("notification queue did not drain", zap.Error(err))
	}
}

func connectMongo(cfg *config.Config, logger *zap.Logger) (*mongo.Client, *store.MongoStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	mongoStore := store.NewMongoStore(client.Database(cfg.MongoDatabase))
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}
	logger.Info("Successfully connected to MongoDB!")
	return client, mongoStore
}

func connectRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	return rdb
}

func newSender(cfg *config.Config, logger *zap.Logger) (mailer.Sender, func()) {
	switch cfg.NotifyDriver {
	case "smtp":
		return mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword), func() {}
	case "amqp":
		conn, err := amqp091.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		sender, err := mailer.NewAMQPSender(conn, cfg.AMQPQueue)
		if err != nil {
			conn.Close()
			logger.Fatal("Failed to set up RabbitMQ sender", zap.Error(err))
		}
		return sender, func() {
			sender.Close()
			conn.Close()
		}
	default:
		return mailer.NewLogSender(logger.Named("mailer")), func() {}
	}
}
