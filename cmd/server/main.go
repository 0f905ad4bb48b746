package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glamgo/config"
	"glamgo/internal/api"
	"glamgo/internal/auth"
	"glamgo/internal/authz"
	"glamgo/internal/broker"
	"glamgo/internal/redisclient"
	"glamgo/internal/service"
	"glamgo/internal/store"
	"glamgo/internal/util"
	"glamgo/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting marketplace API")

	tp, err := util.InitTracer("glamgo-api", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	db, err := store.NewStore(cfg.DB.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	migrateCancel()
	logger.Info("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CacheTTL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	logger.Info("Kafka producer initialized", zap.String("topic", cfg.Kafka.TopicEvents))

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		logger.Fatal("Failed to initialize token verifier", zap.Error(err))
	}

	deps := service.Deps{
		Schema: authz.DefaultSchema(),
		Cache:  redisClient,
		Events: broker.NewEventPublisher(producer),
		Logger: logger,
	}
	services := api.Services{
		Stores:        service.NewStoreService(db, deps),
		Products:      service.NewProductService(db, deps),
		Orders:        service.NewOrderService(db, redisClient, deps),
		OrderProducts: service.NewOrderProductService(db, deps),
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	cacheWorker := worker.NewCacheWorker(consumer, redisClient, db)
	go func() {
		if err := cacheWorker.Start(workerCtx); err != nil && err != context.Canceled {
			logger.Error("Cache worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	handler := api.NewHandler(services, verifier)
	handler.AddReadinessCheck("postgres", db)
	handler.AddReadinessCheck("redis", redisClient)
	handler.SetupRoutes(router, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := cacheWorker.Stop(); err != nil {
		logger.Error("Error stopping cache worker", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newVerifier prefers the user pool's JWKS and falls back to a shared HMAC
// secret for local development.
func newVerifier(cfg config.AuthConfig) (*auth.Verifier, error) {
	opts := auth.Options{
		Issuer:     cfg.Issuer,
		HMACSecret: cfg.HMACSecret,
		JWKSTTL:    cfg.JWKSTTL,
		Audience:   cfg.ClientID,
		TokenUse:   cfg.TokenUse,
	}
	if cfg.Issuer != "" && cfg.UserPoolID != "" {
		opts.JWKSURL = auth.JWKSURL(cfg.Issuer)
	}
	return auth.NewVerifier(opts)
}
