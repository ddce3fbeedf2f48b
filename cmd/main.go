package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/shenikar/safety_guardian/internal/config"
	v1 "github.com/shenikar/safety_guardian/internal/handler/http/v1"
	"github.com/shenikar/safety_guardian/internal/location"
	"github.com/shenikar/safety_guardian/internal/repository"
	"github.com/shenikar/safety_guardian/internal/safety"
	"github.com/shenikar/safety_guardian/internal/scheduler"
	"github.com/shenikar/safety_guardian/internal/service"
	"github.com/shenikar/safety_guardian/internal/webhook"
	"github.com/shenikar/safety_guardian/pkg/logger"
	"github.com/shenikar/safety_guardian/pkg/metrics"
	"github.com/shenikar/safety_guardian/pkg/postgres"
	redisclient "github.com/shenikar/safety_guardian/pkg/redis"
	"github.com/sirupsen/logrus"

	_ "github.com/shenikar/safety_guardian/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Safety Guardian API
// @version 1.0
// @description Personal safety backend: SOS alerts, check-in timers, trusted contacts and live location.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
	}

	m, err := migrate.New(
		"file://migrations",
		migrationURL,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.LogFile)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Инициализация и запуск воркера вебхуков
	webhookWorker := webhook.NewWebhookWorker(redisClient, log, cfg, appMetrics)
	webhookWorker.Start(ctx)

	// Инициализация репозиториев
	contactRepo := repository.NewContactRepository(dbpool, redisClient, cfg.ContactsCacheTTL)
	sessionRepo := repository.NewSessionRepository(dbpool)
	locationProvider := location.NewRedisProvider(redisClient, cfg.LocationTTL)

	// Инициализация сервисов
	contactService := service.NewContactService(contactRepo, log)
	notifier := webhook.NewSessionNotifier(
		webhook.NewRedisWebhookPublisher(redisClient),
		contactService,
		safety.SystemClock{},
		log,
		cfg.EmergencyNumber,
	)
	safetyService := service.NewSafetyService(service.SafetyDependencies{
		Repo:     sessionRepo,
		Contacts: contactService,
		Notifier: notifier,
		Locator:  locationProvider,
		Sink:     locationProvider,
		Recorder: appMetrics,
		Logger:   log,
	}, service.SafetyOptions{
		Settings: safety.Settings{
			AllowedCheckInSeconds: cfg.CheckInAllowedSeconds(),
			LocationTimeout:       cfg.LocationTimeout,
		},
		HistoryRetention: time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour,
		ManagerIdleTTL:   cfg.ManagerIdleTTL,
	})

	// Поднимаем активные сессии, пережившие рестарт
	if err := safetyService.Restore(ctx); err != nil {
		log.Fatalf("Failed to restore active sessions: %v", err)
	}

	// Периодические задачи
	sched := scheduler.New(log)
	sched.Every("tick", cfg.TickInterval, scheduler.FuncJob(safetyService.TickAll))
	sched.Every("location-refresh", cfg.LocationRefreshInterval, scheduler.FuncJob(safetyService.RefreshAll))
	if err := sched.Cron("history-purge", cfg.HistoryPurgeCron, scheduler.FuncJob(func(ctx context.Context) {
		if _, err := safetyService.PurgeHistory(ctx); err != nil {
			log.WithError(err).Error("Failed to purge session history")
		}
	})); err != nil {
		log.Fatalf("Failed to schedule history purge: %v", err)
	}
	sched.Start()

	// Ограничение частоты SOS
	limiterStore, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix:   "limiter_sos",
		MaxRetry: 3,
	})
	if err != nil {
		log.Fatalf("Failed to create rate limiter store: %v", err)
	}
	sosLimiter, err := v1.NewSOSRateLimiter(cfg.SOSRateLimit, limiterStore, log, v1.SessionActivity(safetyService))
	if err != nil {
		log.Fatalf("Failed to create SOS rate limiter: %v", err)
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(safetyService, contactService, log, cfg, sosLimiter)

	// Настройка Gin роутера
	router := gin.Default()
	router.Use(appMetrics.Middleware())
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	// Метрики Prometheus
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	sched.Stop()
	cancel()

	log.Info("Server gracefully stopped")
}
