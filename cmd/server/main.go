package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	// Application
	"github.com/lightdata/push-dispatch/internal/application/port"
	"github.com/lightdata/push-dispatch/internal/application/usecase"

	// Infrastructure
	"github.com/lightdata/push-dispatch/internal/infrastructure/collector"
	natsInfra "github.com/lightdata/push-dispatch/internal/infrastructure/messaging/nats"
	wsInfra "github.com/lightdata/push-dispatch/internal/infrastructure/notification/websocket"
	"github.com/lightdata/push-dispatch/internal/infrastructure/observability/cloudwatch"
	"github.com/lightdata/push-dispatch/internal/infrastructure/persistence/dynamodb"
	"github.com/lightdata/push-dispatch/internal/infrastructure/persistence/postgres"
	"github.com/lightdata/push-dispatch/internal/infrastructure/push/fcm"
	registryMemory "github.com/lightdata/push-dispatch/internal/infrastructure/registry/memory"
	"github.com/lightdata/push-dispatch/internal/infrastructure/render"
	stateMemory "github.com/lightdata/push-dispatch/internal/infrastructure/state/memory"
	stateRedis "github.com/lightdata/push-dispatch/internal/infrastructure/state/redis"
	"github.com/lightdata/push-dispatch/internal/infrastructure/storage/filehost"
	s3storage "github.com/lightdata/push-dispatch/internal/infrastructure/storage/s3"
	"github.com/lightdata/push-dispatch/internal/infrastructure/telemetry"

	// Interfaces
	httpInterface "github.com/lightdata/push-dispatch/internal/interfaces/http"
	"github.com/lightdata/push-dispatch/internal/interfaces/http/handler"
	"github.com/lightdata/push-dispatch/internal/interfaces/http/middleware"

	// Scheduler
	"github.com/lightdata/push-dispatch/internal/scheduler"

	// Shared
	"github.com/lightdata/push-dispatch/pkg/config"
	"github.com/lightdata/push-dispatch/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting Push Dispatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Dependency Injection - Infrastructure Layer

	// Telemetry clients
	statsClient := telemetry.NewStatsClient(cfg.Telemetry.StatsURL)
	monitoringClient := telemetry.NewMonitoringClient(cfg.Telemetry.MonitoringURL)

	// Resource snapshot: remote metrics endpoint when configured,
	// otherwise host-local gopsutil readings.
	var resources port.ResourceSource
	if cfg.Telemetry.MetricsURL != "" {
		resources = telemetry.NewMetricsClient(cfg.Telemetry.MetricsURL)
	} else {
		resources = collector.NewLocalResourceSource(cfg.Dispatch.DiskPath)
		log.Info("TELEMETRY_METRICS_URL not set, using host-local resource metrics")
	}

	// Device registry: Postgres or in-memory
	var registry port.DeviceRegistry
	if cfg.Database.Enabled {
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Error("Failed to connect to database", err)
			os.Exit(1)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

		if err := db.Ping(); err != nil {
			log.Error("Failed to ping database", err)
			os.Exit(1)
		}
		log.Info("Database connected successfully")

		registry = postgres.NewPostgresDeviceRegistry(db)
	} else {
		registry = registryMemory.NewDeviceRegistry()
		log.Warn("DB_ENABLED=false, device registry is in-memory and lost on restart")
	}

	// State store (last payload hash per recipient): Redis or in-memory
	var state port.StateStore
	if cfg.Redis.Enabled {
		redisState, err := stateRedis.NewStateStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.HashTTL)
		if err != nil {
			log.Error("Failed to connect to Redis", err)
			os.Exit(1)
		}
		defer redisState.Close()
		state = redisState
		log.Info("Redis state store connected", "addr", cfg.Redis.Addr)
	} else {
		state = stateMemory.NewStateStore()
	}

	// Image store: S3 or HTTP file host
	var images port.ImageStore
	if cfg.S3.Enabled {
		s3Store, err := s3storage.NewImageStore(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			KeyPrefix:       cfg.S3.KeyPrefix,
			URLMode:         s3storage.URLMode(cfg.S3.URLMode),
			PresignedTTL:    cfg.S3.PresignedTTL,
		})
		if err != nil {
			log.Error("Failed to initialize S3 image store", err)
			os.Exit(1)
		}
		images = s3Store
	} else {
		images = filehost.NewImageStore(cfg.Filehost.UploadURL)
	}

	// Push sender (FCM)
	pushSender, err := fcm.NewSender(ctx, cfg.Push.CredentialsFile)
	if err != nil {
		log.Error("Failed to initialize FCM sender", err)
		os.Exit(1)
	}

	// WebSocket Hub
	hub := wsInfra.NewHub(log.WithComponent("hub"))

	// Optional: NATS event publisher
	var events port.EventPublisher
	if cfg.NATS.Enabled {
		natsPublisher, err := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if err != nil {
			log.Error("Failed to connect to NATS", err)
			os.Exit(1)
		}
		defer natsPublisher.Close()
		events = natsPublisher
	}

	// Optional: DynamoDB dispatch history
	var history port.DispatchHistory
	if cfg.DynamoDB.Enabled {
		dynamoHistory, err := dynamodb.NewDispatchHistory(ctx, dynamodb.Config{
			TableName:       cfg.DynamoDB.TableName,
			Region:          cfg.DynamoDB.Region,
			Endpoint:        cfg.DynamoDB.Endpoint,
			AccessKeyID:     cfg.DynamoDB.AccessKeyID,
			SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
			RetentionDays:   cfg.DynamoDB.RetentionDays,
		})
		if err != nil {
			log.Error("Failed to initialize dispatch history", err)
			os.Exit(1)
		}
		history = dynamoHistory
	}

	// Optional: CloudWatch cycle metrics
	var cycleMetrics port.CycleMetricsPublisher
	if cfg.CloudWatch.Enabled {
		cwPublisher, err := cloudwatch.NewCycleMetricsPublisher(ctx, cloudwatch.CycleMetricsPublisherConfig{
			Namespace:       cfg.CloudWatch.Namespace,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			FlushInterval:   cfg.CloudWatch.FlushInterval,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch metrics", err)
			os.Exit(1)
		}
		defer cwPublisher.Close()
		cycleMetrics = cwPublisher
	}

	// 4. Dependency Injection - Application Layer (Use Cases)

	dispatchUC := usecase.NewDispatchSummaryUseCase(usecase.DispatchSummaryDeps{
		Stats:      statsClient,
		Monitoring: monitoringClient,
		Resources:  resources,
		State:      state,
		Renderer:   render.NewSummaryRenderer(),
		Images:     images,
		Push:       pushSender,
		Notifier:   hub,
		Events:     events,
		History:    history,
	}, log)

	registerDeviceUC := usecase.NewRegisterDeviceUseCase(registry, log)
	sendPushUC := usecase.NewSendPushUseCase(pushSender, log)

	// Scheduler
	runner := scheduler.NewRunner(registry, dispatchUC, cycleMetrics, log.WithComponent("scheduler"), cfg.Dispatch.Interval)

	// 5. Dependency Injection - Interfaces Layer (HTTP Handlers)

	authConfig := middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
	}

	deviceHandler := handler.NewDeviceHandler(registerDeviceUC, log)
	pushHandler := handler.NewPushHandler(sendPushUC, log)
	dispatchHandler := handler.NewDispatchHandler(dispatchUC, runner, log)
	websocketHandler := handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log)

	var rateLimiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Router
	router := httpInterface.NewRouter(
		deviceHandler,
		pushHandler,
		dispatchHandler,
		websocketHandler,
		cfg.Security,
		rateLimiter,
		log.WithComponent("http"),
	)

	// 6. Запускаем фоновые процессы

	// Запускаем WebSocket hub
	go hub.Run()
	log.Info("WebSocket hub started")

	// Запускаем цикл рассылки
	go runner.Start(ctx)
	log.Info("Dispatch scheduler started", "interval", cfg.Dispatch.Interval.String())

	// 7. Настраиваем HTTP сервер

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Запускаем сервер в отдельной goroutine
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 8. Ожидаем сигнал для graceful shutdown

	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	// Останавливаем цикл рассылки
	cancel()

	// Даем время на завершение текущих операций
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	log.Info("Server stopped gracefully")
}
