package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/studyspot/backend/api/handler"
	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/internal/config"
	"github.com/studyspot/backend/internal/infrastructure/buffer"
	"github.com/studyspot/backend/internal/infrastructure/monitor"
	pgInfra "github.com/studyspot/backend/internal/infrastructure/postgres"
	redisInfra "github.com/studyspot/backend/internal/infrastructure/redis"
	"github.com/studyspot/backend/internal/middleware"
	"github.com/studyspot/backend/internal/router"
	"github.com/studyspot/backend/internal/services"
	"github.com/studyspot/backend/internal/services/lifecycle"
	"github.com/studyspot/backend/pkg/httpcontext"
	"github.com/studyspot/backend/pkg/logger"
	"github.com/studyspot/backend/repository/postgres"
	redisRepo "github.com/studyspot/backend/repository/redis"
	authUC "github.com/studyspot/backend/usecase/auth"
	"github.com/studyspot/backend/usecase/notify"
	"github.com/studyspot/backend/usecase/proximity"
	sessionUC "github.com/studyspot/backend/usecase/session"
	statusUC "github.com/studyspot/backend/usecase/status"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Name:     cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "reports")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	seedCtx, seedCancel := context.WithTimeout(appCtx, 10*time.Second)
	if err := locationRepo.Seed(seedCtx, domain.SeedLocations()); err != nil {
		seedCancel()
		zapLogger.Fatal("location seeding failed", zap.Error(err))
	}
	seedCancel()

	throttle := notify.NewThrottle(notificationRepo, cfg.Proximity.NotifyCooldown)
	engine := proximity.NewEngine(locationRepo, notificationRepo, throttle, zapLogger)
	aggregator := statusUC.NewAggregator(reportRepo, locationRepo, zapLogger)

	reportProcessor := services.NewReportProcessor(
		bufferStore,
		mon,
		reportRepo,
		aggregator,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	reportProcessor.Start()
	manager.Register("report_processor", func(ctx context.Context) error {
		reportProcessor.Stop(ctx)
		return nil
	})

	reconciler := services.NewStatusReconciler(locationRepo, aggregator, cfg.Proximity.ReconcileInterval, zapLogger)
	reconciler.Start()
	manager.Register("status_reconciler", func(ctx context.Context) error {
		reconciler.Stop(ctx)
		return nil
	})

	reportBridge := services.NewReportBridge(reportProcessor)

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.Session.TTL, zapLogger)
	machine := sessionUC.New(sessionRepo, reportRepo, engine, aggregator, reportBridge, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Location: apiHandler.NewLocationHandler(locationRepo, engine, aggregator, cfg.Proximity.RecentLimit, ctxAdapter, zapLogger),
		Session:  apiHandler.NewSessionHandler(machine, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
