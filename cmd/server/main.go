package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/suwityarat/portfolio/config"
	appmodel "github.com/suwityarat/portfolio/internal/app/model"
	apprepository "github.com/suwityarat/portfolio/internal/app/repository"
	appserver "github.com/suwityarat/portfolio/internal/app/server"
	"github.com/suwityarat/portfolio/internal/app/service"
	"github.com/suwityarat/portfolio/internal/http/handler"
	"github.com/suwityarat/portfolio/internal/infra/logger"
	infraNATS "github.com/suwityarat/portfolio/internal/infra/nats"
	infraPostgres "github.com/suwityarat/portfolio/internal/infra/postgres"
	infraPrometheus "github.com/suwityarat/portfolio/internal/infra/prometheus"
	infraRedis "github.com/suwityarat/portfolio/internal/infra/redis"
	"github.com/suwityarat/portfolio/internal/mail"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	isDev := os.Getenv("APP_ENV") != "production"
	log := logger.MustInit(logger.Config{
		Development: isDev,
		Level:       os.Getenv("LOG_LEVEL"),
		Service:     "portfolio",
	})
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	log.Info("Configuration loaded successfully",
		zap.String("env", cfg.Server.Env),
		zap.String("kv_driver", cfg.KV.Driver),
		zap.String("redis_host", cfg.Redis.Host),
		zap.Int("redis_port", cfg.Redis.Port),
		zap.String("nats_host", cfg.NATS.Host),
		zap.Int("nats_port", cfg.NATS.Port),
		zap.Bool("ledger_enabled", cfg.Postgres.Enabled()),
		zap.Bool("mail_enabled", cfg.Mail.Enabled),
		zap.Bool("admin_pin_set", cfg.Admin.PIN != ""),
	)

	checks := map[string]handler.Check{}

	// Key-value store
	var (
		kv          apprepository.KV
		redisClient *redis.Client
	)
	switch cfg.KV.Driver {
	case config.KVDriverMemory:
		kv = apprepository.NewMemoryKV()
		log.Warn("Using in-memory key-value store; analytics and applications are not persisted")
	default:
		redisClient, err = infraRedis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		kv = infraRedis.NewKV(redisClient)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		log.Info("Connected to Redis successfully")
	}

	// Contact queue
	natsConn, js, err := infraNATS.Connect(cfg.NATS)
	if err != nil {
		log.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Drain()
	if err := infraNATS.EnsureContactStream(js, cfg.Contact); err != nil {
		log.Fatal("Failed to prepare contact stream", zap.Error(err))
	}
	checks["nats"] = func(context.Context) error {
		if natsConn.Status() != nats.CONNECTED {
			return errors.New("nats: " + natsConn.Status().String())
		}
		return nil
	}
	log.Info("Connected to NATS successfully",
		zap.String("stream", cfg.Contact.Stream),
		zap.String("subject", cfg.Contact.Subject))

	// Delivery ledger (optional)
	var ledger apprepository.DeliveryRepository
	var sweeper *service.DeliverySweeper
	if cfg.Postgres.Enabled() {
		gormDB, err := infraPostgres.NewGorm(cfg.Postgres, logger.Named("gorm"))
		if err != nil {
			log.Fatal("Failed to open GORM connection", zap.Error(err))
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			log.Fatal("Failed to access underlying SQL DB", zap.Error(err))
		}
		defer sqlDB.Close()

		if err := infraPostgres.AutoMigrate(ctx, gormDB, &appmodel.ContactDelivery{}); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}

		var pool *pgxpool.Pool
		pool, err = infraPostgres.NewPool(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal("Failed to connect to Postgres", zap.Error(err))
		}
		defer pool.Close()
		checks["postgres"] = pool.Ping

		ledger = apprepository.NewDeliveryRepository(gormDB)
		sweeper = service.NewDeliverySweeper(logger.Named("sweeper"), ledger, cfg.Contact.PendingTTL)
		sweeper.Start()
		defer sweeper.Stop()
		log.Info("Connected to Postgres successfully")
	} else {
		log.Info("Delivery ledger disabled; duplicate suppression is in-process only")
	}

	consumer := service.NewContactConsumer(service.ContactConsumerDeps{
		JetStream: js,
		Config:    cfg.Contact,
		Logger:    logger.Named("contact-consumer"),
		Sender:    mail.NewSender(cfg.Mail, logger.Named("mail")),
		Compose: mail.ComposeOptions{
			From:     cfg.Mail.From,
			To:       cfg.Mail.To,
			SiteName: cfg.Mail.SiteName,
		},
		Ledger: ledger,
	})
	if err := consumer.Start(ctx); err != nil {
		log.Fatal("Failed to start contact consumer", zap.Error(err))
	}
	defer consumer.Stop()

	if !isDev {
		promServer := infraPrometheus.NewServer(cfg.Prometheus)
		go func() {
			log.Info("Starting Prometheus metrics server",
				zap.Int("port", cfg.Prometheus.Port))
			if err := promServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server stopped unexpectedly", zap.Error(err))
			}
		}()
		defer func() {
			if err := promServer.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("Failed to close Prometheus server", zap.Error(err))
			}
		}()
	} else {
		log.Info("Skipping Prometheus metrics server in development mode")
	}

	deps := appserver.Dependencies{
		Logger:       log,
		Config:       cfg,
		Contacts:     service.NewContactService(service.NewJetStreamContactPublisher(js, cfg.Contact.Subject)),
		Analytics:    service.NewAnalyticsService(apprepository.NewAnalyticsRepository(kv), logger.Named("analytics")),
		Applications: service.NewApplicationService(apprepository.NewApplicationRepository(kv)),
		Admin:        service.NewAdminService(cfg.Admin.PIN),
		Checks:       checks,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}
	server := appserver.New(deps)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("Fiber shutdown incomplete", zap.Error(err))
		}
	}()

	addr := cfg.Server.Addr()
	log.Info("Starting HTTP server", zap.String("addr", addr))
	if err := server.Listen(addr); err != nil {
		log.Error("Fiber server exited", zap.Error(err))
	}
}
