package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	_ "babypool/docs"
	"babypool/internal/api"
	"babypool/internal/auth"
	"babypool/internal/category"
	"babypool/internal/config"
	"babypool/internal/ledger"
	"babypool/internal/logger"
	"babypool/internal/manager"
	"babypool/internal/messaging"
	"babypool/internal/metrics"
	"babypool/internal/settlement"
	"babypool/internal/site"
	"babypool/internal/storage"
	"babypool/internal/subdomain"
	"babypool/internal/worker"
)

// @title Baby Pool API
// @version 1.0
// @description Multi-tenant baby pool sites: subdomain allocation, site rendering and the bet ledger
// @host localhost:8080
// @BasePath /
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey ProvisioningKey
// @in header
// @name X-Provisioning-Key
func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load Configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info", ServiceName: "babypool"})
		bootLog.Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: "babypool",
		Development: cfg.Log.Development,
	})
	defer log.Sync()

	// Init Metrics
	metrics.Init()

	// Setup JWT Secret
	auth.SetSecret(cfg.Auth.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	db, err := storage.NewStorage(cfg.Database.URL, log)
	if err != nil {
		log.Fatal("failed to init DB", zap.Error(err))
	}
	defer db.DB.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal("failed to migrate schema", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// Subdomain lookups: our own claims first, then the shared registry
	lookups := subdomain.Chain{db}
	if cfg.Registry.URL != "" {
		var remote subdomain.Lookup = subdomain.NewRemoteRegistry(cfg.Registry.URL, cfg.Registry.Timeout, log)
		if cfg.Redis.Addr != "" {
			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer rdb.Close()
			remote = subdomain.NewCachedLookup(subdomain.NewRedisKV(rdb), remote, log)
			log.Info("registry lookups cached in Redis", zap.String("addr", cfg.Redis.Addr))
		}
		lookups = append(lookups, remote)
	}
	allocator := subdomain.NewAllocator(lookups, subdomain.Options{
		Reserved:      cfg.Subdomain.Reserved,
		Strict:        cfg.Subdomain.Strict,
		LookupTimeout: cfg.Registry.Timeout,
	}, log)

	templates := site.DefaultTemplateSet()
	if cfg.Site.TemplateDir != "" {
		templates, err = site.LoadTemplateSet(os.DirFS(cfg.Site.TemplateDir))
		if err != nil {
			log.Fatal("failed to load site templates", zap.String("dir", cfg.Site.TemplateDir), zap.Error(err))
		}
	}

	// Init RabbitMQ
	var (
		publisher  manager.Publisher
		ledgerOpts []ledger.Option
		rabbit     *messaging.RabbitClient
	)
	if cfg.RabbitMQ.URL != "" {
		rabbit, err = messaging.NewRabbitClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.BuildQueue, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer rabbit.Close()
		publisher = rabbit
		ledgerOpts = append(ledgerOpts, ledger.WithEvents(rabbit))
		log.Info("RabbitMQ connected", zap.String("build_queue", cfg.RabbitMQ.BuildQueue))
	} else {
		log.Warn("rabbitmq.url not set, site bundles will not be published")
	}

	tm := manager.NewTenantManager(db, allocator, templates, publisher, log)
	bets := ledger.New(db, log, ledgerOpts...)
	categories := category.NewRegistry(db, log)
	stats := settlement.NewCalculator(db)

	// Recover Existing Tenants
	n, err := tm.RecoverTenants(ctx)
	if err != nil {
		log.Fatal("failed to recover tenants", zap.Error(err))
	}
	log.Info("recovered tenants", zap.Int("count", n))

	// Start background loop for updating queue depth metrics
	if rabbit != nil {
		go func() {
			ticker := time.NewTicker(10 * time.Second)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					rabbit.UpdateQueueDepth()
				}
			}
		}()
	}

	// Local site builder
	var builder *worker.Builder
	if cfg.Builder.OutputDir != "" {
		builder = worker.NewBuilder(rabbit, cfg.Builder.OutputDir, cfg.Builder.Workers, log)
		if err := builder.Start(); err != nil {
			log.Fatal("failed to start site builder", zap.Error(err))
		}
	}

	// Init API
	apiHandler := api.NewAPI(tm, bets, categories, stats, allocator,
		cfg.Auth.ProvisioningKey, cfg.Auth.TokenTTL, log)
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apiHandler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting API server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done() // Wait for interrupt signal
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown error", zap.Error(err))
	}

	if builder != nil {
		builder.Stop()
	}

	log.Info("graceful shutdown complete")
}
