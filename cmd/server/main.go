package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/paynet/iso20022-orchestrator/internal/config"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/corebanking"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/jobs"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/messaging"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/repositories"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/handlers"
	"github.com/paynet/iso20022-orchestrator/internal/interfaces/http/middleware"
	"github.com/paynet/iso20022-orchestrator/internal/usecases"
	"github.com/paynet/iso20022-orchestrator/pkg/logger"
	"github.com/paynet/iso20022-orchestrator/pkg/redis"
)

const orchestratorSystemID = "PYNT"

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis (idempotency store for the payment submission route)
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("connected to PostgreSQL via GORM")
	}

	// Initialize repositories
	tenantRepo := repositories.NewTenantRepository(db)
	apiKeyRepo := repositories.NewApiKeyRepository(db)
	_ = repositories.NewIdempotencyRepository(db) // durable replay audit; the idempotency middleware itself replays through Redis directly
	uetrRepo := repositories.NewUETRRepository(db)
	coreBankingRepo := repositories.NewCoreBankingConfigRepository(db)
	clearingSystemRepo := repositories.NewClearingSystemConfigRepository(db)
	_ = repositories.NewEndpointConfigRepository(db)
	routingRuleRepo := repositories.NewRoutingRuleRepository(db)
	payloadMappingRepo := repositories.NewPayloadMappingRepository(db)
	fraudConfigRepo := repositories.NewFraudConfigRepository(db)
	fraudAssessmentRepo := repositories.NewFraudAssessmentRepository(db)
	repairRepo := repositories.NewRepairRepository(db)
	_ = repositories.NewResiliencyConfigRepository(db)
	_ = repositories.NewUnitOfWork(db)
	queueRepo := repositories.NewInMemoryQueuedMessageRepository()

	// Resiliency envelope and core banking adapter factory, shared across
	// every usecase that dispatches to a core banking target so breaker and
	// rate-limiter state persists across calls regardless of which tenant
	// resolves to a given target.
	envelope := resiliency.NewEnvelope()
	adapterFactory := corebanking.NewAdapterFactory(envelope)

	metricsRegistry := prometheus.NewRegistry()
	resiliency.MustRegister(metricsRegistry)
	usecases.MustRegisterMonitorMetrics(metricsRegistry)

	recoveryPublisher := newRecoveryPublisher(cfg)

	// Initialize usecases
	uetrUsecase, err := usecases.NewUETRUsecase(uetrRepo, cfg.Security.ChecksumMasterSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize uetr usecase: %w", err)
	}
	routingUsecase := usecases.NewRoutingUsecase(routingRuleRepo, clearingSystemRepo, coreBankingRepo)
	payloadUsecase := usecases.NewPayloadUsecase(payloadMappingRepo)
	fraudUsecase := usecases.NewFraudUsecase(fraudConfigRepo, fraudAssessmentRepo, envelope, cfg.Fraud.DefaultDecision)
	orchestratorUsecase := usecases.NewOrchestratorUsecase(fraudUsecase, routingUsecase, uetrUsecase, coreBankingRepo, adapterFactory, repairRepo, orchestratorSystemID)
	repairUsecase := usecases.NewRepairUsecase(repairRepo, adapterFactory, coreBankingRepo)
	monitorUsecase := usecases.NewMonitorUsecase(tenantRepo, coreBankingRepo, queueRepo, adapterFactory, envelope, recoveryPublisher, nil)

	// Initialize handlers
	uetrHandler := handlers.NewUETRHandler(uetrUsecase)
	routingHandler := handlers.NewRoutingHandler(routingUsecase)
	payloadHandler := handlers.NewPayloadHandler(payloadUsecase)
	fraudHandler := handlers.NewFraudHandler(fraudUsecase)
	orchestrationHandler := handlers.NewOrchestrationHandler(orchestratorUsecase)
	repairHandler := handlers.NewRepairHandler(repairUsecase)
	resiliencyHandler := handlers.NewResiliencyHandler(monitorUsecase)
	healthHandler := handlers.NewHealthHandler()

	// Create tenant auth middleware
	tenantAuth := middleware.TenantAuthMiddleware(apiKeyRepo, tenantRepo)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitorUsecase.StartMonitoring(ctx)
	repairScheduler := jobs.NewRepairScheduler(repairRepo)
	repairScheduler.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r, healthHandler)
	registerAPIV1Routes(r, routeDeps{
		uetrHandler:          uetrHandler,
		routingHandler:       routingHandler,
		payloadHandler:       payloadHandler,
		fraudHandler:         fraudHandler,
		orchestrationHandler: orchestrationHandler,
		repairHandler:        repairHandler,
		resiliencyHandler:    resiliencyHandler,
		tenantAuth:           tenantAuth,
	})

	// Print all registered routes for debugging
	log.Println("Registered routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("shutting down server...")
		repairScheduler.Stop()
		monitorUsecase.StopMonitoring()
		cancel()
	}()

	// Start server
	log.Printf("ISO 20022 orchestrator starting on port %s", cfg.Server.Port)
	log.Printf("API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// newRecoveryPublisher returns a Kafka-backed recovery event publisher when
// brokers are configured, falling back to a no-op publisher so the monitor
// still runs end to end in environments without Kafka (e.g. local dev).
func newRecoveryPublisher(cfg *config.Config) messaging.RecoveryEventPublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		return &messaging.NoopRecoveryPublisher{}
	}
	return messaging.NewKafkaRecoveryPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic)
}
