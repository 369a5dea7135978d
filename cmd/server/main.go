package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hgigs.backend/internal/config"
	"hgigs.backend/internal/infrastructure/blockchain"
	"hgigs.backend/internal/infrastructure/jobs"
	"hgigs.backend/internal/infrastructure/metrics"
	"hgigs.backend/internal/infrastructure/models"
	"hgigs.backend/internal/infrastructure/repositories"
	"hgigs.backend/internal/interfaces/http/handlers"
	"hgigs.backend/internal/interfaces/http/middleware"
	"hgigs.backend/internal/usecases"
	"hgigs.backend/pkg/jwt"
	"hgigs.backend/pkg/logger"
	"hgigs.backend/pkg/redis"
)

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
	migrateDB = func(db *gorm.DB) error {
		return db.AutoMigrate(models.All()...)
	}
	dialChain = func(rpcURL string) (usecases.ChainReader, func(), error) {
		client, err := blockchain.NewEVMClient(rpcURL)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
	metricsRegistry = func() (prometheus.Registerer, prometheus.Gatherer) {
		return prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func parseAddressSetting(name, value string, required bool) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return common.Address{}, fmt.Errorf("%s is required", name)
		}
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address: %q", name, value)
	}
	return common.HexToAddress(value), nil
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	owner, err := parseAddressSetting("MARKET_OWNER_ADDRESS", cfg.Marketplace.OwnerAddress, true)
	if err != nil {
		return err
	}
	escrow, err := parseAddressSetting("MARKET_ESCROW_ADDRESS", cfg.Marketplace.EscrowAddress, true)
	if err != nil {
		return err
	}
	custody, err := parseAddressSetting("CHAIN_CUSTODY_ADDRESS", cfg.Blockchain.CustodyAddress, cfg.Blockchain.RPCURL != "")
	if err != nil {
		return err
	}
	if cfg.Marketplace.DefaultFeePercent < 0 || cfg.Marketplace.DefaultFeePercent > 100 {
		return fmt.Errorf("MARKET_DEFAULT_FEE_PERCENT must be between 0 and 100, got %d", cfg.Marketplace.DefaultFeePercent)
	}

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database not available: %w", err)
	}
	if err := migrateDB(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(ctx, "Connected to database")

	// Repositories
	uow := repositories.NewUnitOfWork(db)
	stateRepo := repositories.NewEngineStateRepository(db)
	gigRepo := repositories.NewGigRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	eventRepo := repositories.NewMarketEventRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	depositRepo := repositories.NewDepositRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)

	// Chain access is optional; without it on-chain deposits are disabled
	var chain usecases.ChainReader
	if cfg.Blockchain.RPCURL != "" {
		reader, closeChain, err := dialChain(cfg.Blockchain.RPCURL)
		if err != nil {
			return fmt.Errorf("failed to connect to chain rpc: %w", err)
		}
		defer closeChain()
		chain = reader
		logger.Info(ctx, "Chain client connected", zap.String("chainId", reader.ChainID().String()))
	} else {
		logger.Warn(ctx, "CHAIN_RPC_URL not set, on-chain deposits disabled")
	}

	// Usecases
	ledger := usecases.NewLedger(accountRepo, uow)
	engine := usecases.NewEscrowUsecase(uow, stateRepo, gigRepo, orderRepo, eventRepo, ledger, escrow)
	if err := engine.Initialize(ctx, owner, uint8(cfg.Marketplace.DefaultFeePercent)); err != nil {
		return fmt.Errorf("failed to initialize marketplace: %w", err)
	}
	adminUsecase := usecases.NewAdminUsecase(engine)
	depositUsecase := usecases.NewDepositUsecase(engine, depositRepo, chain, custody, uint64(cfg.Blockchain.MinConfirmations))
	withdrawalUsecase := usecases.NewWithdrawalUsecase(engine, withdrawalRepo)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	registerer, gatherer := metricsRegistry()
	metrics.Register(registerer)

	// Background jobs
	var relayJob *jobs.MarketEventRelayJob
	if cfg.Events.RelayEnabled {
		relayJob = jobs.NewMarketEventRelayJob(eventRepo, cfg.Events.Channel, cfg.Events.RelayInterval)
		go relayJob.Start(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, gatherer)
	registerAPIV1Routes(r, routeDeps{
		gigHandler:        handlers.NewGigHandler(engine),
		orderHandler:      handlers.NewOrderHandler(engine),
		marketHandler:     handlers.NewMarketHandler(engine),
		adminHandler:      handlers.NewAdminHandler(adminUsecase),
		accountHandler:    handlers.NewAccountHandler(depositUsecase),
		withdrawalHandler: handlers.NewWithdrawalHandler(withdrawalUsecase),
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-ctx.Done():
			return
		}
		logger.Info(context.Background(), "Shutting down server")
		if relayJob != nil {
			relayJob.Stop()
		}
		cancel()
	}()

	logger.Info(ctx, "hgigs backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("owner", owner.Hex()),
		zap.String("escrow", escrow.Hex()),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
