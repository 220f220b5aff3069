package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/compliance/internal/compliance/application"
	"github.com/wyfcoding/compliance/internal/compliance/domain"
	"github.com/wyfcoding/compliance/internal/compliance/infrastructure/messaging"
	"github.com/wyfcoding/compliance/internal/compliance/infrastructure/persistence/mysql"
	complhttp "github.com/wyfcoding/compliance/internal/compliance/interfaces/http"
	"github.com/wyfcoding/compliance/pkg/cache"
	"github.com/wyfcoding/compliance/pkg/config"
	"github.com/wyfcoding/compliance/pkg/db"
	"github.com/wyfcoding/compliance/pkg/logger"
	"github.com/wyfcoding/compliance/pkg/metrics"
	"github.com/wyfcoding/compliance/pkg/middleware"
	"github.com/wyfcoding/compliance/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/compliance/config.toml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting compliance service",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New("compliance")
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to init database", "error", err)
	}
	defer database.Close()

	// 开发环境自动迁移，生产环境由迁移脚本管理表结构
	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&domain.Customer{},
			&domain.Transaction{},
			&domain.SanctionsEntry{},
			&domain.ComplianceAlert{},
			&domain.CustomerRiskScore{},
		); err != nil {
			logger.Fatal(ctx, "Failed to auto-migrate schema", "error", err)
		}
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to init Redis", "error", err)
	}
	defer redisCache.Close()

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		GroupID:      cfg.Kafka.GroupID,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to init Kafka producer", "error", err)
	}
	defer producer.Close()

	// 领域引擎
	ruleEngine, err := domain.NewRuleEngine(domain.MonitoringConfig{
		RiskScoreThreshold:      cfg.Monitoring.RiskScoreThreshold,
		HighValueThreshold:      cfg.Monitoring.HighValueThreshold,
		VelocityMaxTransactions: cfg.Monitoring.VelocityMaxTransactions,
		VelocityWindowHours:     cfg.Monitoring.VelocityWindowHours,
		HighRiskCountries:       cfg.Monitoring.HighRiskCountries,
		SuspiciousTokens:        cfg.Monitoring.SuspiciousTokens,
	})
	if err != nil {
		logger.Fatal(ctx, "Invalid monitoring config", "error", err)
	}

	screener, err := domain.NewScreener(domain.ScreeningConfig{
		MatchThreshold: cfg.Screening.MatchThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Invalid screening config", "error", err)
	}

	riskEngine, err := domain.NewRiskEngine(buildRiskConfig(cfg.Risk), domain.SystemClock{})
	if err != nil {
		logger.Fatal(ctx, "Invalid risk config", "error", err)
	}

	// 仓储与外设
	txRepo := mysql.NewTransactionRepository(database.DB)
	customerRepo := mysql.NewCustomerRepository(database.DB)
	sanctionsRepo := mysql.NewSanctionsRepository(database.DB)
	alertRepo := mysql.NewAlertRepository(database.DB)
	scoreRepo := mysql.NewRiskScoreRepository(database.DB)
	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.AlertTopic, cfg.Kafka.AssessmentTopic)

	// 应用服务
	monitoringSvc := application.NewMonitoringService(
		ruleEngine, txRepo, customerRepo, alertRepo, publisher, m, cfg.Monitoring.HistoryWindowDays)
	screeningSvc := application.NewScreeningService(
		screener, customerRepo, sanctionsRepo, redisCache,
		time.Duration(cfg.Screening.WatchlistCacheTTL)*time.Second, m)
	riskSvc := application.NewRiskService(
		riskEngine, customerRepo, txRepo, scoreRepo, publisher, m, cfg.Monitoring.HistoryWindowDays)

	// HTTP 服务
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.GinRecovery(), middleware.GinLogging())
	if m != nil {
		router.Use(middleware.GinMetrics(m))
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	handler := complhttp.NewComplianceHandler(monitoringSvc, screeningSvc, riskSvc)
	handler.RegisterRoutes(router.Group("/api/v1"))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info(gctx, "Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
			return gctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(ctx, "Service exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Service stopped gracefully")
}

// buildRiskConfig 将外部配置映射为领域配置，缺省表回落到内置默认表
func buildRiskConfig(cfg config.RiskConfig) domain.RiskConfig {
	riskCfg := domain.DefaultRiskConfig()

	if cfg.Method != "" {
		riskCfg.Method = domain.AggregationMethod(cfg.Method)
	}
	if len(cfg.CountryRisk) > 0 {
		riskCfg.CountryRisk = cfg.CountryRisk
	}
	if len(cfg.IndustryRisk) > 0 {
		riskCfg.IndustryRisk = cfg.IndustryRisk
	}
	if len(cfg.FactorWeights) > 0 {
		weights := make(map[domain.FactorType]float64, len(cfg.FactorWeights))
		for factor, weight := range cfg.FactorWeights {
			weights[domain.FactorType(factor)] = weight
		}
		riskCfg.FactorWeights = weights
	}

	return riskCfg
}
