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

	catalogmongo "github.com/wyfcoding/catalogexport/internal/catalog/infrastructure/persistence/mongodb"
	"github.com/wyfcoding/catalogexport/internal/export/application"
	"github.com/wyfcoding/catalogexport/internal/export/infrastructure/storage"
	"github.com/wyfcoding/catalogexport/internal/export/interfaces/consumer"
	exporthttp "github.com/wyfcoding/catalogexport/internal/export/interfaces/http"
	"github.com/wyfcoding/catalogexport/pkg/awsconfig"
	"github.com/wyfcoding/catalogexport/pkg/config"
	"github.com/wyfcoding/catalogexport/pkg/logger"
	"github.com/wyfcoding/catalogexport/pkg/metrics"
	"github.com/wyfcoding/catalogexport/pkg/middleware"
	"github.com/wyfcoding/catalogexport/pkg/mongodb"
	"github.com/wyfcoding/catalogexport/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/exporter/config.toml", "path to config file")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
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
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info(ctx, "Starting exporter service",
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	// 初始化 MongoDB
	db, err := mongodb.Init(ctx, mongodb.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to init mongodb", "error", err)
	}
	defer db.Close(ctx)

	// 初始化 AWS、S3 存储与 SQS 消费者
	awsCfg, err := awsconfig.New(ctx, cfg.AWS)
	if err != nil {
		logger.Fatal(ctx, "Failed to load AWS config", "error", err)
	}
	store, err := storage.NewS3Store(awsCfg, cfg.S3.Bucket, cfg.AWS.Endpoint)
	if err != nil {
		logger.Fatal(ctx, "Failed to create S3 store", "error", err)
	}

	// 初始化指标
	m := metrics.New("exporter")

	// 组装依赖
	productRepo := catalogmongo.NewProductRepository(db.Database())
	categoryRepo := catalogmongo.NewCategoryRepository(db.Database())
	exportService := application.NewExportService(productRepo, categoryRepo, store, m)
	handler := consumer.NewChangeEventHandler(exportService)

	sqsConsumer, err := mq.NewConsumer(awsCfg, mq.Config{
		QueueURL:          cfg.SQS.QueueURL,
		WaitTimeSeconds:   cfg.SQS.WaitTimeSeconds,
		MaxMessages:       cfg.SQS.MaxMessages,
		VisibilityTimeout: cfg.SQS.VisibilityTimeout,
		Endpoint:          cfg.AWS.Endpoint,
	}, handler.Handle)
	if err != nil {
		logger.Fatal(ctx, "Failed to create SQS consumer", "error", err)
	}

	// 启动消费循环
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := sqsConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(ctx, "SQS consumer stopped with error", "error", err)
		}
	}()

	// 初始化 HTTP 服务（产物读取、健康检查与指标）
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
	)

	engine.GET("/sys/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/sys/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	api := engine.Group("/api/v1")
	exporthttp.NewCatalogHandler(exportService).RegisterRoutes(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "Shutting down exporter service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown failed", "error", err)
	}

	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn(ctx, "Timed out waiting for consumer to stop")
	}

	logger.Info(ctx, "Exporter service stopped")
}
