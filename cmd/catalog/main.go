package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/catalogexport/internal/catalog/application"
	"github.com/wyfcoding/catalogexport/internal/catalog/infrastructure/messaging"
	catalogmongo "github.com/wyfcoding/catalogexport/internal/catalog/infrastructure/persistence/mongodb"
	cataloghttp "github.com/wyfcoding/catalogexport/internal/catalog/interfaces/http"
	"github.com/wyfcoding/catalogexport/pkg/awsconfig"
	"github.com/wyfcoding/catalogexport/pkg/config"
	"github.com/wyfcoding/catalogexport/pkg/logger"
	"github.com/wyfcoding/catalogexport/pkg/metrics"
	"github.com/wyfcoding/catalogexport/pkg/middleware"
	"github.com/wyfcoding/catalogexport/pkg/mongodb"
	"github.com/wyfcoding/catalogexport/pkg/mq"
)

func main() {
	configPath := flag.String("config", "configs/catalog/config.toml", "path to config file")
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

	ctx := context.Background()
	logger.Info(ctx, "Starting catalog service",
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

	// 创建查询索引
	if err := db.EnsureIndexes(ctx, catalogmongo.CategoryCollection, "owner_id"); err != nil {
		logger.Fatal(ctx, "Failed to ensure category indexes", "error", err)
	}
	if err := db.EnsureIndexes(ctx, catalogmongo.ProductCollection, "owner_id", "category_id"); err != nil {
		logger.Fatal(ctx, "Failed to ensure product indexes", "error", err)
	}

	// 初始化 AWS 与 SQS 生产者
	awsCfg, err := awsconfig.New(ctx, cfg.AWS)
	if err != nil {
		logger.Fatal(ctx, "Failed to load AWS config", "error", err)
	}
	producer, err := mq.NewProducer(awsCfg, mq.Config{
		QueueURL: cfg.SQS.QueueURL,
		Endpoint: cfg.AWS.Endpoint,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create SQS producer", "error", err)
	}

	// 初始化指标
	m := metrics.New("api")

	// 组装依赖
	categoryRepo := catalogmongo.NewCategoryRepository(db.Database())
	productRepo := catalogmongo.NewProductRepository(db.Database())
	publisher := messaging.NewSQSPublisher(producer, m)

	categoryService := application.NewCategoryService(categoryRepo, productRepo, publisher)
	productService := application.NewProductService(productRepo, categoryRepo, publisher)

	categoryHandler := cataloghttp.NewCategoryHandler(categoryService)
	productHandler := cataloghttp.NewProductHandler(productService)

	// 初始化 HTTP 服务
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
	categoryHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)

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

	logger.Info(ctx, "Shutting down catalog service")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "HTTP server shutdown failed", "error", err)
	}

	logger.Info(ctx, "Catalog service stopped")
}
