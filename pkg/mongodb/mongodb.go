// Package mongodb 提供 MongoDB 初始化、启动期连通性校验与索引创建辅助
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	pkgLogger "github.com/wyfcoding/catalogexport/pkg/logger"
)

// Config 数据库配置
type Config struct {
	URI            string
	Database       string
	ConnectTimeout int
}

// DB 数据库实例包装
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

// Init 初始化数据库连接，ping 失败视为启动期错误
func Init(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo URI is required")
	}

	timeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// 测试连接
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	pkgLogger.Info(ctx, "MongoDB connected successfully", "database", cfg.Database)

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

// Database 返回数据库句柄
func (d *DB) Database() *mongo.Database {
	return d.database
}

// Collection 返回集合句柄
func (d *DB) Collection(name string) *mongo.Collection {
	return d.database.Collection(name)
}

// Close 关闭数据库连接
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// EnsureIndexes 为集合创建字段升序索引，已存在时为幂等操作
func (d *DB) EnsureIndexes(ctx context.Context, collection string, fields ...string) error {
	models := make([]mongo.IndexModel, 0, len(fields))
	for _, field := range fields {
		models = append(models, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		})
	}
	if len(models) == 0 {
		return nil
	}

	if _, err := d.database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
	}
	return nil
}
