// Package config 提供 TOML 配置加载、环境变量覆盖与启动期校验
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 基础配置结构
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// MongoDB 配置
	Mongo MongoConfig `mapstructure:"mongo"`
	// AWS 区域与凭证配置
	AWS AWSConfig `mapstructure:"aws"`
	// SQS 队列配置
	SQS SQSConfig `mapstructure:"sqs"`
	// S3 对象存储配置
	S3 S3Config `mapstructure:"s3"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	// 连接 URI
	URI string `mapstructure:"uri"`
	// 数据库名称
	Database string `mapstructure:"database"`
	// 连接超时（秒）
	ConnectTimeout int `mapstructure:"connect_timeout"`
}

// AWSConfig AWS 区域与凭证配置
type AWSConfig struct {
	// 区域
	Region string `mapstructure:"region"`
	// 静态访问密钥 ID（为空时走默认凭证链）
	AccessKeyID string `mapstructure:"access_key_id"`
	// 静态访问密钥
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// 自定义端点（localstack 等场景）
	Endpoint string `mapstructure:"endpoint"`
}

// SQSConfig SQS 队列配置
type SQSConfig struct {
	// 队列 URL
	QueueURL string `mapstructure:"queue_url"`
	// 长轮询等待时间（秒）
	WaitTimeSeconds int `mapstructure:"wait_time_seconds"`
	// 单次拉取最大消息数
	MaxMessages int `mapstructure:"max_messages"`
	// 消息可见性超时（秒）
	VisibilityTimeout int `mapstructure:"visibility_timeout"`
}

// S3Config S3 对象存储配置
type S3Config struct {
	// 存储桶名称
	Bucket string `mapstructure:"bucket"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	// 日志级别
	Level string `mapstructure:"level"`
	// 输出格式
	Format string `mapstructure:"format"`
	// 输出目标
	Output string `mapstructure:"output"`
	// 文件路径
	FilePath string `mapstructure:"file_path"`
	// 最大文件大小（MB）
	MaxSize int `mapstructure:"max_size"`
	// 最大备份文件数
	MaxBackups int `mapstructure:"max_backups"`
	// 最大保留天数
	MaxAge int `mapstructure:"max_age"`
	// 是否压缩
	Compress bool `mapstructure:"compress"`
	// 是否输出调用者信息
	WithCaller bool `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// Load 从 TOML 文件加载配置，支持环境变量覆盖，校验失败即启动失败
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 设置配置文件
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// 读取配置文件（允许纯环境变量部署时文件不存在）
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 设置环境变量前缀
	v.SetEnvPrefix("APP")
	// 自动绑定环境变量（使用 _ 替代 .）
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 解析配置
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性，缺失必需项视为启动期错误
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo URI is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo database name is required")
	}
	if c.SQS.QueueURL == "" {
		return fmt.Errorf("SQS queue URL is required")
	}
	if c.S3.Bucket == "" {
		return fmt.Errorf("S3 bucket name is required")
	}
	if c.AWS.Region == "" {
		return fmt.Errorf("AWS region is required")
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)

	v.SetDefault("mongo.database", "catalog")
	v.SetDefault("mongo.connect_timeout", 10)

	v.SetDefault("sqs.wait_time_seconds", 20)
	v.SetDefault("sqs.max_messages", 10)
	v.SetDefault("sqs.visibility_timeout", 30)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// GetEnv 获取环境变量，支持默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
