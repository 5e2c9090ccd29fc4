// Package mq 提供 SQS producer/consumer 通用实现，支持消息分组、长轮询与幂等投递
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// Config SQS 配置
type Config struct {
	QueueURL          string
	WaitTimeSeconds   int
	MaxMessages       int
	VisibilityTimeout int
	// 自定义端点（localstack 等场景）
	Endpoint string
}

// Producer SQS 生产者
type Producer struct {
	client   *sqs.Client
	queueURL string
}

// NewProducer 创建 SQS 生产者，队列 URL 缺失视为启动期配置错误
func NewProducer(awsCfg aws.Config, cfg Config) (*Producer, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("SQS queue URL is missing from configuration")
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info(context.Background(), "SQS producer created successfully", "queue_url", cfg.QueueURL)
	return &Producer{
		client:   client,
		queueURL: cfg.QueueURL,
	}, nil
}

// SendMessage 发送单条消息，groupID 保证同组消息按入队顺序投递
func (p *Producer) SendMessage(ctx context.Context, groupID string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:               aws.String(p.queueURL),
		MessageBody:            aws.String(string(data)),
		MessageGroupId:         aws.String(groupID),
		MessageDeduplicationId: aws.String(uuid.New().String()),
	})
	if err != nil {
		logger.Error(ctx, "Failed to send SQS message",
			"queue_url", p.queueURL,
			"group_id", groupID,
			"error", err,
		)
		return "", err
	}

	messageID := aws.ToString(out.MessageId)
	logger.Debug(ctx, "SQS message sent",
		"group_id", groupID,
		"message_id", messageID,
	)
	return messageID, nil
}

// HandlerFunc 单条消息处理函数
type HandlerFunc func(ctx context.Context, body string) error

// Consumer SQS 消费者，长轮询拉取并逐条交给 handler 处理
type Consumer struct {
	client  *sqs.Client
	config  Config
	handler HandlerFunc
}

// NewConsumer 创建 SQS 消费者
func NewConsumer(awsCfg aws.Config, cfg Config, handler HandlerFunc) (*Consumer, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("SQS queue URL is missing from configuration")
	}
	if handler == nil {
		return nil, fmt.Errorf("message handler is required")
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info(context.Background(), "SQS consumer created successfully", "queue_url", cfg.QueueURL)
	return &Consumer{
		client:  client,
		config:  cfg,
		handler: handler,
	}, nil
}

// Start 启动消费循环，直到 context 取消。
// 处理失败只记录日志；消息无论成败都会被删除，重试完全依赖队列自身的重投递。
func (c *Consumer) Start(ctx context.Context) error {
	waitTime := int32(c.config.WaitTimeSeconds)
	if waitTime <= 0 {
		waitTime = 20
	}
	maxMessages := int32(c.config.MaxMessages)
	if maxMessages <= 0 || maxMessages > 10 {
		maxMessages = 10
	}

	logger.Info(ctx, "SQS consumer loop started", "queue_url", c.config.QueueURL)

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "SQS consumer loop stopped")
			return ctx.Err()
		default:
		}

		out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(c.config.QueueURL),
			MaxNumberOfMessages: maxMessages,
			WaitTimeSeconds:     waitTime,
			VisibilityTimeout:   int32(c.config.VisibilityTimeout),
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error(ctx, "Failed to receive SQS messages", "error", err)
			time.Sleep(time.Second)
			continue
		}

		for _, msg := range out.Messages {
			c.handleMessage(ctx, msg)
		}
	}
}

// handleMessage 处理单条消息并确认
func (c *Consumer) handleMessage(ctx context.Context, msg types.Message) {
	body := aws.ToString(msg.Body)

	if err := c.handler(ctx, body); err != nil {
		logger.Error(ctx, "Failed to process SQS message",
			"message_id", aws.ToString(msg.MessageId),
			"error", err,
		)
	}

	if _, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.config.QueueURL),
		ReceiptHandle: msg.ReceiptHandle,
	}); err != nil {
		logger.Error(ctx, "Failed to delete SQS message",
			"message_id", aws.ToString(msg.MessageId),
			"error", err,
		)
	}
}
