package messaging

import (
	"context"
	"fmt"

	"github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
	"github.com/wyfcoding/catalogexport/pkg/metrics"
	"github.com/wyfcoding/catalogexport/pkg/mq"
)

// sqsPublisher 基于 SQS 的变更事件发布者实现
type sqsPublisher struct {
	producer *mq.Producer
	metrics  *metrics.Metrics
}

// NewSQSPublisher 创建一个新的 SQS 发布者实例
func NewSQSPublisher(producer *mq.Producer, m *metrics.Metrics) domain.EventPublisher {
	return &sqsPublisher{producer: producer, metrics: m}
}

// PublishChange 发布变更事件，按 owner+实体类型分组保证投递顺序
func (p *sqsPublisher) PublishChange(ctx context.Context, event domain.ChangeEvent) error {
	messageID, err := p.producer.SendMessage(ctx, event.GroupKey(), event)
	if err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	if p.metrics != nil {
		p.metrics.ObserveEventPublished(event.EntityType)
	}
	logger.Info(ctx, "Change event published",
		"entity_type", event.EntityType,
		"entity_id", event.EntityID,
		"owner_id", event.OwnerID,
		"message_id", messageID,
	)
	return nil
}
