package domain

import "context"

// 变更事件实体类型
const (
	EntityTypeProduct  = "product"
	EntityTypeCategory = "category"
)

// ChangeEvent 实体变更事件，仅经由队列传输，不落库
type ChangeEvent struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	OwnerID    string `json:"ownerId,omitempty"`
}

// GroupKey 消息分组键，保证同一 owner 同一实体类型的事件按序投递
func (e ChangeEvent) GroupKey() string {
	if e.OwnerID == "" {
		return e.EntityType
	}
	return e.OwnerID + "-" + e.EntityType
}

// EventPublisher 变更事件发布者
type EventPublisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}
