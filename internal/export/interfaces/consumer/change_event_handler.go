package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	catalog "github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/internal/export/application"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// ChangeEventHandler 变更事件处理器，每条队列消息触发一次整目录重建
type ChangeEventHandler struct {
	exports *application.ExportService
}

// NewChangeEventHandler 创建变更事件处理器
func NewChangeEventHandler(exports *application.ExportService) *ChangeEventHandler {
	return &ChangeEventHandler{exports: exports}
}

// Handle 处理单条变更事件。
// 无法解析或缺少 ownerId 的消息记录后直接丢弃，不触发任何读写；
// 导出失败向消费循环返回错误，由其记录日志并确认消息（重建幂等，丢失由队列重投递兜底）。
func (h *ChangeEventHandler) Handle(ctx context.Context, body string) error {
	var event catalog.ChangeEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		logger.Warn(ctx, "Dropping malformed change event", "error", err)
		return nil
	}
	if event.OwnerID == "" {
		logger.Warn(ctx, "Dropping change event without owner id",
			"entity_type", event.EntityType,
			"entity_id", event.EntityID,
		)
		return nil
	}

	logger.Info(ctx, "Processing change event",
		"entity_type", event.EntityType,
		"entity_id", event.EntityID,
		"owner_id", event.OwnerID,
	)

	if err := h.exports.ExportOwner(ctx, event.OwnerID); err != nil {
		return fmt.Errorf("failed to export catalog for owner %s: %w", event.OwnerID, err)
	}
	return nil
}
