package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	catalog "github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/internal/export/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
	"github.com/wyfcoding/catalogexport/pkg/metrics"
)

// ExportService 目录导出应用服务：拉取、关联、序列化、写入对象存储
type ExportService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	store      domain.ArtifactStore
	metrics    *metrics.Metrics
}

// NewExportService 创建目录导出应用服务
func NewExportService(products catalog.ProductRepository, categories catalog.CategoryRepository, store domain.ArtifactStore, m *metrics.Metrics) *ExportService {
	return &ExportService{
		products:   products,
		categories: categories,
		store:      store,
		metrics:    m,
	}
}

// ExportOwner 重建并覆盖写入 owner 的目录产物。
// 重建是幂等的：数据未变化时重复导出产生逐字节相同的文档。
func (s *ExportService) ExportOwner(ctx context.Context, ownerID string) error {
	start := time.Now()

	err := s.exportOwner(ctx, ownerID)

	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.metrics.ObserveExport(outcome, time.Since(start))
	}
	return err
}

func (s *ExportService) exportOwner(ctx context.Context, ownerID string) error {
	products, err := s.products.FindByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to fetch products for owner %s: %w", ownerID, err)
	}
	categories, err := s.categories.List(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to fetch categories for owner %s: %w", ownerID, err)
	}

	doc := domain.BuildCatalog(ownerID, categories, products)
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog for owner %s: %w", ownerID, err)
	}

	if err := s.store.PutCatalog(ctx, ownerID, data); err != nil {
		return fmt.Errorf("failed to store catalog for owner %s: %w", ownerID, err)
	}

	logger.Info(ctx, "Catalog exported",
		"owner_id", ownerID,
		"categories", len(categories),
		"products", len(products),
		"bytes", len(data),
	)
	return nil
}

// GetCatalog 读取 owner 当前的目录产物
func (s *ExportService) GetCatalog(ctx context.Context, ownerID string) ([]byte, error) {
	return s.store.GetCatalog(ctx, ownerID)
}
