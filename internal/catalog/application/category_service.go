package application

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// UpdateCategoryCommand 更新分类命令，nil 字段表示保持原值
type UpdateCategoryCommand struct {
	Title       *string
	Description *string
}

// IsEmpty 判断命令是否不包含任何字段
func (c UpdateCategoryCommand) IsEmpty() bool {
	return c.Title == nil && c.Description == nil
}

// CategoryService 分类应用服务，负责分类生命周期与所有权校验
type CategoryService struct {
	categories domain.CategoryRepository
	products   domain.ProductRepository
	publisher  domain.EventPublisher
}

// NewCategoryService 创建分类应用服务
func NewCategoryService(categories domain.CategoryRepository, products domain.ProductRepository, publisher domain.EventPublisher) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		publisher:  publisher,
	}
}

// Create 创建分类并发布变更事件。ownerID 允许为空（退化创建路径）。
func (s *CategoryService) Create(ctx context.Context, title, description, ownerID string) (*domain.Category, error) {
	category, err := domain.NewCategory(title, description, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Category created", "category_id", category.ID.Hex(), "owner_id", category.OwnerID)

	if err := s.publishChange(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 部分更新分类，owner 不匹配时拒绝
func (s *CategoryService) Update(ctx context.Context, id string, cmd UpdateCategoryCommand, requestingOwnerID string) (*domain.Category, error) {
	category, err := s.getOwned(ctx, id, requestingOwnerID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		category.Title = title
	}
	if cmd.Description != nil {
		category.Description = *cmd.Description
	}
	category.UpdatedAt = now()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Category updated", "category_id", category.ID.Hex(), "owner_id", category.OwnerID)

	if err := s.publishChange(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类并级联删除其下全部商品。
// 级联为非事务两步操作，中途失败可能短暂留下孤儿商品；商品删除不单独发事件。
func (s *CategoryService) Delete(ctx context.Context, id string, requestingOwnerID string) (*domain.Category, error) {
	category, err := s.getOwned(ctx, id, requestingOwnerID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.products.DeleteByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	if deleted > 0 {
		logger.Info(ctx, "Deleted products of category",
			"category_id", category.ID.Hex(),
			"deleted_count", deleted,
		)
	}

	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Category deleted", "category_id", category.ID.Hex(), "owner_id", category.OwnerID)

	if err := s.publishChange(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetByID 按 ID 查询分类
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return s.categories.GetByID(ctx, oid)
}

// List 列出分类，ownerID 为空时跨 owner 全量返回（该层有意允许全局列举）
func (s *CategoryService) List(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	return s.categories.List(ctx, ownerID)
}

// getOwned 查询分类并校验请求方所有权
func (s *CategoryService) getOwned(ctx context.Context, id string, requestingOwnerID string) (*domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}

	category, err := s.categories.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !category.OwnedBy(requestingOwnerID) {
		return nil, domain.ErrNotOwner
	}
	return category, nil
}

// publishChange 发布分类变更事件，发布失败向上传播
func (s *CategoryService) publishChange(ctx context.Context, category *domain.Category) error {
	return s.publisher.PublishChange(ctx, domain.ChangeEvent{
		EntityType: domain.EntityTypeCategory,
		EntityID:   category.ID.Hex(),
		OwnerID:    category.OwnerID,
	})
}
