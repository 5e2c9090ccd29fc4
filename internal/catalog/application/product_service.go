package application

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// now 服务器侧时间戳来源
func now() time.Time {
	return time.Now().UTC()
}

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Title       string
	Description string
	Price       float64
	OwnerID     string
	CategoryID  string
}

// UpdateProductCommand 更新商品命令，nil 字段表示保持原值
type UpdateProductCommand struct {
	Title       *string
	Description *string
	Price       *float64
	CategoryID  *string
}

// IsEmpty 判断命令是否不包含任何字段
func (c UpdateProductCommand) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Price == nil && c.CategoryID == nil
}

// ProductService 商品应用服务，负责商品生命周期、所有权与分类一致性校验
type ProductService struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	publisher  domain.EventPublisher
}

// NewProductService 创建商品应用服务
func NewProductService(products domain.ProductRepository, categories domain.CategoryRepository, publisher domain.EventPublisher) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		publisher:  publisher,
	}
}

// Create 创建商品。引用的分类必须存在且与商品属于同一 owner。
func (s *ProductService) Create(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	category, err := s.resolveCategory(ctx, cmd.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.OwnedBy(cmd.OwnerID) {
		return nil, domain.ErrCategoryCrossOwner
	}

	product, err := domain.NewProduct(cmd.Title, cmd.Description, cmd.Price, cmd.OwnerID, category.ID)
	if err != nil {
		return nil, err
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Product created", "product_id", product.ID.Hex(), "owner_id", product.OwnerID)

	if err := s.publishChange(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 部分更新商品。变更分类引用时新分类必须存在且 owner 一致，
// 其余标量字段按提供值覆盖。
func (s *ProductService) Update(ctx context.Context, id string, cmd UpdateProductCommand, requestingOwnerID string) (*domain.Product, error) {
	product, err := s.getOwned(ctx, id, requestingOwnerID)
	if err != nil {
		return nil, err
	}

	if cmd.CategoryID != nil {
		category, err := s.resolveCategory(ctx, *cmd.CategoryID)
		if err != nil {
			return nil, err
		}
		if !category.OwnedBy(product.OwnerID) {
			return nil, domain.ErrCategoryCrossOwner
		}
		product.CategoryID = category.ID
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		product.Title = title
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Price != nil {
		if *cmd.Price < 0 {
			return nil, domain.ErrNegativePrice
		}
		product.Price = *cmd.Price
	}
	product.UpdatedAt = now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Product updated", "product_id", product.ID.Hex(), "owner_id", product.OwnerID)

	if err := s.publishChange(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(ctx context.Context, id string, requestingOwnerID string) (*domain.Product, error) {
	product, err := s.getOwned(ctx, id, requestingOwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.products.Delete(ctx, product.ID); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Product deleted", "product_id", product.ID.Hex(), "owner_id", product.OwnerID)

	if err := s.publishChange(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID 按 ID 查询商品（不展开分类引用）
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	return s.products.GetByID(ctx, oid)
}

// GetByOwner 查询 owner 下的全部商品，分类引用展开供下游聚合使用
func (s *ProductService) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	return s.products.FindByOwner(ctx, ownerID)
}

// getOwned 查询商品并校验请求方所有权
func (s *ProductService) getOwned(ctx context.Context, id string, requestingOwnerID string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.products.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(requestingOwnerID) {
		return nil, domain.ErrNotOwner
	}
	return product, nil
}

// resolveCategory 解析分类引用，无法解析或不存在时返回 ErrCategoryNotFound
func (s *ProductService) resolveCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	oid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return s.categories.GetByID(ctx, oid)
}

// publishChange 发布商品变更事件，发布失败向上传播
func (s *ProductService) publishChange(ctx context.Context, product *domain.Product) error {
	return s.publisher.PublishChange(ctx, domain.ChangeEvent{
		EntityType: domain.EntityTypeProduct,
		EntityID:   product.ID.Hex(),
		OwnerID:    product.OwnerID,
	})
}
