package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository 分类仓储
type CategoryRepository interface {
	Insert(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	// GetByID 按 ID 查询，不存在时返回 ErrCategoryNotFound
	GetByID(ctx context.Context, id primitive.ObjectID) (*Category, error)
	// List 按 owner 过滤，ownerID 为空时返回全部分类
	List(ctx context.Context, ownerID string) ([]*Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductRepository 商品仓储
type ProductRepository interface {
	Insert(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	// GetByID 按 ID 查询，不存在时返回 ErrProductNotFound
	GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error)
	// FindByOwner 查询 owner 下的全部商品，分类引用展开
	FindByOwner(ctx context.Context, ownerID string) ([]*Product, error)
	FindByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*Product, error)
	// DeleteByCategory 删除引用该分类的全部商品，返回删除条数
	DeleteByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
