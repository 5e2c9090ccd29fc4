package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product 商品，必须引用同一 owner 下的已存在分类
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"categoryId"`
	// Category 读取时按需展开的分类引用，仅在 category-expanded 查询路径填充
	Category  *Category `bson:"category,omitempty" json:"category,omitempty"`
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NewProduct 创建商品，标题非空且价格不能为负
func NewProduct(title, description string, price float64, ownerID string, categoryID primitive.ObjectID) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	now := time.Now().UTC()
	return &Product{
		Title:       title,
		Description: description,
		Price:       price,
		CategoryID:  categoryID,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// OwnedBy 判断商品是否属于指定 owner
func (p *Product) OwnedBy(ownerID string) bool {
	return p.OwnerID == ownerID
}

// ResolvedCategoryID 返回商品引用的分类标识，展开时取展开后的分类 ID
func (p *Product) ResolvedCategoryID() primitive.ObjectID {
	if p.Category != nil {
		return p.Category.ID
	}
	return p.CategoryID
}
