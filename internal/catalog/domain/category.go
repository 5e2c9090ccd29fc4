package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category 商品分类，按 ownerId 划分租户
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     string             `bson:"owner_id,omitempty" json:"ownerId,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewCategory 创建分类，标题去除首尾空白后不能为空
func NewCategory(title, description, ownerID string) (*Category, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now().UTC()
	return &Category{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// OwnedBy 判断分类是否属于指定 owner
func (c *Category) OwnedBy(ownerID string) bool {
	return c.OwnerID == ownerID
}
