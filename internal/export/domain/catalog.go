// Package domain 提供目录导出产物的聚合逻辑。
// 产物为派生数据，按 owner 整体重建，对象存储持有唯一持久副本。
package domain

import (
	"context"
	"errors"

	catalog "github.com/wyfcoding/catalogexport/internal/catalog/domain"
)

// ErrArtifactNotFound 目录产物不存在
var ErrArtifactNotFound = errors.New("catalog artifact not found")

// CatalogProduct 导出产物中的商品条目
type CatalogProduct struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CatalogGroup 导出产物中的分类分组
type CatalogGroup struct {
	CategoryTitle       string           `json:"category_title"`
	CategoryDescription string           `json:"category_description"`
	Products            []CatalogProduct `json:"products"`
}

// Catalog 单个 owner 的目录导出产物
type Catalog struct {
	Owner   string         `json:"owner"`
	Catalog []CatalogGroup `json:"catalog"`
}

// ArtifactStore 目录产物存储
type ArtifactStore interface {
	// PutCatalog 覆盖写入 owner 的目录产物
	PutCatalog(ctx context.Context, ownerID string, data []byte) error
	// GetCatalog 读取 owner 的目录产物，不存在时返回 ErrArtifactNotFound
	GetCatalog(ctx context.Context, ownerID string) ([]byte, error)
}

// ArtifactKey 返回 owner 目录产物的对象存储键
func ArtifactKey(ownerID string) string {
	return "catalogs/" + ownerID + ".json"
}

// BuildCatalog 将分类与商品按分类标识关联，组装为导出产物。
// 分组顺序跟随分类切片顺序，组内商品顺序跟随商品切片顺序，
// 因此在仓储读序稳定的前提下重复构建的结果可逐字节复现。
func BuildCatalog(ownerID string, categories []*catalog.Category, products []*catalog.Product) *Catalog {
	groups := make([]CatalogGroup, 0, len(categories))

	for _, category := range categories {
		group := CatalogGroup{
			CategoryTitle:       category.Title,
			CategoryDescription: category.Description,
			Products:            make([]CatalogProduct, 0),
		}

		for _, product := range products {
			if product.ResolvedCategoryID() != category.ID {
				continue
			}
			group.Products = append(group.Products, CatalogProduct{
				Title:       product.Title,
				Description: product.Description,
				Price:       product.Price,
			})
		}

		groups = append(groups, group)
	}

	return &Catalog{
		Owner:   ownerID,
		Catalog: groups,
	}
}
