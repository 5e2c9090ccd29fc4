package application

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wyfcoding/catalogexport/internal/catalog/domain"
)

// memCategoryRepo 内存分类仓储，按插入顺序返回
type memCategoryRepo struct {
	items map[primitive.ObjectID]*domain.Category
	order []primitive.ObjectID
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{items: make(map[primitive.ObjectID]*domain.Category)}
}

func (r *memCategoryRepo) Insert(_ context.Context, category *domain.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	r.items[category.ID] = category
	r.order = append(r.order, category.ID)
	return nil
}

func (r *memCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.items[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.items[category.ID] = category
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Category, error) {
	category, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (r *memCategoryRepo) List(_ context.Context, ownerID string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, id := range r.order {
		category, ok := r.items[id]
		if !ok {
			continue
		}
		if ownerID != "" && category.OwnerID != ownerID {
			continue
		}
		out = append(out, category)
	}
	return out, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.items, id)
	return nil
}

// memProductRepo 内存商品仓储，按插入顺序返回
type memProductRepo struct {
	items      map[primitive.ObjectID]*domain.Product
	order      []primitive.ObjectID
	categories *memCategoryRepo
}

func newMemProductRepo(categories *memCategoryRepo) *memProductRepo {
	return &memProductRepo{
		items:      make(map[primitive.ObjectID]*domain.Product),
		categories: categories,
	}
}

func (r *memProductRepo) Insert(_ context.Context, product *domain.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.items[product.ID] = product
	r.order = append(r.order, product.ID)
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product, ok := r.items[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *memProductRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range r.order {
		product, ok := r.items[id]
		if !ok || product.OwnerID != ownerID {
			continue
		}
		// 模拟读取路径的分类展开
		if r.categories != nil {
			if category, ok := r.categories.items[product.CategoryID]; ok {
				expanded := *product
				expanded.Category = category
				out = append(out, &expanded)
				continue
			}
		}
		out = append(out, product)
	}
	return out, nil
}

func (r *memProductRepo) FindByCategory(_ context.Context, categoryID primitive.ObjectID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range r.order {
		if product, ok := r.items[id]; ok && product.CategoryID == categoryID {
			out = append(out, product)
		}
	}
	return out, nil
}

func (r *memProductRepo) DeleteByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	var deleted int64
	for id, product := range r.items {
		if product.CategoryID == categoryID {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// recordingPublisher 记录发布事件的发布者实现
type recordingPublisher struct {
	events []domain.ChangeEvent
	err    error
}

func (p *recordingPublisher) PublishChange(_ context.Context, event domain.ChangeEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}
