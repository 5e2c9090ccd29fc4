package consumer

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	catalog "github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/internal/export/application"
	"github.com/wyfcoding/catalogexport/internal/export/domain"
)

// noopCategoryRepo 空分类仓储
type noopCategoryRepo struct{}

func (noopCategoryRepo) Insert(context.Context, *catalog.Category) error { return nil }
func (noopCategoryRepo) Update(context.Context, *catalog.Category) error { return nil }
func (noopCategoryRepo) GetByID(context.Context, primitive.ObjectID) (*catalog.Category, error) {
	return nil, catalog.ErrCategoryNotFound
}
func (noopCategoryRepo) List(context.Context, string) ([]*catalog.Category, error) { return nil, nil }
func (noopCategoryRepo) Delete(context.Context, primitive.ObjectID) error          { return nil }

// noopProductRepo 空商品仓储
type noopProductRepo struct{}

func (noopProductRepo) Insert(context.Context, *catalog.Product) error { return nil }
func (noopProductRepo) Update(context.Context, *catalog.Product) error { return nil }
func (noopProductRepo) GetByID(context.Context, primitive.ObjectID) (*catalog.Product, error) {
	return nil, catalog.ErrProductNotFound
}
func (noopProductRepo) FindByOwner(context.Context, string) ([]*catalog.Product, error) {
	return nil, nil
}
func (noopProductRepo) FindByCategory(context.Context, primitive.ObjectID) ([]*catalog.Product, error) {
	return nil, nil
}
func (noopProductRepo) DeleteByCategory(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}
func (noopProductRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

// countingStore 记录写入的产物存储
type countingStore struct {
	puts   int
	owners []string
	err    error
}

func (s *countingStore) PutCatalog(_ context.Context, ownerID string, _ []byte) error {
	if s.err != nil {
		return s.err
	}
	s.puts++
	s.owners = append(s.owners, ownerID)
	return nil
}

func (s *countingStore) GetCatalog(context.Context, string) ([]byte, error) {
	return nil, domain.ErrArtifactNotFound
}

func newHandlerFixture(store *countingStore) *ChangeEventHandler {
	service := application.NewExportService(noopProductRepo{}, noopCategoryRepo{}, store, nil)
	return NewChangeEventHandler(service)
}

func TestHandleTriggersExport(t *testing.T) {
	store := &countingStore{}
	handler := newHandlerFixture(store)

	body := `{"entityType":"product","entityId":"abc","ownerId":"owner-1"}`
	if err := handler.Handle(context.Background(), body); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if store.puts != 1 || store.owners[0] != "owner-1" {
		t.Errorf("unexpected store writes %+v", store)
	}
}

func TestHandleMalformedBody(t *testing.T) {
	store := &countingStore{}
	handler := newHandlerFixture(store)

	// 无法解析的消息被丢弃且不触发导出
	if err := handler.Handle(context.Background(), "not json at all"); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if store.puts != 0 {
		t.Error("malformed message must not trigger export")
	}
}

func TestHandleMissingOwner(t *testing.T) {
	store := &countingStore{}
	handler := newHandlerFixture(store)

	body := `{"entityType":"category","entityId":"abc"}`
	if err := handler.Handle(context.Background(), body); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if store.puts != 0 {
		t.Error("message without owner must not trigger export")
	}
}

func TestHandleExportFailure(t *testing.T) {
	store := &countingStore{err: errors.New("s3 down")}
	handler := newHandlerFixture(store)

	body := `{"entityType":"product","entityId":"abc","ownerId":"owner-1"}`
	if err := handler.Handle(context.Background(), body); err == nil {
		t.Fatal("expected export failure to propagate")
	}
}
