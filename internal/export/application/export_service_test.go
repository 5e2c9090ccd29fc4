package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	catalog "github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/internal/export/domain"
)

// stubCategoryRepo 固定数据的分类仓储
type stubCategoryRepo struct {
	categories []*catalog.Category
	err        error
}

func (r *stubCategoryRepo) Insert(context.Context, *catalog.Category) error { return nil }
func (r *stubCategoryRepo) Update(context.Context, *catalog.Category) error { return nil }
func (r *stubCategoryRepo) GetByID(context.Context, primitive.ObjectID) (*catalog.Category, error) {
	return nil, catalog.ErrCategoryNotFound
}
func (r *stubCategoryRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func (r *stubCategoryRepo) List(_ context.Context, ownerID string) ([]*catalog.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*catalog.Category
	for _, c := range r.categories {
		if ownerID == "" || c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

// stubProductRepo 固定数据的商品仓储
type stubProductRepo struct {
	products []*catalog.Product
	err      error
}

func (r *stubProductRepo) Insert(context.Context, *catalog.Product) error { return nil }
func (r *stubProductRepo) Update(context.Context, *catalog.Product) error { return nil }
func (r *stubProductRepo) GetByID(context.Context, primitive.ObjectID) (*catalog.Product, error) {
	return nil, catalog.ErrProductNotFound
}
func (r *stubProductRepo) FindByCategory(context.Context, primitive.ObjectID) ([]*catalog.Product, error) {
	return nil, nil
}
func (r *stubProductRepo) DeleteByCategory(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}
func (r *stubProductRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

func (r *stubProductRepo) FindByOwner(_ context.Context, ownerID string) ([]*catalog.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*catalog.Product
	for _, p := range r.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// memStore 内存产物存储
type memStore struct {
	objects map[string][]byte
	puts    int
	err     error
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) PutCatalog(_ context.Context, ownerID string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.puts++
	s.objects[domain.ArtifactKey(ownerID)] = data
	return nil
}

func (s *memStore) GetCatalog(_ context.Context, ownerID string) ([]byte, error) {
	data, ok := s.objects[domain.ArtifactKey(ownerID)]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return data, nil
}

func TestExportOwner(t *testing.T) {
	booksID := primitive.NewObjectID()
	categories := &stubCategoryRepo{categories: []*catalog.Category{
		{ID: booksID, Title: "Books", Description: "printed things", OwnerID: "owner-1"},
	}}
	products := &stubProductRepo{products: []*catalog.Product{
		{Title: "Dune", Price: 9.99, CategoryID: booksID, OwnerID: "owner-1"},
	}}
	store := newMemStore()
	service := NewExportService(products, categories, store, nil)

	if err := service.ExportOwner(context.Background(), "owner-1"); err != nil {
		t.Fatalf("ExportOwner: %v", err)
	}

	data, err := service.GetCatalog(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("GetCatalog: %v", err)
	}

	var doc domain.Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Owner != "owner-1" || len(doc.Catalog) != 1 {
		t.Errorf("unexpected document %+v", doc)
	}
	if doc.Catalog[0].Products[0].Title != "Dune" {
		t.Errorf("unexpected products %+v", doc.Catalog[0].Products)
	}
}

func TestExportOwnerIdempotent(t *testing.T) {
	booksID := primitive.NewObjectID()
	categories := &stubCategoryRepo{categories: []*catalog.Category{
		{ID: booksID, Title: "Books", OwnerID: "owner-1"},
	}}
	products := &stubProductRepo{products: []*catalog.Product{
		{Title: "Dune", Price: 9.99, CategoryID: booksID, OwnerID: "owner-1"},
		{Title: "Chess", Price: 25, CategoryID: booksID, OwnerID: "owner-1"},
	}}
	store := newMemStore()
	service := NewExportService(products, categories, store, nil)
	ctx := context.Background()

	if err := service.ExportOwner(ctx, "owner-1"); err != nil {
		t.Fatalf("first export: %v", err)
	}
	first, _ := store.GetCatalog(ctx, "owner-1")
	firstCopy := bytes.Clone(first)

	if err := service.ExportOwner(ctx, "owner-1"); err != nil {
		t.Fatalf("second export: %v", err)
	}
	second, _ := store.GetCatalog(ctx, "owner-1")

	if !bytes.Equal(firstCopy, second) {
		t.Error("unchanged data must re-export byte-identically")
	}
	if store.puts != 2 {
		t.Errorf("puts = %d, want 2", store.puts)
	}
}

func TestExportOwnerEmpty(t *testing.T) {
	store := newMemStore()
	service := NewExportService(&stubProductRepo{}, &stubCategoryRepo{}, store, nil)

	if err := service.ExportOwner(context.Background(), "owner-1"); err != nil {
		t.Fatalf("ExportOwner: %v", err)
	}

	data, _ := store.GetCatalog(context.Background(), "owner-1")
	want := `{"owner":"owner-1","catalog":[]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestExportOwnerFetchFailure(t *testing.T) {
	store := newMemStore()
	service := NewExportService(
		&stubProductRepo{err: errors.New("mongo down")},
		&stubCategoryRepo{},
		store, nil,
	)

	if err := service.ExportOwner(context.Background(), "owner-1"); err == nil {
		t.Fatal("expected fetch failure to propagate")
	}
	if store.puts != 0 {
		t.Error("failed export must not write artifact")
	}
}

func TestExportOwnerStoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("s3 down")
	service := NewExportService(&stubProductRepo{}, &stubCategoryRepo{}, store, nil)

	if err := service.ExportOwner(context.Background(), "owner-1"); err == nil {
		t.Fatal("expected store failure to propagate")
	}
}

func TestGetCatalogMissing(t *testing.T) {
	service := NewExportService(&stubProductRepo{}, &stubCategoryRepo{}, newMemStore(), nil)

	if _, err := service.GetCatalog(context.Background(), "owner-1"); !errors.Is(err, domain.ErrArtifactNotFound) {
		t.Fatalf("err = %v, want ErrArtifactNotFound", err)
	}
}
