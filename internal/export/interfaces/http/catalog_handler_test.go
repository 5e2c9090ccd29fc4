package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	catalog "github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/internal/export/application"
	"github.com/wyfcoding/catalogexport/internal/export/domain"
)

type noopCategoryRepo struct{}

func (noopCategoryRepo) Insert(context.Context, *catalog.Category) error { return nil }
func (noopCategoryRepo) Update(context.Context, *catalog.Category) error { return nil }
func (noopCategoryRepo) GetByID(context.Context, primitive.ObjectID) (*catalog.Category, error) {
	return nil, catalog.ErrCategoryNotFound
}
func (noopCategoryRepo) List(context.Context, string) ([]*catalog.Category, error) { return nil, nil }
func (noopCategoryRepo) Delete(context.Context, primitive.ObjectID) error          { return nil }

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

// fixedStore 预置产物的存储实现
type fixedStore struct {
	objects map[string][]byte
}

func (s *fixedStore) PutCatalog(_ context.Context, ownerID string, data []byte) error {
	s.objects[domain.ArtifactKey(ownerID)] = data
	return nil
}

func (s *fixedStore) GetCatalog(_ context.Context, ownerID string) ([]byte, error) {
	data, ok := s.objects[domain.ArtifactKey(ownerID)]
	if !ok {
		return nil, domain.ErrArtifactNotFound
	}
	return data, nil
}

func newEngine(store domain.ArtifactStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewExportService(noopProductRepo{}, noopCategoryRepo{}, store, nil)
	engine := gin.New()
	NewCatalogHandler(service).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestGetCatalogEndpoint(t *testing.T) {
	artifact := []byte(`{"owner":"owner-1","catalog":[]}`)
	store := &fixedStore{objects: map[string][]byte{
		domain.ArtifactKey("owner-1"): artifact,
	}}
	engine := newEngine(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/owner-1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != string(artifact) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetCatalogEndpointMissing(t *testing.T) {
	engine := newEngine(&fixedStore{objects: map[string][]byte{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/owner-9", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
