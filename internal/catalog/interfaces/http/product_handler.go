package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/catalogexport/internal/catalog/application"
	"github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// ProductHandler 商品 HTTP 处理器
type ProductHandler struct {
	app *application.ProductService
}

// NewProductHandler 创建商品 HTTP 处理器
func NewProductHandler(app *application.ProductService) *ProductHandler {
	return &ProductHandler{app: app}
}

// RegisterRoutes 将处理器方法绑定到路由组
func (h *ProductHandler) RegisterRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.GetProductsByOwner)
		products.GET("/:productId", h.GetProduct)
		products.PUT("/:productId", h.UpdateProduct)
		products.DELETE("/:productId", h.DeleteProduct)
	}
}

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	OwnerID     string  `json:"ownerId"`
	Category    string  `json:"category"`
}

// UpdateProductRequest 更新商品请求
type UpdateProductRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	CategoryID  *string  `json:"categoryId"`
	OwnerID     string   `json:"ownerId"`
}

// CreateProduct 创建商品。分类缺失或跨 owner 视为请求语义错误。
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, err := h.app.Create(c.Request.Context(), application.CreateProductCommand{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     req.OwnerID,
		CategoryID:  req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category not found."})
		case errors.Is(err, domain.ErrCategoryCrossOwner):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category does not belong to the same owner."})
		case errors.Is(err, domain.ErrTitleRequired),
			errors.Is(err, domain.ErrNegativePrice),
			errors.Is(err, domain.ErrOwnerRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to create product", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create product"})
		}
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct 更新商品
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.OwnerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Owner ID required for update."})
		return
	}

	cmd := application.UpdateProductCommand{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
	}
	if cmd.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No data provided for update"})
		return
	}

	product, err := h.app.Update(c.Request.Context(), c.Param("productId"), cmd, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "New category not found."})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to update this product."})
		case errors.Is(err, domain.ErrCategoryCrossOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "New category does not belong to the same owner."})
		case errors.Is(err, domain.ErrTitleRequired), errors.Is(err, domain.ErrNegativePrice):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to update product", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct 删除商品
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.OwnerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Owner ID required to delete."})
		return
	}

	if _, err := h.app.Delete(c.Request.Context(), c.Param("productId"), req.OwnerID); err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to delete this product."})
		default:
			logger.Error(c.Request.Context(), "Failed to delete product", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete product"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetProduct 按 ID 查询商品
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.app.GetByID(c.Request.Context(), c.Param("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductsByOwner 查询 owner 下的全部商品，分类引用展开
func (h *ProductHandler) GetProductsByOwner(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Owner ID is required"})
		return
	}

	products, err := h.app.GetByOwner(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get products by owner", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not get products"})
		return
	}

	c.JSON(http.StatusOK, products)
}
