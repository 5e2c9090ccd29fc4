package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/catalogexport/internal/catalog/application"
	"github.com/wyfcoding/catalogexport/internal/catalog/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// CategoryHandler 分类 HTTP 处理器
type CategoryHandler struct {
	app *application.CategoryService
}

// NewCategoryHandler 创建分类 HTTP 处理器
func NewCategoryHandler(app *application.CategoryService) *CategoryHandler {
	return &CategoryHandler{app: app}
}

// RegisterRoutes 将处理器方法绑定到路由组
func (h *CategoryHandler) RegisterRoutes(api *gin.RouterGroup) {
	categories := api.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.GET("/:categoryId", h.GetCategory)
		categories.PUT("/:categoryId", h.UpdateCategory)
		categories.DELETE("/:categoryId", h.DeleteCategory)
	}
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     string `json:"ownerId"`
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	OwnerID     string  `json:"ownerId"`
}

// OwnerRequest 仅携带身份声明的请求体
type OwnerRequest struct {
	OwnerID string `json:"ownerId"`
}

// CreateCategory 创建分类
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	category, err := h.app.Create(c.Request.Context(), req.Title, req.Description, req.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory 更新分类
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.OwnerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Owner ID required for update."})
		return
	}

	cmd := application.UpdateCategoryCommand{
		Title:       req.Title,
		Description: req.Description,
	}
	category, err := h.app.Update(c.Request.Context(), c.Param("categoryId"), cmd, req.OwnerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to update this category."})
		case errors.Is(err, domain.ErrTitleRequired):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to update category", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update category"})
		}
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory 删除分类并级联删除其商品
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.OwnerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Owner ID required to delete."})
		return
	}

	if _, err := h.app.Delete(c.Request.Context(), c.Param("categoryId"), req.OwnerID); err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		case errors.Is(err, domain.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to delete this category."})
		default:
			logger.Error(c.Request.Context(), "Failed to delete category", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete category"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCategory 按 ID 查询分类
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.app.GetByID(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not get category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// ListCategories 列出分类，支持可选 ownerId 过滤
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.app.List(c.Request.Context(), c.Query("ownerId"))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not get categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}
