package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/catalogexport/internal/export/application"
	"github.com/wyfcoding/catalogexport/internal/export/domain"
	"github.com/wyfcoding/catalogexport/pkg/logger"
)

// CatalogHandler 目录产物读取处理器
type CatalogHandler struct {
	app *application.ExportService
}

// NewCatalogHandler 创建目录产物读取处理器
func NewCatalogHandler(app *application.ExportService) *CatalogHandler {
	return &CatalogHandler{app: app}
}

// RegisterRoutes 将处理器方法绑定到路由组
func (h *CatalogHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/catalogs/:ownerId", h.GetCatalog)
}

// GetCatalog 读取 owner 当前的目录导出产物
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	data, err := h.app.GetCatalog(c.Request.Context(), c.Param("ownerId"))
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Catalog not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get catalog", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not get catalog"})
		return
	}

	c.Data(http.StatusOK, "application/json", data)
}
