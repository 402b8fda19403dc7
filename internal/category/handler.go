// File: internal/category/handler.go
package category

import (
	"context"

	"local_services_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProviderCounter reports how many listings carry each category name.
type ProviderCounter interface {
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// Handler serves the read-only taxonomy.
type Handler struct {
	counter ProviderCounter
	logger  *zap.Logger
}

// NewHandler creates a new category handler.
func NewHandler(counter ProviderCounter, logger *zap.Logger) *Handler {
	return &Handler{
		counter: counter,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for category operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	categoryGroup := router.Group("/categories")
	{
		categoryGroup.GET("", h.getAllCategories)
		categoryGroup.GET("/:id", h.getCategory)
	}
}

func (h *Handler) getAllCategories(c *gin.Context) {
	all := All()
	responses := make([]CategoryResponse, len(all))
	for i, cat := range all {
		responses[i] = CategoryResponse{Category: cat}
	}

	if c.Query("include_counts") == "true" && h.counter != nil {
		counts, err := h.counter.CountByCategory(c.Request.Context())
		if err != nil {
			h.logger.Error("Failed to count providers per category", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}
		for i := range responses {
			n := counts[responses[i].Name]
			responses[i].ProviderCount = &n
		}
	}
	common.RespondOK(c, "Categories retrieved successfully.", responses)
}

func (h *Handler) getCategory(c *gin.Context) {
	cat, err := Get(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Category retrieved successfully.", CategoryResponse{Category: cat})
}
