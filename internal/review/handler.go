// File: internal/review/handler.go
package review

import (
	"errors"

	"local_services_backend/internal/common"
	"local_services_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for review handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new review handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts reviews under a listing: /providers/:id/reviews.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	reviewGroup := router.Group("/providers/:id/reviews")
	{
		reviewGroup.GET("", h.listReviews)
		reviewGroup.POST("", authMW, h.createReview)
	}
}

func (h *Handler) listReviews(c *gin.Context) {
	reviews, summary, err := h.service.ListForProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	resp := ListResponse{Reviews: make([]ReviewResponse, len(reviews)), Summary: summary}
	for i := range reviews {
		resp.Reviews[i] = ToReviewResponse(&reviews[i])
	}
	common.RespondOK(c, "Reviews retrieved successfully.", resp)
}

func (h *Handler) createReview(c *gin.Context) {
	sess := session.FromContext(c)
	if !sess.Authenticated() {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("You must be signed in to leave a review."))
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create review: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	rev, err := h.service.Create(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Review submitted successfully.", ToReviewResponse(rev))
}
