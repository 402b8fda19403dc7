// File: internal/provider/handler.go
package provider

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"

	"local_services_backend/internal/common"
	"local_services_backend/internal/review"
	"local_services_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ListYourBusinessPath is where the "list your business" flow returns after login.
const ListYourBusinessPath = "/list-your-business"

// RatingSource supplies review summaries for listings.
type RatingSource interface {
	Summary(ctx context.Context, providerID string) (review.Summary, error)
	Summaries(ctx context.Context, providerIDs []string) (map[string]review.Summary, error)
}

// Handler struct holds dependencies for provider handlers.
type Handler struct {
	service Service
	ratings RatingSource
	logger  *zap.Logger
}

// NewHandler creates a new provider handler.
func NewHandler(service Service, ratings RatingSource, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		ratings: ratings,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for provider operations. optionalAuthMW
// attaches a session when a token is present and lets anonymous callers through.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	providerGroup := router.Group("/providers")
	{
		providerGroup.GET("", h.searchProviders)
		providerGroup.GET("/featured", h.getFeaturedProviders)
		providerGroup.GET("/stream", h.streamProviders)
		providerGroup.GET("/:id", h.getProviderByID)

		providerGroup.POST("", authMW, h.createProvider)
		providerGroup.PUT("/:id", authMW, h.updateProvider)
		providerGroup.DELETE("/:id", authMW, h.deleteProvider)
	}

	meGroup := router.Group("/me/business", optionalAuthMW)
	{
		meGroup.GET("", h.getMyBusiness)
		meGroup.GET("/entry", h.listYourBusinessEntry)
	}
}

func (h *Handler) searchProviders(c *gin.Context) {
	criteria := CriteriaFromQuery(c.Query("q"), c.Query("loc"), c.Query("cat"))

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("limit must be a non-negative integer."))
			return
		}
		limit = n
	}

	providers, err := h.service.Search(c.Request.Context(), criteria, limit)
	if err != nil {
		h.logger.Error("Failed to search providers", zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	h.respondList(c, "Providers retrieved successfully.", providers)
}

func (h *Handler) getFeaturedProviders(c *gin.Context) {
	providers, err := h.service.Featured(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load featured providers", zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	h.respondList(c, "Featured providers retrieved successfully.", providers)
}

func (h *Handler) respondList(c *gin.Context, message string, providers []Provider) {
	ids := make([]string, len(providers))
	for i := range providers {
		ids[i] = providers[i].ID
	}
	summaries, err := h.ratings.Summaries(c.Request.Context(), ids)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]ProviderResponse, len(providers))
	for i := range providers {
		responses[i] = ToProviderResponse(&providers[i], summaries[providers[i].ID])
	}
	common.RespondOK(c, message, responses)
}

func (h *Handler) getProviderByID(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	summary, err := h.ratings.Summary(c.Request.Context(), p.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Provider retrieved successfully.", ToProviderResponse(p, summary))
}

// streamProviders pushes change-feed events as server-sent events until the client leaves.
func (h *Handler) streamProviders(c *gin.Context) {
	feed, err := h.service.Subscribe(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		ev, ok := <-feed
		if !ok {
			return false
		}
		c.SSEvent(string(ev.Type), ev)
		return true
	})
}

func (h *Handler) createProvider(c *gin.Context) {
	sess := session.FromContext(c)
	if !sess.Authenticated() {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("You must be signed in to list a business."))
		return
	}

	var req CreateProviderRequest
	if !h.bind(c, "Create provider", &req) {
		return
	}

	p, err := h.service.Create(c.Request.Context(), sess, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Your business has been listed.", ToProviderResponse(p, review.Summary{}))
}

func (h *Handler) updateProvider(c *gin.Context) {
	sess := session.FromContext(c)
	if !sess.Authenticated() {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("You must be signed in to edit a listing."))
		return
	}

	var req UpdateProviderRequest
	if !h.bind(c, "Update provider", &req) {
		return
	}

	p, err := h.service.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	summary, err := h.ratings.Summary(c.Request.Context(), p.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Your business listing has been updated.", ToProviderResponse(p, summary))
}

func (h *Handler) deleteProvider(c *gin.Context) {
	sess := session.FromContext(c)
	if !sess.Authenticated() {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("You must be signed in to delete a listing."))
		return
	}
	if err := h.service.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

// MyBusinessResponse reports where the caller stands in the manage-my-business flow.
type MyBusinessResponse struct {
	State   session.State `json:"state"`
	CanEdit bool          `json:"canEdit"`
	Listing *Provider     `json:"listing,omitempty"`
}

func (h *Handler) getMyBusiness(c *gin.Context) {
	state, p, err := h.service.ManageState(c.Request.Context(), session.FromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", MyBusinessResponse{State: state, CanEdit: state.CanEdit(), Listing: p})
}

func (h *Handler) listYourBusinessEntry(c *gin.Context) {
	state, p, err := h.service.ManageState(c.Request.Context(), session.FromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", entryFor(state, p))
}

// LoginRedirect is the login location that returns to path afterwards.
func LoginRedirect(path string) string {
	return "/login?" + url.Values{"redirect": {path}}.Encode()
}

func entryFor(state session.State, p *Provider) EntryResponse {
	switch state {
	case session.StateHasListing:
		return EntryResponse{Action: EntryEditListing, Location: "/profile/edit-business/" + url.PathEscape(p.ID), Listing: p}
	case session.StateNoListing:
		return EntryResponse{Action: EntryShowForm, Form: &CreateProviderRequest{}}
	default:
		return EntryResponse{Action: EntryRedirectToLogin, Location: LoginRedirect(ListYourBusinessPath)}
	}
}

func (h *Handler) bind(c *gin.Context, op string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn(op+": Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}
