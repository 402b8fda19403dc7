// File: internal/auth/handler.go
package auth

import (
	"context"
	"errors"
	"strings"

	"local_services_backend/internal/common"
	"local_services_backend/internal/provider"
	"local_services_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultRedirect is where a caller lands after sign-in when no return path was given.
const DefaultRedirect = "/profile"

// StateSource reports the caller's manage-my-business state.
type StateSource interface {
	ManageState(ctx context.Context, s *session.Session) (session.State, *provider.Provider, error)
}

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service Service
	states  StateSource
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, states StateSource, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		states:  states,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signUp)
		authGroup.POST("/password-reset", h.passwordReset)
		authGroup.POST("/signout", authMW, h.signOut)
		authGroup.GET("/session", optionalAuthMW, h.getSession)
	}
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpRequest
	if !h.bind(c, "Sign up", &req) {
		return
	}
	id, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Account created successfully.", SignUpResponse{User: id, Redirect: DefaultRedirect})
}

func (h *Handler) passwordReset(c *gin.Context) {
	var req PasswordResetRequest
	if !h.bind(c, "Password reset", &req) {
		return
	}
	h.service.RequestPasswordReset(c.Request.Context(), req.Email)
	common.RespondOK(c, PasswordResetMessage, nil)
}

func (h *Handler) signOut(c *gin.Context) {
	if err := h.service.SignOut(c.Request.Context(), session.FromContext(c)); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Signed out successfully.", nil)
}

func (h *Handler) getSession(c *gin.Context) {
	sess := session.FromContext(c)
	resp := SessionResponse{
		Authenticated: sess.Authenticated(),
		State:         session.StateNotAuthenticated,
		Redirect:      SafeRedirect(c.Query("redirect")),
	}
	if id, ok := sess.Identity(); ok {
		resp.User = &id
		state, _, err := h.states.ManageState(c.Request.Context(), sess)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		resp.State = state
	}
	common.RespondOK(c, "", resp)
}

// SafeRedirect keeps post-login redirects on this site. Anything that is not a
// local absolute path becomes DefaultRedirect.
func SafeRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return DefaultRedirect
	}
	return raw
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
