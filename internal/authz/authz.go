// File: internal/authz/authz.go
package authz

import (
	"local_services_backend/internal/common"
	"local_services_backend/internal/session"

	"go.uber.org/zap"
)

// Operations named in permission diagnostics.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// RequireAuthenticated rejects anonymous sessions.
func RequireAuthenticated(s *session.Session) error {
	if !s.Authenticated() {
		return common.ErrUnauthorized.WithDetails("You must be signed in to do that.")
	}
	return nil
}

// CanMutateProvider allows create, update and delete of a listing only when the
// acting identity owns it.
func CanMutateProvider(s *session.Session, ownerID string) error {
	if err := RequireAuthenticated(s); err != nil {
		return err
	}
	if ownerID == "" || s.UserID() != ownerID {
		return common.ErrForbidden.WithDetails("You don't have permission to edit this listing.")
	}
	return nil
}

// CanCreateReview allows any signed-in identity to review any listing.
func CanCreateReview(s *session.Session) error {
	return RequireAuthenticated(s)
}

// Diagnostic describes a write the store refused. Callers show a generic
// message and log the diagnostic for developers.
type Diagnostic struct {
	Path                string      `json:"path"`
	Operation           string      `json:"operation"`
	RequestResourceData interface{} `json:"requestResourceData,omitempty"`
	UserID              string      `json:"userId,omitempty"`
}

// Report logs d and returns the generic permission-denied error.
func Report(logger *zap.Logger, d Diagnostic) error {
	logger.Warn("Permission denied by store",
		zap.String("path", d.Path),
		zap.String("operation", d.Operation),
		zap.String("user_id", d.UserID),
		zap.Any("request_resource_data", d.RequestResourceData),
	)
	return common.ErrPermissionDenied
}
