// File: internal/auth/service.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"local_services_backend/internal/authz"
	"local_services_backend/internal/common"
	"local_services_backend/internal/session"
	"local_services_backend/internal/user"

	"go.uber.org/zap"
)

// PasswordResetMessage is shown for every reset request, whether or not the
// email belongs to an account.
const PasswordResetMessage = "If an account exists for this email, a password reset link has been sent."

// IdentityProvider is the external authentication service.
type IdentityProvider interface {
	Verify(ctx context.Context, idToken string) (session.Identity, error)
	CreateAccount(ctx context.Context, email, password string) (session.Identity, error)
	SendPasswordReset(ctx context.Context, email string) error
	RevokeSessions(ctx context.Context, uid string) error
}

// Service defines the interface for session lifecycle operations.
type Service interface {
	// Authenticate turns an ID token into a session and makes sure the users row exists.
	Authenticate(ctx context.Context, idToken string) (*session.Session, error)
	SignUp(ctx context.Context, req SignUpRequest) (session.Identity, error)
	RequestPasswordReset(ctx context.Context, email string)
	SignOut(ctx context.Context, s *session.Session) error
}

type service struct {
	idp    IdentityProvider
	users  user.Service
	logger *zap.Logger
}

// NewService creates a new auth service.
func NewService(idp IdentityProvider, users user.Service, logger *zap.Logger) Service {
	return &service{idp: idp, users: users, logger: logger}
}

func (s *service) Authenticate(ctx context.Context, idToken string) (*session.Session, error) {
	id, err := s.idp.Verify(ctx, idToken)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, apiErr
		}
		return nil, common.ErrUnauthorized.WithDetails("Invalid or expired token.")
	}
	if _, err := s.users.EnsureUser(ctx, id); err != nil {
		s.logger.Warn("Could not ensure user record", zap.Error(err), zap.String("userID", id.UserID))
	}
	return session.New(id), nil
}

func (s *service) SignUp(ctx context.Context, req SignUpRequest) (session.Identity, error) {
	email := strings.TrimSpace(req.Email)
	id, err := s.idp.CreateAccount(ctx, email, req.Password)
	if err != nil {
		return session.Identity{}, err
	}
	// The row is recreated lazily on the next authenticated request if this fails.
	if _, err := s.users.EnsureUser(ctx, id); err != nil {
		s.logger.Warn("Failed to create user record after sign-up", zap.Error(err), zap.String("userID", id.UserID))
	}
	s.logger.Info("User signed up", zap.String("userID", id.UserID))
	return id, nil
}

func (s *service) RequestPasswordReset(ctx context.Context, email string) {
	if err := s.idp.SendPasswordReset(ctx, strings.TrimSpace(email)); err != nil {
		s.logger.Warn("Password reset request failed", zap.Error(err))
	}
}

func (s *service) SignOut(ctx context.Context, sess *session.Session) error {
	if err := authz.RequireAuthenticated(sess); err != nil {
		return err
	}
	if err := s.idp.RevokeSessions(ctx, sess.UserID()); err != nil {
		return common.ErrServiceUnavailable.WithDetails("Could not sign out. Please try again.")
	}
	s.logger.Info("User signed out", zap.String("userID", sess.UserID()))
	return nil
}
