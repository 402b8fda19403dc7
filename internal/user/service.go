// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"local_services_backend/internal/common"
	"local_services_backend/internal/session"

	"go.uber.org/zap"
)

// Service defines the interface for user business logic.
type Service interface {
	// EnsureUser returns the users row for id, creating it on first sight.
	EnsureUser(ctx context.Context, id session.Identity) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) EnsureUser(ctx context.Context, id session.Identity) (*User, error) {
	if id.UserID == "" {
		return nil, common.ErrUnauthorized.WithDetails("Missing user identity.")
	}

	existing, err := s.repo.FindByID(ctx, id.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user %s: %w", id.UserID, err)
	}

	u := &User{ID: id.UserID, Email: id.Email}
	if err := s.repo.Create(ctx, u); err != nil {
		// Another request created the row first.
		if errors.Is(err, common.ErrConflict) {
			return s.repo.FindByID(ctx, id.UserID)
		}
		s.logger.Error("Failed to create user record", zap.Error(err), zap.String("userID", id.UserID))
		return nil, err
	}

	s.logger.Info("User record created", zap.String("userID", u.ID))
	return u, nil
}

func (s *service) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}
