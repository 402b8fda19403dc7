// File: internal/review/service.go
package review

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"local_services_backend/internal/authz"
	"local_services_backend/internal/common"
	"local_services_backend/internal/session"

	"go.uber.org/zap"
)

// ProviderChecker tells the review service whether a listing exists.
type ProviderChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service defines the interface for review business logic.
type Service interface {
	Create(ctx context.Context, s *session.Session, providerID string, req CreateReviewRequest) (*Review, error)
	ListForProvider(ctx context.Context, providerID string) ([]Review, Summary, error)
	Summary(ctx context.Context, providerID string) (Summary, error)
	Summaries(ctx context.Context, providerIDs []string) (map[string]Summary, error)
	SweepOrphans(ctx context.Context) (int64, error)
}

type service struct {
	repo      Repository
	providers ProviderChecker
	logger    *zap.Logger
}

// NewService creates a new review service.
func NewService(repo Repository, providers ProviderChecker, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		providers: providers,
		logger:    logger,
	}
}

// Validate checks a review form before anything touches the store.
func Validate(req CreateReviewRequest) error {
	errs := common.FieldErrors{}
	if req.Rating < MinRating || req.Rating > MaxRating {
		errs.Add("rating", fmt.Sprintf("Rating must be between %d and %d.", MinRating, MaxRating))
	}
	n := utf8.RuneCountInString(strings.TrimSpace(req.Comment))
	if n < MinCommentLength {
		errs.Add("comment", fmt.Sprintf("Comment must be at least %d characters.", MinCommentLength))
	} else if n > MaxCommentLength {
		errs.Add("comment", fmt.Sprintf("Comment may not be longer than %d characters.", MaxCommentLength))
	}
	return errs.Err()
}

func (s *service) Create(ctx context.Context, sess *session.Session, providerID string, req CreateReviewRequest) (*Review, error) {
	if err := authz.CanCreateReview(sess); err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	if err := s.requireProvider(ctx, providerID); err != nil {
		return nil, err
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = sess.Email()
	}
	rev := &Review{
		ProviderID: providerID,
		UserID:     sess.UserID(),
		Author:     author,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		s.logger.Error("Failed to create review", zap.Error(err), zap.String("providerID", providerID))
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info("Review created successfully",
		zap.String("reviewID", rev.ID.String()),
		zap.String("providerID", providerID),
		zap.Int("rating", rev.Rating),
	)
	return rev, nil
}

// ListForProvider returns a listing's reviews, oldest first, with their summary.
func (s *service) ListForProvider(ctx context.Context, providerID string) ([]Review, Summary, error) {
	if err := s.requireProvider(ctx, providerID); err != nil {
		return nil, Summary{}, err
	}
	reviews, err := s.findForProvider(ctx, providerID)
	if err != nil {
		return nil, Summary{}, err
	}
	return reviews, Aggregate(reviews), nil
}

func (s *service) Summary(ctx context.Context, providerID string) (Summary, error) {
	reviews, err := s.findForProvider(ctx, providerID)
	if err != nil {
		return Summary{}, err
	}
	return Aggregate(reviews), nil
}

func (s *service) findForProvider(ctx context.Context, providerID string) ([]Review, error) {
	reviews, err := s.repo.FindByProviderID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for provider %s: %w", providerID, err)
	}
	return reviews, nil
}

func (s *service) requireProvider(ctx context.Context, providerID string) error {
	exists, err := s.providers.Exists(ctx, providerID)
	if err != nil {
		return fmt.Errorf("failed to check provider %s: %w", providerID, err)
	}
	if !exists {
		return common.ErrNotFound.WithDetails("Provider not found.")
	}
	return nil
}

func (s *service) Summaries(ctx context.Context, providerIDs []string) (map[string]Summary, error) {
	reviews, err := s.repo.FindByProviderIDs(ctx, providerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for summaries: %w", err)
	}
	return AggregateByProvider(reviews), nil
}

func (s *service) SweepOrphans(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteOrphans(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned reviews: %w", err)
	}
	if n > 0 {
		s.logger.Info("Orphaned reviews removed", zap.Int64("count", n))
	}
	return n, nil
}
