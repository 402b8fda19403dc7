// File: internal/provider/service.go
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"local_services_backend/internal/authz"
	"local_services_backend/internal/category"
	"local_services_backend/internal/common"
	"local_services_backend/internal/config"
	"local_services_backend/internal/session"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SearchIndexer mirrors provider writes into the search index.
type SearchIndexer interface {
	Index(ctx context.Context, p *Provider) error
	Delete(ctx context.Context, id string) error
}

// Service defines the interface for provider business logic.
type Service interface {
	Create(ctx context.Context, s *session.Session, req CreateProviderRequest) (*Provider, error)
	Get(ctx context.Context, id string) (*Provider, error)
	Update(ctx context.Context, s *session.Session, id string, req UpdateProviderRequest) (*Provider, error)
	Delete(ctx context.Context, s *session.Session, id string) error
	Search(ctx context.Context, c Criteria, limit int) ([]Provider, error)
	Featured(ctx context.Context) ([]Provider, error)
	FindOwned(ctx context.Context, s *session.Session) (*Provider, error)
	ManageState(ctx context.Context, s *session.Session) (session.State, *Provider, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	Exists(ctx context.Context, id string) (bool, error)
	Subscribe(ctx context.Context) (<-chan Event, error)
}

type service struct {
	repo    Repository
	indexer SearchIndexer
	events  EventBus
	cfg     *config.Config
	logger  *zap.Logger
}

// NewService creates a new provider service. indexer and events may be nil.
func NewService(repo Repository, indexer SearchIndexer, events EventBus, cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		indexer: indexer,
		events:  events,
		cfg:     cfg,
		logger:  logger,
	}
}

var fieldValidator = validator.New()

// Validate checks a complete listing form. Messages are keyed by JSON field name.
func Validate(req CreateProviderRequest) error {
	errs := common.FieldErrors{}

	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) < 2 {
		errs.Add("name", "Business name must be at least 2 characters.")
	}
	if !category.IsValidName(req.Category) {
		errs.Add("category", "Please select a category.")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Location)) < 2 {
		errs.Add("location", "Location is required.")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Tagline)) > 100 {
		errs.Add("tagline", "Tagline is too long.")
	}
	if utf8.RuneCountInString(req.Description) > 1000 {
		errs.Add("description", "Description is too long.")
	}
	if hasLetter(req.WhatsApp) {
		errs.Add("whatsapp", "WhatsApp number may only contain digits and symbols.")
	}
	if req.Email != "" && fieldValidator.Var(req.Email, "email") != nil {
		errs.Add("email", "Invalid email address.")
	}
	if req.Website != "" && fieldValidator.Var(req.Website, "url") != nil {
		errs.Add("website", "Please enter a valid URL.")
	}
	if req.ImageURL != "" && !validImageRef(req.ImageURL) {
		errs.Add("imageUrl", "Please enter a valid image URL.")
	}
	return errs.Err()
}

func validImageRef(ref string) bool {
	if strings.HasPrefix(ref, "data:") {
		return strings.HasPrefix(ref, "data:image/") && fieldValidator.Var(ref, "datauri") == nil
	}
	return fieldValidator.Var(ref, "url") == nil
}

// RequestFromProvider is the form prefilled from a stored listing.
func RequestFromProvider(p *Provider) CreateProviderRequest {
	return CreateProviderRequest{
		Name:        p.Name,
		Category:    p.Category,
		Tagline:     p.Tagline,
		Location:    p.Location,
		Address:     p.Address,
		Phone:       p.Phone,
		WhatsApp:    p.WhatsApp,
		Website:     p.Website,
		Email:       p.Email,
		Description: p.Description,
		Services:    JoinServices(p.Services),
		ImageURL:    p.ImageURL,
	}
}

func (s *service) Create(ctx context.Context, sess *session.Session, req CreateProviderRequest) (*Provider, error) {
	if err := authz.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	uid := sess.UserID()
	p := &Provider{
		ID:          uid,
		UserID:      uid,
		Name:        req.Name,
		Category:    req.Category,
		Location:    req.Location,
		Tagline:     req.Tagline,
		Address:     strings.TrimSpace(req.Address),
		Phone:       strings.TrimSpace(req.Phone),
		WhatsApp:    req.WhatsApp,
		Website:     strings.TrimSpace(req.Website),
		Email:       strings.TrimSpace(req.Email),
		Description: req.Description,
		Services:    ParseServices(req.Services),
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	p.Normalize()

	if err := authz.CanMutateProvider(sess, p.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		s.logger.Error("Failed to create provider", zap.Error(err), zap.String("userID", uid))
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	s.logger.Info("Provider created successfully",
		zap.String("providerID", p.ID),
		zap.String("category", p.Category),
	)
	s.afterWrite(ctx, EventCreated, p)
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Provider, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Update(ctx context.Context, sess *session.Session, id string, req UpdateProviderRequest) (*Provider, error) {
	if err := authz.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanMutateProvider(sess, existing.UserID); err != nil {
		s.logger.Warn("Provider update rejected: not the owner",
			zap.String("providerID", id),
			zap.String("userID", sess.UserID()),
		)
		return nil, err
	}

	merged := RequestFromProvider(existing)
	updates := applyUpdate(&merged, req)
	if err := Validate(merged); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.UpdateOwned(ctx, id, sess.UserID(), updates); err != nil {
		if errors.Is(err, ErrStoreDenied) {
			return nil, authz.Report(s.logger, authz.Diagnostic{
				Path:                existing.Path(),
				Operation:           authz.OperationUpdate,
				RequestResourceData: updates,
				UserID:              sess.UserID(),
			})
		}
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update provider %s: %w", id, err)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Provider updated successfully", zap.String("providerID", id))
	s.afterWrite(ctx, EventUpdated, updated)
	return updated, nil
}

// applyUpdate copies the set fields of req onto form and returns the column
// updates they imply. user_id is never among them.
func applyUpdate(form *CreateProviderRequest, req UpdateProviderRequest) map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, dst *string, src *string, value func(string) interface{}) {
		if src == nil {
			return
		}
		*dst = *src
		updates[column] = value(*src)
	}
	trimmed := func(v string) interface{} { return strings.TrimSpace(v) }
	raw := func(v string) interface{} { return v }

	set("name", &form.Name, req.Name, trimmed)
	set("category", &form.Category, req.Category, raw)
	set("tagline", &form.Tagline, req.Tagline, trimmed)
	set("location", &form.Location, req.Location, trimmed)
	set("address", &form.Address, req.Address, trimmed)
	set("phone", &form.Phone, req.Phone, trimmed)
	set("whatsapp", &form.WhatsApp, req.WhatsApp, func(v string) interface{} { return DigitsOnly(v) })
	set("website", &form.Website, req.Website, trimmed)
	set("email", &form.Email, req.Email, trimmed)
	set("description", &form.Description, req.Description, raw)
	set("services", &form.Services, req.Services, func(v string) interface{} { return ParseServices(v) })
	set("image_url", &form.ImageURL, req.ImageURL, trimmed)
	return updates
}

func (s *service) Delete(ctx context.Context, sess *session.Session, id string) error {
	if err := authz.RequireAuthenticated(sess); err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanMutateProvider(sess, existing.UserID); err != nil {
		return err
	}

	if err := s.repo.DeleteOwned(ctx, id, sess.UserID()); err != nil {
		if errors.Is(err, ErrStoreDenied) {
			return authz.Report(s.logger, authz.Diagnostic{
				Path:      existing.Path(),
				Operation: authz.OperationDelete,
				UserID:    sess.UserID(),
			})
		}
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		return fmt.Errorf("failed to delete provider %s: %w", id, err)
	}

	s.logger.Info("Provider deleted successfully", zap.String("providerID", id))
	s.afterWrite(ctx, EventDeleted, &Provider{ID: id})
	return nil
}

// Search fetches the visible record set once and filters it in memory.
func (s *service) Search(ctx context.Context, c Criteria, limit int) ([]Provider, error) {
	records, err := s.repo.List(ctx, s.cfg.SearchFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	out := Filter(records, c)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *service) Featured(ctx context.Context) ([]Provider, error) {
	records, err := s.repo.List(ctx, s.cfg.HomeFeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured providers: %w", err)
	}
	return records, nil
}

// FindOwned returns the caller's listing, or nil when they have none.
func (s *service) FindOwned(ctx context.Context, sess *session.Session) (*Provider, error) {
	if err := authz.RequireAuthenticated(sess); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByUserID(ctx, sess.UserID())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ManageState(ctx context.Context, sess *session.Session) (session.State, *Provider, error) {
	if !sess.Authenticated() {
		return session.StateNotAuthenticated, nil, nil
	}
	p, err := s.FindOwned(ctx, sess)
	if err != nil {
		return session.StateNotAuthenticated, nil, err
	}
	return session.ManageState(sess, p != nil), p, nil
}

func (s *service) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByCategory(ctx)
}

func (s *service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *service) Subscribe(ctx context.Context) (<-chan Event, error) {
	if s.events == nil {
		return nil, common.ErrServiceUnavailable.WithDetails("Change feed is not available.")
	}
	return s.events.Subscribe(ctx)
}

// afterWrite mirrors a committed write to the search index and change feed.
// Failures there are logged; the write itself already succeeded.
func (s *service) afterWrite(ctx context.Context, typ EventType, p *Provider) {
	if s.indexer != nil {
		var err error
		if typ == EventDeleted {
			err = s.indexer.Delete(ctx, p.ID)
		} else {
			err = s.indexer.Index(ctx, p)
		}
		if err != nil {
			s.logger.Warn("Failed to sync provider to search index", zap.Error(err), zap.String("providerID", p.ID))
		}
	}

	if s.events != nil {
		ev := Event{Type: typ, ProviderID: p.ID, OccurredAt: time.Now().UTC()}
		if typ != EventDeleted {
			ev.Provider = p
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			s.logger.Warn("Failed to publish provider event", zap.Error(err), zap.String("providerID", p.ID))
		}
	}
}
