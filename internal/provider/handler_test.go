package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"local_services_backend/internal/category"
	"local_services_backend/internal/common"
	"local_services_backend/internal/review"
	"local_services_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRatings map[string]review.Summary

func (s stubRatings) Summary(_ context.Context, id string) (review.Summary, error) {
	return s[id], nil
}

func (s stubRatings) Summaries(_ context.Context, ids []string) (map[string]review.Summary, error) {
	out := make(map[string]review.Summary, len(ids))
	for _, id := range ids {
		if sum, ok := s[id]; ok {
			out[id] = sum
		}
	}
	return out, nil
}

// withSession stands in for the auth middlewares. An empty uid leaves the request anonymous.
func withSession(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			session.Set(c, session.New(session.Identity{UserID: uid, Email: uid + "@example.com"}))
		}
		c.Next()
	}
}

func setupRouter(t *testing.T, repo *MockRepository, uid string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		require.NoError(t, category.RegisterValidation(v))
	}
	svc := NewService(repo, nil, nil, testCfg, zap.NewNop())
	ratings := stubRatings{"p1": {AverageRating: 4.5, ReviewCount: 2}}
	r := gin.New()
	NewHandler(svc, ratings, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"), withSession(uid), withSession(uid))
	return r
}

func decodeData(t *testing.T, body []byte, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestHandler_EntryRedirectsAnonymousToLogin(t *testing.T) {
	r := setupRouter(t, new(MockRepository), "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/me/business/entry", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var entry EntryResponse
	decodeData(t, rr.Body.Bytes(), &entry)
	assert.Equal(t, EntryRedirectToLogin, entry.Action)
	assert.Equal(t, "/login?redirect=%2Flist-your-business", entry.Location)
}

func TestHandler_EntryShowsEmptyFormAfterLogin(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByUserID", mock.Anything, "u1").Return(nil, common.ErrNotFound.WithDetails("No listing for this user."))
	r := setupRouter(t, repo, "u1")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/me/business/entry", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var entry EntryResponse
	decodeData(t, rr.Body.Bytes(), &entry)
	assert.Equal(t, EntryShowForm, entry.Action)
	require.NotNil(t, entry.Form)
	assert.Equal(t, CreateProviderRequest{}, *entry.Form)
}

func TestHandler_EntryEditsOwnedListing(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByUserID", mock.Anything, "u1").Return(ownedBy("u1"), nil)
	r := setupRouter(t, repo, "u1")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/me/business", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"state":"authenticated_has_listing"`)
	assert.Contains(t, rr.Body.String(), `"canEdit":true`)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/me/business/entry", nil))
	var entry EntryResponse
	decodeData(t, rr.Body.Bytes(), &entry)
	assert.Equal(t, EntryEditListing, entry.Action)
	assert.Equal(t, "u1", entry.Listing.ID)
}

func TestHandler_SearchKeywordAndLocation(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything, 500).Return(fixtureProviders()[:3], nil)
	r := setupRouter(t, repo, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/providers?q=clean&loc=brooklyn", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got []ProviderResponse
	decodeData(t, rr.Body.Bytes(), &got)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, 2, got[0].Rating.ReviewCount)
}

func TestHandler_SearchRejectsBadLimit(t *testing.T) {
	r := setupRouter(t, new(MockRepository), "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/providers?limit=-3", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_GetProviderIncludesContacts(t *testing.T) {
	repo := new(MockRepository)
	p := ownedBy("p1")
	p.Phone = "555 0100"
	p.WhatsApp = "15550100"
	repo.On("FindByID", mock.Anything, "p1").Return(p, nil)
	repo.On("FindByID", mock.Anything, "nope").Return(nil, common.ErrNotFound.WithDetails("Provider not found."))
	r := setupRouter(t, repo, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/providers/p1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got ProviderResponse
	decodeData(t, rr.Body.Bytes(), &got)
	assert.Equal(t, "tel:555 0100", got.Contacts.Phone)
	assert.Equal(t, "https://wa.me/15550100", got.Contacts.WhatsApp)
	assert.Equal(t, 4.5, got.Rating.AverageRating)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/providers/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_CreateProvider(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*provider.Provider")).Return(nil)
	r := setupRouter(t, repo, "u1")

	body := `{"name":"Sparkle Cleaning Co","category":"Home Services","location":"Brooklyn, NY","services":"Deep clean, Windows"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got ProviderResponse
	decodeData(t, rr.Body.Bytes(), &got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, []string{"Deep clean", "Windows"}, []string(got.Services))
	assert.True(t, got.Rating.IsNew())
}

func TestHandler_CreateProviderUnknownCategory(t *testing.T) {
	repo := new(MockRepository)
	r := setupRouter(t, repo, "u1")

	body := `{"name":"Sparkle","category":"Spaceships","location":"Brooklyn"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "directory categories")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandler_UpdateByNonOwnerForbidden(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FindByID", mock.Anything, "u2").Return(ownedBy("u2"), nil)
	r := setupRouter(t, repo, "u1")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/providers/u2", strings.NewReader(`{"name":"Mine now"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	repo.AssertNotCalled(t, "UpdateOwned", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_DeleteRequiresSession(t *testing.T) {
	repo := new(MockRepository)
	r := setupRouter(t, repo, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/providers/u1", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	repo.AssertNotCalled(t, "DeleteOwned", mock.Anything, mock.Anything, mock.Anything)
}
