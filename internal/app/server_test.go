package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"local_services_backend/internal/auth"
	"local_services_backend/internal/category"
	"local_services_backend/internal/common"
	"local_services_backend/internal/config"
	"local_services_backend/internal/jobs"
	"local_services_backend/internal/platform/database"
	"local_services_backend/internal/provider"
	"local_services_backend/internal/provider/esutil"
	"local_services_backend/internal/review"
	"local_services_backend/internal/session"
	"local_services_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// tokenIdentities accepts tokens of the form "tok-<uid>".
type tokenIdentities struct{}

func (tokenIdentities) Verify(_ context.Context, idToken string) (session.Identity, error) {
	uid, ok := strings.CutPrefix(idToken, "tok-")
	if !ok || uid == "" {
		return session.Identity{}, common.ErrUnauthorized
	}
	return session.Identity{UserID: uid, Email: uid + "@example.com"}, nil
}

func (tokenIdentities) CreateAccount(_ context.Context, email, _ string) (session.Identity, error) {
	return session.Identity{UserID: "new-" + email, Email: email}, nil
}

func (tokenIdentities) SendPasswordReset(context.Context, string) error { return nil }

func (tokenIdentities) RevokeSessions(context.Context, string) error { return nil }

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{GinMode: gin.TestMode, HomeFeaturedLimit: 6, SearchFetchLimit: 500}
	logger := zap.NewNop()

	userService := user.NewService(user.NewGORMRepository(db), logger)
	authService := auth.NewService(tokenIdentities{}, userService, logger)

	events := provider.NewEventBus(nil, logger)
	providerRepo := provider.NewGORMRepository(db)
	providerService := provider.NewService(providerRepo, esutil.NewIndexer(nil, logger), events, cfg, logger)
	reviewService := review.NewService(review.NewGORMRepository(db), providerRepo, logger)

	srv, err := NewServer(cfg, logger, db, nil, authService,
		user.NewHandler(userService, logger),
		auth.NewHandler(authService, providerService, logger),
		category.NewHandler(providerService, logger),
		provider.NewHandler(providerService, reviewService, logger),
		review.NewHandler(reviewService, logger),
		events,
		jobs.NewOrphanReviewSweepJob(reviewService, logger, cfg),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = events.Close() })
	return srv, db
}

func do(t *testing.T, srv *Server, method, path, uid string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("Authorization", "Bearer tok-"+uid)
	}
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"database":"UP"`)
}

func TestServer_UnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodGet, "/api/v1/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"NOT_FOUND"`)
}

func TestServer_ListingLifecycle(t *testing.T) {
	srv, db := newTestServer(t)

	listing := map[string]string{
		"name":     "Sparkle Plumbing",
		"category": "Home Services",
		"location": "Brooklyn, NY",
		"phone":    "+1 (555) 010-2000",
		"services": "leaks, boilers",
	}

	// Anonymous callers are sent to login.
	rr := do(t, srv, http.MethodGet, "/api/v1/me/business/entry", "", nil)
	assert.Contains(t, rr.Body.String(), "redirect=%2Flist-your-business")

	rr = do(t, srv, http.MethodPost, "/api/v1/providers", "", listing)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/v1/providers", "owner", listing)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, srv, http.MethodPost, "/api/v1/providers", "owner", listing)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, srv, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodGet, "/api/v1/providers?q=plumb&loc=brooklyn", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Sparkle Plumbing")

	rr = do(t, srv, http.MethodPut, "/api/v1/providers/owner", "someone-else", map[string]string{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/v1/providers/owner/reviews", "customer",
		map[string]interface{}{"rating": 4, "comment": "Fixed the leak quickly."})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, srv, http.MethodGet, "/api/v1/providers/owner", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reviewCount":1`)

	rr = do(t, srv, http.MethodGet, "/api/v1/me/business", "owner", nil)
	assert.Contains(t, rr.Body.String(), `"canEdit":true`)

	rr = do(t, srv, http.MethodDelete, "/api/v1/providers/owner", "owner", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	var remaining int64
	require.NoError(t, db.Model(&review.Review{}).Where("provider_id = ?", "owner").Count(&remaining).Error)
	assert.Zero(t, remaining)

	rr = do(t, srv, http.MethodGet, "/api/v1/providers/owner", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, srv, http.MethodGet, "/api/v1/providers/owner/reviews", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
