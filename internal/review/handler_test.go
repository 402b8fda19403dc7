package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"local_services_backend/internal/common"
	"local_services_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, s *session.Session, providerID string, req CreateReviewRequest) (*Review, error) {
	args := m.Called(ctx, s, providerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockService) ListForProvider(ctx context.Context, providerID string) ([]Review, Summary, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(Summary), args.Error(2)
	}
	return args.Get(0).([]Review), args.Get(1).(Summary), args.Error(2)
}

func (m *MockService) Summary(ctx context.Context, providerID string) (Summary, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(Summary), args.Error(1)
}

func (m *MockService) Summaries(ctx context.Context, providerIDs []string) (map[string]Summary, error) {
	args := m.Called(ctx, providerIDs)
	return args.Get(0).(map[string]Summary), args.Error(1)
}

func (m *MockService) SweepOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeAuth stands in for the auth middleware. An empty uid leaves the request anonymous.
func fakeAuth(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			session.Set(c, session.New(session.Identity{UserID: uid, Email: uid + "@example.com"}))
		}
		c.Next()
	}
}

func setupReviewRouter(svc Service, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"), fakeAuth(uid))
	return r
}

func TestHandler_ListReviews(t *testing.T) {
	svc := new(MockService)
	svc.On("ListForProvider", mock.Anything, "p1").
		Return([]Review{{Author: "zoe@example.com", Rating: 5, Comment: "Fantastic service"}}, Summary{AverageRating: 5, ReviewCount: 1}, nil)
	r := setupReviewRouter(svc, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/providers/p1/reviews", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			Reviews []map[string]interface{} `json:"reviews"`
			Summary map[string]interface{}   `json:"summary"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data.Reviews, 1)
	assert.Equal(t, "Z", body.Data.Reviews[0]["authorInitial"])
	assert.Equal(t, false, body.Data.Summary["isNew"])
}

func TestHandler_ListReviews_UnknownProvider(t *testing.T) {
	svc := new(MockService)
	svc.On("ListForProvider", mock.Anything, "gone").
		Return(nil, Summary{}, common.ErrNotFound.WithDetails("Provider not found."))
	r := setupReviewRouter(svc, "")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/providers/gone/reviews", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"NOT_FOUND"`)
}

func TestHandler_CreateReview_RequiresSession(t *testing.T) {
	svc := new(MockService)
	r := setupReviewRouter(svc, "")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/p1/reviews", strings.NewReader(`{"rating":5,"comment":"Fantastic service"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_CreateReview_RejectsOutOfRangeRating(t *testing.T) {
	svc := new(MockService)
	r := setupReviewRouter(svc, "u1")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/p1/reviews", strings.NewReader(`{"rating":6,"comment":"Fantastic service"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_CreateReview(t *testing.T) {
	svc := new(MockService)
	want := CreateReviewRequest{Rating: 4, Comment: "Fixed the sink quickly"}
	svc.On("Create", mock.Anything, mock.MatchedBy(func(s *session.Session) bool { return s.UserID() == "u1" }), "p1", want).
		Return(&Review{ProviderID: "p1", UserID: "u1", Author: "u1@example.com", Rating: 4, Comment: want.Comment}, nil)
	r := setupReviewRouter(svc, "u1")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers/p1/reviews", strings.NewReader(`{"rating":4,"comment":"Fixed the sink quickly"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}
