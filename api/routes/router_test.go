package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasshub/canvasshub-backend/api/middleware"
	"github.com/canvasshub/canvasshub-backend/internal/admin"
	"github.com/canvasshub/canvasshub-backend/internal/auth"
	"github.com/canvasshub/canvasshub-backend/internal/canvass"
	"github.com/canvasshub/canvasshub-backend/internal/cart"
	product "github.com/canvasshub/canvasshub-backend/internal/products"
	"github.com/canvasshub/canvasshub-backend/internal/users"
	pkgAuth "github.com/canvasshub/canvasshub-backend/pkg/auth"
	"github.com/canvasshub/canvasshub-backend/pkg/config"
	"github.com/canvasshub/canvasshub-backend/pkg/enums"
	"github.com/canvasshub/canvasshub-backend/pkg/logger"
	"github.com/canvasshub/canvasshub-backend/pkg/metrics"
	"github.com/canvasshub/canvasshub-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubRedis struct {
	mu   sync.Mutex
	data map[string]string
	hits map[string]int64
}

func newStubRedis() *stubRedis {
	return &stubRedis{data: map[string]string{}, hits: map[string]int64{}}
}

func (s *stubRedis) Ping(context.Context) error { return nil }

func (s *stubRedis) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (s *stubRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.data[key], _ = value.(string)
	return true, nil
}

func (s *stubRedis) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (s *stubRedis) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[key]++
	return s.hits[key], nil
}

func (s *stubRedis) RateLimitKey(scope string) string { return "rl:" + scope }

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "next", "refresh", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "a", RefreshToken: "r", User: &users.UserDTO{Email: req.Email}}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{Email: req.Email}, nil
}

type stubProductService struct{}

func (stubProductService) ListActive(ctx context.Context, input product.ListInput) (pagination.Page[product.ProductDTO], error) {
	return pagination.NewPage[product.ProductDTO](nil, input.Pagination, 0), nil
}

func (stubProductService) ListAll(ctx context.Context, input product.ListInput) (pagination.Page[product.ProductDTO], error) {
	return pagination.NewPage[product.ProductDTO](nil, input.Pagination, 0), nil
}

func (stubProductService) Categories(ctx context.Context) ([]string, error) { return []string{}, nil }

func (stubProductService) GetActive(ctx context.Context, id uuid.UUID) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: id}, nil
}

func (stubProductService) Create(ctx context.Context, req product.CreateProductRequest) (*product.ProductDTO, error) {
	return &product.ProductDTO{ID: uuid.New(), Name: req.Name}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error { return nil }

func (stubCartService) Submit(ctx context.Context, userID uuid.UUID, req cart.SubmitRequest) (*canvass.RequestDTO, error) {
	return &canvass.RequestDTO{ID: uuid.New(), UserID: userID}, nil
}

type stubCanvassService struct {
	mu      sync.Mutex
	creates int
}

func (s *stubCanvassService) Create(ctx context.Context, input canvass.CreateInput) (*canvass.RequestDTO, error) {
	s.mu.Lock()
	s.creates++
	s.mu.Unlock()
	return &canvass.RequestDTO{ID: uuid.New(), UserID: input.UserID, Status: enums.CanvassStatusPending}, nil
}

func (s *stubCanvassService) UpdateStatus(ctx context.Context, input canvass.UpdateStatusInput) (*canvass.RequestDTO, error) {
	return &canvass.RequestDTO{ID: input.RequestID, Status: enums.CanvassStatus(input.Status)}, nil
}

func (s *stubCanvassService) Get(ctx context.Context, input canvass.GetInput) (*canvass.RequestDTO, error) {
	return &canvass.RequestDTO{ID: input.RequestID}, nil
}

func (s *stubCanvassService) ListMine(ctx context.Context, userID uuid.UUID, params pagination.Params) (canvass.RequestPage, error) {
	return pagination.NewPage[canvass.RequestDTO](nil, params, 0), nil
}

func (s *stubCanvassService) ListAll(ctx context.Context, filters canvass.ListFilters, params pagination.Params) (canvass.RequestPage, error) {
	return pagination.NewPage[canvass.RequestDTO](nil, params, 0), nil
}

type stubAdminService struct{}

func (stubAdminService) Stats(ctx context.Context) (*admin.StatsDTO, error) {
	return &admin.StatsDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "canvasshub", ExpirationMinutes: 60},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:     time.Minute,
			LoginIPLimit:    100,
			LoginEmailLimit: 100,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}
}

type testRouter struct {
	http.Handler
	canvass *stubCanvassService
}

func newTestRouter(cfg *config.Config) testRouter {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	reg := prometheus.NewRegistry()
	canvassSvc := &stubCanvassService{}
	handler := NewRouter(
		cfg,
		logg,
		stubPinger{},
		newStubRedis(),
		reg,
		metrics.NewHTTPMetrics(reg),
		middleware.NewClientRateLimiter(cfg.RateLimit),
		stubSessionManager{},
		stubAuthService{},
		stubRegisterService{},
		stubProductService{},
		stubCartService{},
		canvassSvc,
		stubAdminService{},
	)
	return testRouter{Handler: handler, canvass: canvassSvc}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "tester@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return token
}

func do(router http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(testConfig())
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health/ready", "", "").Code)
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/products", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/products/categories", "", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/products/"+uuid.NewString(), "", "").Code)
}

func TestPrivateRoutesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/cart", "/api/v1/canvass"} {
		rec := do(router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestPrivateRoutesSucceedWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.RoleUser)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/cart", token, "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/canvass", token, "").Code)
	assert.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/api/v1/cart/submit", token, "").Code)
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	rec := do(router, http.MethodGet, "/api/admin/v1/stats", buildToken(t, cfg, enums.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodGet, "/api/admin/v1/stats", buildToken(t, cfg, enums.RoleAdmin), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPatch, "/api/admin/v1/canvass/"+uuid.NewString(), buildToken(t, cfg, enums.RoleAdmin), `{"status":"IN_PROGRESS"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCanvassSubmitReplaysWithIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.RoleUser)
	body := `{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}]}`

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/canvass", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "submit-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := send()
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, router.canvass.creates)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(testConfig())
	do(router, http.MethodGet, "/health/live", "", "")

	rec := do(router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
