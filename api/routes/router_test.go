package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gentlecorp/inventory-service/internal/auth"
	"github.com/gentlecorp/inventory-service/internal/inventory"
	"github.com/gentlecorp/inventory-service/internal/products"
	pkgAuth "github.com/gentlecorp/inventory-service/pkg/auth"
	"github.com/gentlecorp/inventory-service/pkg/config"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	"github.com/gentlecorp/inventory-service/pkg/logger"
)

type stubInventoryService struct {
	created   *inventory.InventoryDTO
	gotBearer string
}

func (s *stubInventoryService) Create(ctx context.Context, input inventory.CreateInventoryInput) (*inventory.InventoryDTO, error) {
	s.gotBearer = products.BearerFromContext(ctx)
	dto := &inventory.InventoryDTO{
		ID:        uuid.New(),
		SkuCode:   "ACM-WID-123",
		Quantity:  input.Quantity,
		UnitPrice: input.UnitPrice,
		Status:    enums.InventoryStatusAvailable,
		ProductID: input.ProductID,
	}
	s.created = dto
	return dto, nil
}

func (s *stubInventoryService) GetByID(ctx context.Context, id uuid.UUID, ifNoneMatch string) (*inventory.InventoryDTO, error) {
	return &inventory.InventoryDTO{ID: id, SkuCode: "ACM-WID-123"}, nil
}

func (s *stubInventoryService) GetBySkuCode(ctx context.Context, skuCode string) (*inventory.InventoryDTO, error) {
	return &inventory.InventoryDTO{ID: uuid.New(), SkuCode: skuCode}, nil
}

func (s *stubInventoryService) List(ctx context.Context, input inventory.ListInput) (*inventory.ListResult, error) {
	return &inventory.ListResult{Items: []inventory.InventoryDTO{}}, nil
}

func (s *stubInventoryService) Update(ctx context.Context, id uuid.UUID, versionToken string, patch inventory.UpdateInventoryInput) (*inventory.InventoryDTO, error) {
	return &inventory.InventoryDTO{ID: id, Version: 1}, nil
}

func (s *stubInventoryService) Delete(ctx context.Context, id uuid.UUID, versionToken string) error {
	return nil
}

func (s *stubInventoryService) Reserve(ctx context.Context, id uuid.UUID, input inventory.ReserveInput) (*inventory.ReservationDTO, error) {
	return &inventory.ReservationDTO{ID: uuid.New(), InventoryID: id, Quantity: input.Quantity, Username: input.Username}, nil
}

func (s *stubInventoryService) ListReservations(ctx context.Context, id uuid.UUID) ([]inventory.ReservationDTO, error) {
	return []inventory.ReservationDTO{}, nil
}

type stubAuthService struct{}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{AccessToken: "stub-token"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret-router-test-secret",
			Issuer:            "inventory-service-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	handler := NewRouter(RouterParams{
		Config:           cfg,
		Logger:           logger.New(logger.Options{ServiceName: "router-test"}),
		AuthService:      &stubAuthService{},
		InventoryService: &stubInventoryService{},
	})
	return handler, cfg
}

func mintToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "tester",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from live, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Inventory-Env"); got != "test" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestInventoryRequiresAuth(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestInventoryRoleGates(t *testing.T) {
	t.Parallel()

	handler, cfg := newTestRouter(t)
	userToken := mintToken(t, cfg, enums.RoleUser)
	adminToken := mintToken(t, cfg, enums.RoleAdmin)

	// Reads are open to any authenticated principal.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for authenticated list, got %d", rec.Code)
	}

	// Creation is open to both roles.
	body := `{"product_id":"` + uuid.NewString() + `","quantity":5,"unit_price":9.99}`
	for _, token := range []string{userToken, adminToken} {
		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 for create, got %d: %s", rec.Code, rec.Body.String())
		}
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/api/v1/inventory/") {
		t.Fatalf("expected Location header, got %q", loc)
	}
	if etag := rec.Header().Get("ETag"); etag != `"0"` {
		t.Fatalf("expected fresh ETag, got %q", etag)
	}

	// Updates are open to both roles as well.
	id := uuid.NewString()
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPatch, "/api/v1/inventory/"+id, strings.NewReader(`{"quantity":7}`))
	req.Header.Set("Authorization", "Bearer "+userToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("If-Match", `"0"`)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for user update, got %d: %s", rec.Code, rec.Body.String())
	}

	// Deletion stays admin-only.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/inventory/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	req.Header.Set("If-Match", `"0"`)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/inventory/"+id, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set("If-Match", `"0"`)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin delete, got %d", rec.Code)
	}
}

func TestCreateForwardsBearerToCatalog(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	svc := &stubInventoryService{}
	handler := NewRouter(RouterParams{
		Config:           cfg,
		Logger:           logger.New(logger.Options{ServiceName: "router-test"}),
		AuthService:      &stubAuthService{},
		InventoryService: svc,
	})
	token := mintToken(t, cfg, enums.RoleAdmin)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":5,"unit_price":9.99}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotBearer != token {
		t.Fatalf("catalog lookup must run on the caller's token, got %q", svc.gotBearer)
	}
}

func TestReserveOpenToUsers(t *testing.T) {
	t.Parallel()

	handler, cfg := newTestRouter(t)
	userToken := mintToken(t, cfg, enums.RoleUser)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inventory/"+uuid.NewString()+"/reserve", strings.NewReader(`{"quantity":3}`))
	req.Header.Set("Authorization", "Bearer "+userToken)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for reserve, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Data struct {
			Username string `json:"username"`
			Quantity int    `json:"quantity"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Data.Username != "tester" || payload.Data.Quantity != 3 {
		t.Fatalf("reservation must carry the authenticated principal: %+v", payload.Data)
	}
}

func TestAdminRegisterGate(t *testing.T) {
	t.Parallel()

	handler, cfg := newTestRouter(t)
	userToken := mintToken(t, cfg, enums.RoleUser)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", strings.NewReader(`{"username":"newuser","role":"USER"}`))
	req.Header.Set("Authorization", "Bearer "+userToken)
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin register, got %d", rec.Code)
	}
}

func TestLoginRoute(t *testing.T) {
	t.Parallel()

	handler, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"tester","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "stub-token") {
		t.Fatalf("expected stub token in body: %s", rec.Body.String())
	}
}
