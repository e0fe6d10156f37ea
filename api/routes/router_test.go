package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aquadesk/aquadesk-backend/internal/audit"
	"github.com/aquadesk/aquadesk-backend/internal/calls"
	"github.com/aquadesk/aquadesk-backend/internal/customers"
	"github.com/aquadesk/aquadesk-backend/internal/orders"
	pkgAuth "github.com/aquadesk/aquadesk-backend/pkg/auth"
	"github.com/aquadesk/aquadesk-backend/pkg/config"
	"github.com/aquadesk/aquadesk-backend/pkg/db/models"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
	"github.com/aquadesk/aquadesk-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	return &models.Order{}, nil
}

func (stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrdersService) List(ctx context.Context, filter orders.ListFilter, params pagination.Params) ([]models.Order, string, error) {
	return []models.Order{}, "", nil
}

func (stubOrdersService) Update(ctx context.Context, id uuid.UUID, input orders.UpdateOrderInput) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrdersService) Deliver(ctx context.Context, id uuid.UUID, input orders.DeliverInput) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrdersService) RevertDelivery(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrdersService) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrdersService) SoftDelete(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

func (stubOrdersService) Restore(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: id}, nil
}

type stubCustomersService struct{}

func (stubCustomersService) Create(ctx context.Context, input customers.CreateCustomerInput) (*models.Customer, error) {
	return &models.Customer{}, nil
}

func (stubCustomersService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (stubCustomersService) List(ctx context.Context, params pagination.Params) ([]models.Customer, string, error) {
	return []models.Customer{}, "", nil
}

func (stubCustomersService) Update(ctx context.Context, id uuid.UUID, input customers.UpdateCustomerInput) (*models.Customer, error) {
	return &models.Customer{ID: id}, nil
}

func (stubCustomersService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubCustomersService) AddPhone(ctx context.Context, customerID uuid.UUID, input customers.PhoneInput) (*models.CustomerPhone, error) {
	return &models.CustomerPhone{}, nil
}

func (stubCustomersService) RemovePhone(ctx context.Context, customerID, phoneID uuid.UUID) error {
	return nil
}

func (stubCustomersService) RenormalizePhones(ctx context.Context) (int, error) {
	return 0, nil
}

type stubCallsService struct{}

func (stubCallsService) IngestCall(ctx context.Context, input calls.IngestCallInput) (*models.CallLog, error) {
	return &models.CallLog{}, nil
}

func (stubCallsService) Match(ctx context.Context, rawNumber string) (*uuid.UUID, error) {
	return nil, nil
}

func (stubCallsService) List(ctx context.Context, params pagination.Params) ([]models.CallLog, string, error) {
	return []models.CallLog{}, "", nil
}

type stubAuditService struct{}

func (stubAuditService) Record(ctx context.Context, tx *gorm.DB, input audit.RecordEntryInput) (*models.OrderAuditLog, error) {
	return &models.OrderAuditLog{}, nil
}

func (stubAuditService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.OrderAuditLog, error) {
	return []models.OrderAuditLog{}, nil
}

func (stubAuditService) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.OrderAuditLog, string, error) {
	return []models.OrderAuditLog{}, "", nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		DBPinger:         stubPinger{},
		RedisPinger:      stubPinger{},
		OrdersService:    stubOrdersService{},
		CustomersService: stubCustomersService{},
		CallsService:     stubCallsService{},
		AuditService:     stubAuditService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.StaffRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		StaffID: uuid.New(),
		Role:    role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestHealthReadyIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestAPIGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAPIGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleDispatcher))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestCustomerDeleteRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/customers/" + uuid.NewString()

	nonAdmin := httptest.NewRequest(http.MethodDelete, target, nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleDispatcher))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestRenormalizePhonesRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodPost, "/api/v1/customers/phones/renormalize", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleDriver))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/customers/phones/renormalize", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderCreateRejectsBadJSON(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleDispatcher))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestCallMatchRequiresNumber(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/calls/match", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleDispatcher))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without number got %d", resp.Code)
	}

	withNumber := httptest.NewRequest(http.MethodGet, "/api/v1/calls/match?number=05551112233", nil)
	withNumber.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.StaffRoleDispatcher))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, withNumber)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with number got %d", resp.Code)
	}
}
