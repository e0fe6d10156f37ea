package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aquadesk/aquadesk-backend/api/controllers"
	"github.com/aquadesk/aquadesk-backend/api/middleware"
	"github.com/aquadesk/aquadesk-backend/internal/audit"
	"github.com/aquadesk/aquadesk-backend/internal/calls"
	"github.com/aquadesk/aquadesk-backend/internal/customers"
	"github.com/aquadesk/aquadesk-backend/internal/orders"
	"github.com/aquadesk/aquadesk-backend/pkg/config"
	"github.com/aquadesk/aquadesk-backend/pkg/enums"
	"github.com/aquadesk/aquadesk-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DBPinger         controllers.Pinger
	RedisPinger      controllers.Pinger
	MetricsGatherer  prometheus.Gatherer
	OrdersService    orders.Service
	CustomersService customers.Service
	CallsService     calls.Service
	AuditService     audit.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.OrdersService, logg))
			r.Get("/", controllers.OrderList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.Patch("/{orderId}", controllers.OrderUpdate(deps.OrdersService, logg))
			r.Post("/{orderId}/deliver", controllers.OrderDeliver(deps.OrdersService, logg))
			r.Post("/{orderId}/revert-delivery", controllers.OrderRevertDelivery(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.OrdersService, logg))
			r.Delete("/{orderId}", controllers.OrderSoftDelete(deps.OrdersService, logg))
			r.Post("/{orderId}/restore", controllers.OrderRestore(deps.OrdersService, logg))
			r.Get("/{orderId}/audit", controllers.OrderAuditTrail(deps.AuditService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomerCreate(deps.CustomersService, logg))
			r.Get("/", controllers.CustomerList(deps.CustomersService, logg))
			r.With(middleware.RequireRoles(logg, enums.StaffRoleAdmin)).
				Post("/phones/renormalize", controllers.CustomerRenormalizePhones(deps.CustomersService, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(deps.CustomersService, logg))
			r.Patch("/{customerId}", controllers.CustomerUpdate(deps.CustomersService, logg))
			r.With(middleware.RequireRoles(logg, enums.StaffRoleAdmin)).
				Delete("/{customerId}", controllers.CustomerSoftDelete(deps.CustomersService, logg))
			r.Post("/{customerId}/phones", controllers.CustomerAddPhone(deps.CustomersService, logg))
			r.Delete("/{customerId}/phones/{phoneId}", controllers.CustomerRemovePhone(deps.CustomersService, logg))
			r.Get("/{customerId}/audit", controllers.CustomerLedger(deps.AuditService, logg))
		})

		r.Route("/calls", func(r chi.Router) {
			r.Post("/", controllers.CallIngest(deps.CallsService, logg))
			r.Get("/", controllers.CallList(deps.CallsService, logg))
			r.Get("/match", controllers.CallMatch(deps.CallsService, logg))
		})
	})

	return r
}
