// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rations/internal/app"
	"rations/internal/domain"
	"rations/internal/metrics"
)

// Services bundles the application services the adapter drives.
type Services struct {
	Auth          *app.AuthService
	Ledger        *app.StockLedger
	Distributions *app.DistributionService
	Complaints    *app.ComplaintService
	Directory     *app.DirectoryService
	Dashboards    *app.DashboardService
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth          *app.AuthService
	ledger        *app.StockLedger
	distributions *app.DistributionService
	complaints    *app.ComplaintService
	directory     *app.DirectoryService
	dashboards    *app.DashboardService

	logger     *slog.Logger
	metrics    *metrics.Metrics
	sessionTTL time.Duration
}

// New creates a Server wired to the given application services. m may be nil.
func New(svc Services, logger *slog.Logger, m *metrics.Metrics, sessionTTL time.Duration) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if sessionTTL <= 0 {
		sessionTTL = app.DefaultSessionTTL
	}
	return &Server{
		auth:          svc.Auth,
		ledger:        svc.Ledger,
		distributions: svc.Distributions,
		complaints:    svc.Complaints,
		directory:     svc.Directory,
		dashboards:    svc.Dashboards,
		logger:        logger,
		metrics:       m,
		sessionTTL:    sessionTTL,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(s.loggingMiddleware)
	r.Use(withNoCache)

	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/entitlement", s.handleEntitlement)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/session", s.handleSession)
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/stocks", s.handleListStocks)
			r.Get("/distributions", s.handleListDistributions)
			r.Get("/complaints", s.handleListComplaints)

			r.Get("/complaints/{complaintID}", s.handleGetComplaint)
			r.Get("/beneficiaries/{beneficiaryID}/history", s.handleHistory)

			r.With(requireRole(domain.RoleDealer, domain.RoleAdmin)).Get("/beneficiaries", s.handleListBeneficiaries)
			r.With(requireRole(domain.RoleAdmin)).Get("/shops", s.handleListShops)

			r.Route("/shops/{shopID}", func(r chi.Router) {
				r.Get("/stock", s.handleGetStock)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(domain.RoleDealer), s.requireOwnShop)
					r.Put("/stock", s.handleSetStock)
					r.Post("/stock/adjust", s.handleAdjustStock)
					r.Post("/distributions", s.handleDistribute)
				})
			})

			r.With(requireRole(domain.RoleBeneficiary)).Post("/complaints", s.handleFileComplaint)
			r.With(requireRole(domain.RoleAdmin)).Post("/complaints/{complaintID}/resolve", s.handleResolveComplaint)
		})
	})

	return r
}

// scope narrows a listing filter to what the session may see. Beneficiaries
// see their own records, dealers their own shop, admins everything.
func scope(sess *domain.Session, f domain.Filter) (domain.Filter, error) {
	switch p := sess.Principal.(type) {
	case domain.BeneficiaryPrincipal:
		if f.BeneficiaryID != 0 && f.BeneficiaryID != p.Beneficiary.ID {
			return f, errForbidden
		}
		if f.ShopID != 0 && f.ShopID != p.Beneficiary.ShopID {
			return f, errForbidden
		}
		f.BeneficiaryID = p.Beneficiary.ID
	case domain.DealerPrincipal:
		if f.ShopID != 0 && f.ShopID != p.Shop.ID {
			return f, errForbidden
		}
		f.ShopID = p.Shop.ID
	case domain.AdminPrincipal:
	default:
		return f, errUnauthorized
	}
	return f, nil
}

// listFilter reads shopId, beneficiaryId and status from the query string and
// scopes them to the session.
func listFilter(r *http.Request) (domain.Filter, error) {
	var (
		f   domain.Filter
		err error
	)
	if f.ShopID, err = idQuery(r, "shopId"); err != nil {
		return f, err
	}
	if f.BeneficiaryID, err = idQuery(r, "beneficiaryId"); err != nil {
		return f, err
	}
	f.Status = domain.ComplaintStatus(r.URL.Query().Get("status"))
	return scope(sessionFrom(r.Context()), f)
}
