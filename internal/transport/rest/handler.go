package rest

import (
	"context"
	"net/http"
	"time"

	"angsuran-portal/internal/domain"
	"angsuran-portal/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// user-facing messages; the portal speaks Bahasa Indonesia to customers
// while diagnostics stay in the logs.
const (
	msgNotFound      = "Data pelanggan tidak ditemukan. Coba periksa kembali."
	msgLoadFailed    = "Gagal memuat data. Silakan coba lagi."
	msgBadCustomerID = "ID pelanggan tidak valid."
)

type IdentityResolver interface {
	Resolve(ctx context.Context, code string) (*domain.Customer, error)
}

type DashboardProvider interface {
	Load(ctx context.Context, customerID string) (*service.Dashboard, error)
}

type ScheduleExporter interface {
	ExportSchedule(ctx context.Context, customerID, transactionID string) (*service.ExportResult, error)
}

type Handler struct {
	resolver  IdentityResolver
	dashboard DashboardProvider
	exporter  ScheduleExporter
}

func NewHandler(resolver IdentityResolver, dashboard DashboardProvider, exporter ScheduleExporter) *Handler {
	return &Handler{
		resolver:  resolver,
		dashboard: dashboard,
		exporter:  exporter,
	}
}

// InitRouter wires the portal routes. loginLimiter guards only the login
// lookup; nil means no limiting.
func (h *Handler) InitRouter(loginLimiter func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		Success(w, "ok", nil)
	})

	if loginLimiter != nil {
		r.With(loginLimiter).Post("/login", h.login)
	} else {
		r.Post("/login", h.login)
	}

	r.Route("/customers/{customer_id}", func(r chi.Router) {
		r.Get("/dashboard", h.getDashboard)
		r.Get("/transactions/{transaction_id}/export", h.exportSchedule)
	})

	return r
}
