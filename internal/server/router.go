package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Barmakyy/logistics-app/internal/config"
	"github.com/Barmakyy/logistics-app/internal/domain"
	"github.com/Barmakyy/logistics-app/internal/handler"
	"github.com/Barmakyy/logistics-app/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health        handler.HealthHandler
	Auth          handler.AuthHandler
	ProfileUpload handler.ProfileUploadHandler
	Shipments     handler.ShipmentHandler
	Customers     handler.CustomerHandler
	Agents        handler.AgentHandler
	Payments      handler.PaymentHandler
	Messages      handler.MessageHandler
	Notifications handler.NotificationHandler
	Settings      handler.SettingsHandler
	Dashboard     handler.DashboardHandler
	Portal        handler.CustomerPortalHandler
}

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config, logger *slog.Logger, users repository.UserRepository, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	r.Method("GET", "/metrics", promhttp.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	r.Route("/api", func(api chi.Router) {
		h.Health.RegisterRoutes(api)
		h.Auth.RegisterRoutes(api)
		h.Messages.RegisterPublicRoutes(api)
		h.Settings.RegisterPublicRoutes(api)
		h.Shipments.RegisterPublicRoutes(api)

		api.Group(func(pr chi.Router) {
			pr.Use(AuthMiddleware(cfg.JWTSecret, users))

			h.Auth.RegisterProtectedRoutes(pr)
			h.ProfileUpload.RegisterRoutes(pr)
			h.Notifications.RegisterRoutes(pr)

			pr.Group(func(ar chi.Router) {
				ar.Use(RequireRole(domain.RoleAdmin))
				h.Shipments.RegisterRoutes(ar)
				h.Customers.RegisterRoutes(ar)
				h.Agents.RegisterRoutes(ar)
				h.Payments.RegisterRoutes(ar)
				h.Messages.RegisterRoutes(ar)
				h.Settings.RegisterRoutes(ar)
				h.Dashboard.RegisterRoutes(ar)
			})

			pr.Group(func(cr chi.Router) {
				cr.Use(RequireRole(domain.RoleCustomer))
				h.Portal.RegisterRoutes(cr)
			})
		})
	})

	return r
}
