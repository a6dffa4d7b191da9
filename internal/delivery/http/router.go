package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"guestlist/internal/delivery/http/controllers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting collaborators the
// router wires together.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	AllowedOrigins []string

	Auth        *controllers.AuthController
	Events      *controllers.EventController
	MenuItems   *controllers.MenuItemController
	RSVPs       *controllers.RSVPController
	Invitations *controllers.InvitationController
	Images      *controllers.ImageController
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it in the CORS, logging, and metrics middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Events (organizer)
	mux.HandleFunc("POST /events", auth(cfg.Events.CreateEvent))
	mux.HandleFunc("GET /events", auth(cfg.Events.ListMyEvents))
	mux.HandleFunc("PUT /events/{eventID}", auth(cfg.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(cfg.Events.DeleteEvent))
	mux.HandleFunc("GET /events/{eventID}/edit", auth(cfg.Events.GetEventForEdit))
	mux.HandleFunc("GET /events/{eventID}/rsvps", auth(cfg.Events.ListEventRSVPs))

	// Menu items (plates manager)
	mux.HandleFunc("GET /menu-items", auth(cfg.MenuItems.ListMyMenuItems))
	mux.HandleFunc("PATCH /menu-items/{itemID}", auth(cfg.MenuItems.UpdateMenuItem))

	// Events (public)
	mux.HandleFunc("GET /events/{eventID}", cfg.Events.GetEvent)
	mux.HandleFunc("POST /events/{eventID}/rsvps", cfg.RSVPs.SubmitRSVP)

	// Invitations
	mux.HandleFunc("GET /events/{eventID}/invitations", auth(cfg.Invitations.ListLinks))
	mux.HandleFunc("POST /events/{eventID}/invitations/email", auth(cfg.Invitations.EmailInvitations))

	// Images
	mux.HandleFunc("POST /images", auth(cfg.Images.Upload))

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return handler
}
