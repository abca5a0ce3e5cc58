package http

import (
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the controllers and cross-cutting dependencies the router wires together.
type RouterConfig struct {
	Logger           *slog.Logger
	EventController  *controllers.EventController
	AuthController   *controllers.AuthController
	HealthController *controllers.HealthController
	TokenVerifier    domain.TokenVerifier
	AllowedOrigins   []string
}

// NewRouter initializes the HTTP router with all application routes.
// The returned handler applies CORS and request logging to every route.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(cfg.TokenVerifier, cfg.Logger)

	// Events
	mux.HandleFunc("GET /events", cfg.EventController.ListEvents)
	mux.HandleFunc("GET /events/upcoming", cfg.EventController.ListUpcomingEvents)
	mux.HandleFunc("GET /events/{eventID}", cfg.EventController.GetEventByID)
	mux.HandleFunc("GET /organisers/{organiserID}/events", cfg.EventController.ListOrganiserEvents)
	mux.HandleFunc("POST /events", requireAuth(cfg.EventController.CreateEvent))

	// Auth
	mux.HandleFunc("POST /auth/signup", cfg.AuthController.SignUp)
	mux.HandleFunc("POST /auth/login", cfg.AuthController.Login)

	mux.HandleFunc("GET /health", cfg.HealthController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
