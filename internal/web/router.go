package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evhartley/fiction-passport/internal/services/auth"
	"github.com/evhartley/fiction-passport/internal/services/plan"
	"github.com/evhartley/fiction-passport/internal/services/stamp"
	"github.com/evhartley/fiction-passport/internal/web/handler"
	"github.com/evhartley/fiction-passport/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	StampService *stamp.Service
	PlanService  *plan.Service
	// StaticDir is the path to static files; empty disables them
	StaticDir string
	// AuthRatePerMinute throttles credential submissions per IP;
	// zero disables the limiter
	AuthRatePerMinute int
}

// NewRouter creates the web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	passportHandler := handler.NewPassportHandler(cfg.StampService, cfg.Logger)
	stampHandler := handler.NewStampHandler(cfg.StampService, cfg.Logger)
	mapHandler := handler.NewMapHandler(cfg.StampService, cfg.Logger)
	planHandler := handler.NewPlanHandler(cfg.PlanService, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth so the nav can reflect login state)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Credential submissions get their own subrouter so the rate
	// limiter covers exactly the guessable endpoints
	credentials := r.NewRoute().Subrouter()
	credentials.Use(flashMiddleware)
	credentials.Use(optionalAuthMiddleware)
	if cfg.AuthRatePerMinute > 0 {
		credentials.Use(middleware.RateLimit(cfg.AuthRatePerMinute))
	}
	credentials.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	credentials.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)
	protected.HandleFunc("/passport", passportHandler.Passport).Methods(http.MethodGet)
	protected.HandleFunc("/history", stampHandler.History).Methods(http.MethodGet)
	protected.HandleFunc("/pin", stampHandler.Pin).Methods(http.MethodPost)
	protected.HandleFunc("/delete_stamp", stampHandler.Delete).Methods(http.MethodPost)
	protected.HandleFunc("/map", mapHandler.Map).Methods(http.MethodGet)
	protected.HandleFunc("/plan", planHandler.PlanPage).Methods(http.MethodGet)
	protected.HandleFunc("/plan", planHandler.Plan).Methods(http.MethodPost)

	return r
}
