package main

import (
	"net/http"
	"os"
	"strings"

	"PageSchedulerAPI/config"
	"PageSchedulerAPI/database"
	"PageSchedulerAPI/handlers"
	"PageSchedulerAPI/metrics"
	"PageSchedulerAPI/middleware"
	"PageSchedulerAPI/publishers"
	"PageSchedulerAPI/services"
	"PageSchedulerAPI/utils"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()
	utils.SetLogLevel(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		utils.Errorf("failed to open store: %v", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	fb := publishers.NewFacebookClient(cfg.FacebookVersion, nil)
	openai := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, collector)

	users := services.NewUserService(store)
	posts := services.NewPostService(store, users, fb, openai, collector)
	authService := services.NewAuthService(cfg, store, users, fb)
	oauthStateService := services.NewOAuthStateService()

	sweeper := services.NewSweeper(store, collector)
	sweeper.Start()
	defer sweeper.Stop()

	handler := handlers.NewHandler(posts, users, authService, openai, oauthStateService)

	r := setupRoutes(handler, authService, collector)

	utils.Infof("server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		utils.Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

// openStore connects to Postgres when DATABASE_URL is set and falls back to
// the in-memory store otherwise, which is enough for local development.
func openStore(cfg *config.Config) (database.Store, error) {
	if cfg.DatabaseURL == "" {
		utils.Warnf("DATABASE_URL not set, using in-memory store")
		return database.NewMemoryStore(), nil
	}
	return database.NewDatabase(cfg.DatabaseURL)
}

func setupRoutes(h *handlers.Handler, authService *services.AuthService, collector *metrics.Collector) *mux.Router {
	r := mux.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = allowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.BodyLimit(64 << 10))
	r.Use(middleware.NewRateLimiter(20, 40).Limit())

	// Public routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.Handle("/metrics", collector.Handler()).Methods("GET")

	// OAuth flow. The login entry point carries its own stricter limiter.
	loginLimiter := middleware.NewRateLimiter(1, 5)
	r.HandleFunc("/auth/facebook", loginLimiter.LimitHandler(h.InitiateFacebookLogin)).Methods("GET")
	r.HandleFunc("/auth/facebook/callback", h.HandleFacebookCallback).Methods("GET")
	r.HandleFunc("/oauth/success", h.OAuthSuccessPage).Methods("GET")
	r.HandleFunc("/oauth/error", h.OAuthErrorPage).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(authService))

	protected.HandleFunc("/me", h.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/pages", h.GetPages).Methods("GET")
	protected.HandleFunc("/pages/refresh", h.RefreshPages).Methods("POST")

	protected.HandleFunc("/posts", h.CreatePost).Methods("POST")
	protected.HandleFunc("/posts", h.GetPosts).Methods("GET")
	protected.HandleFunc("/posts/{id}", h.GetPost).Methods("GET")
	protected.HandleFunc("/posts/{id}", h.CancelPost).Methods("DELETE")

	protected.HandleFunc("/content/variations", h.GenerateVariations).Methods("POST")
	protected.HandleFunc("/content/analyze", h.AnalyzeContent).Methods("POST")

	// Logout needs the session claims, so it sits behind auth.
	protected.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	return r
}

func allowedOrigins() []string {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{"http://localhost:3000"}
}
