package api

import (
	"log/slog"

	"github.com/avolkov/orderhub/internal/api/handlers"
	"github.com/avolkov/orderhub/internal/api/middleware"
	"github.com/avolkov/orderhub/internal/auth"
	"github.com/avolkov/orderhub/internal/catalog"
	"github.com/avolkov/orderhub/internal/database/models"
	"github.com/avolkov/orderhub/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	AsynqClient    *asynq.Client
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	catalogService := catalog.NewService(cfg.DB, cfg.Logger)
	orderService := orders.NewService(cfg.DB, cfg.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.AsynqClient, cfg.Logger)
	contactHandler := handlers.NewContactHandler(cfg.DB)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	basketHandler := handlers.NewBasketHandler(orderService)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.AsynqClient, cfg.Logger)
	partnerHandler := handlers.NewPartnerHandler(catalogService, orderService, cfg.AsynqClient)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/confirm", authHandler.Confirm)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/password-reset", authHandler.PasswordReset)
		r.Post("/auth/password-reset/confirm", authHandler.PasswordResetConfirm)

		// Public catalog browsing
		r.Get("/categories", catalogHandler.Categories)
		r.Get("/shops", catalogHandler.Shops)
		r.Get("/products", catalogHandler.Products)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			// Account endpoints
			r.Get("/me", authHandler.Me)
			r.Put("/me", authHandler.UpdateMe)

			// Contacts endpoints
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", contactHandler.List)
				r.Post("/", contactHandler.Create)
				r.Put("/{id}", contactHandler.Update)
				r.Delete("/{id}", contactHandler.Delete)
			})

			// Basket endpoints
			r.Route("/basket", func(r chi.Router) {
				r.Get("/", basketHandler.Get)
				r.Post("/items", basketHandler.AddItem)
				r.Put("/items/{id}", basketHandler.UpdateItem)
				r.Delete("/items/{id}", basketHandler.RemoveItem)
			})

			// Orders endpoints
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Post("/", orderHandler.Submit)
				r.Get("/{id}", orderHandler.Get)
				r.With(middleware.RequireStaff(cfg.DB)).Put("/{id}/state", orderHandler.SetState)
			})

			// Partner endpoints (shop accounts only)
			r.Route("/partner", func(r chi.Router) {
				r.Use(middleware.RequireType(models.UserTypeShop))
				r.Post("/update", partnerHandler.Update)
				r.Get("/orders", partnerHandler.Orders)
			})
		})
	})

	return &Router{r}
}
