package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"shop-platform/internal/config"
	"shop-platform/internal/handler"
	"shop-platform/internal/middleware"
	"shop-platform/internal/tenant"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Shop   *handler.ShopHandler
	Health *handler.HealthHandler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	resolver *tenant.Resolver,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	// Host-based rewrite must run before routing so subdomain roots land
	// on the shop route.
	r.Use(resolver.Rewrite)

	r.Get("/", h.Health.Root)
	r.Get("/health", h.Health.Health)

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/signup", h.Auth.Signup)
		auth.Post("/login", h.Auth.Login)
		auth.Post("/logout", h.Auth.Logout)
		auth.With(authMiddleware.RequireAuth).Get("/validate", h.Auth.Validate)
	})

	r.With(authMiddleware.RequireAuth).Get("/user/profile", h.User.Profile)

	r.Get("/shop/{shopName}", h.Shop.Page)

	return r
}
