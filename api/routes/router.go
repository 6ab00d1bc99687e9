package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/memberhub/memberhub-backend/api/controllers"
	"github.com/memberhub/memberhub-backend/api/middleware"
	"github.com/memberhub/memberhub-backend/internal/auth"
	"github.com/memberhub/memberhub-backend/internal/content"
	"github.com/memberhub/memberhub-backend/internal/identity"
	"github.com/memberhub/memberhub-backend/internal/packages"
	"github.com/memberhub/memberhub-backend/internal/users"
	"github.com/memberhub/memberhub-backend/pkg/config"
	"github.com/memberhub/memberhub-backend/pkg/kv"
	"github.com/memberhub/memberhub-backend/pkg/logger"
	"github.com/memberhub/memberhub-backend/pkg/metrics"
)

// RouterParams groups everything the HTTP surface needs.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    kv.Store
	Verifier identity.TokenVerifier
	Auth     auth.Service
	Users    users.Service
	Packages packages.Service
	Content  content.Service
	Metrics  *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.Metrics(p.Metrics),
		middleware.CORS(p.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.Store))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/init", controllers.Init(p.Packages, p.Logger))
		r.Post("/signup", controllers.Signup(p.Auth, p.Logger))
		r.Post("/signup-google", controllers.GoogleSignup(p.Auth, p.Logger))
		r.Post("/login", controllers.Login(p.Auth, p.Logger))
		r.Post("/logout", controllers.Logout(p.Auth, p.Logger))
		r.Get("/packages", controllers.ListPackages(p.Packages, p.Logger))
		r.Get("/content", controllers.ListContent(p.Content, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Verifier, p.Logger))

			r.Get("/user", controllers.GetUser(p.Users, p.Logger))
			r.Put("/user", controllers.UpdateUser(p.Users, p.Logger))
			r.Post("/settings", controllers.SaveSettings(p.Users, p.Logger))
			r.Post("/subscribe", controllers.Subscribe(p.Users, p.Logger))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(p.Verifier, p.Logger))
			r.Use(middleware.RequireAdmin(p.Logger))

			r.Get("/users", controllers.AdminListUsers(p.Users, p.Logger))
			r.Put("/user/{id}", controllers.AdminUpdateUser(p.Users, p.Logger))
			r.Delete("/user/{id}", controllers.AdminDeleteUser(p.Users, p.Logger))
			r.Post("/package", controllers.AdminUploadPackage(p.Packages, p.Logger))
			r.Post("/content", controllers.AdminPublishContent(p.Content, p.Logger))
			r.Delete("/content/{id}", controllers.AdminDeleteContent(p.Content, p.Logger))
		})
	})

	return r
}
