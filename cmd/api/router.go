package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bentossell/rewriter-cursor/internal/config"
	"github.com/bentossell/rewriter-cursor/internal/handler"
	"github.com/bentossell/rewriter-cursor/internal/middleware"
	"github.com/bentossell/rewriter-cursor/internal/web"
)

// accountService is what the router needs from service.AccountService.
type accountService interface {
	handler.AccountService
	middleware.Authenticator
}

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	accounts accountService
	rewrites handler.RewriteService
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	h := handler.New(d.logger)
	authHandler := handler.NewAuthHandler(d.accounts, handler.CookieConfig{
		Name:   d.cfg.SessionCookieName,
		Secure: d.cfg.IsProduction(),
	}, d.logger)
	rewriteHandler := handler.NewRewriteHandler(d.rewrites, d.logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = d.cfg.IsDevelopment()

	sessionCfg := middleware.SessionConfig{
		Logger:        d.logger,
		Authenticator: d.accounts,
		CookieName:    d.cfg.SessionCookieName,
	}
	requireSession := middleware.RequireSession(sessionCfg)
	validID := middleware.ValidateIDParam("id", "Rewrite not found")

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(securityCfg))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	// Browser UI
	r.Get("/", web.Index())
	r.Handle("/static/*", web.Assets())

	r.Route("/api", func(r chi.Router) {
		r.Get("/modes", h.Modes)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.With(middleware.OptionalSession(sessionCfg)).Get("/session", authHandler.Session)
			r.With(requireSession).Post("/signout", authHandler.SignOut)
			r.With(requireSession).Post("/signout-all", authHandler.SignOutAll)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Post("/rewrite", rewriteHandler.Generate)

			r.Route("/rewrites", func(r chi.Router) {
				r.Post("/", rewriteHandler.Save)
				r.Get("/", rewriteHandler.List)
				r.With(validID).Get("/{id}", rewriteHandler.Get)
				r.With(validID).Patch("/{id}", rewriteHandler.Edit)
			})
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
