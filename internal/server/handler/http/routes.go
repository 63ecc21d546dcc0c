package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/jayakumar9/atlas-account-vault/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// vault API. Authentication endpoints and the status probe are public;
// everything under /api/accounts requires a bearer token, except the
// file-serving endpoint, which authenticates via its short-lived access
// token so generated URLs work in a plain browser.
//
// Routes:
//
//	POST /api/auth/register                       → authHandler.Register
//	POST /api/auth/login                          → authHandler.Login
//	GET  /api/auth/me                             → authHandler.Me          (bearer)
//	GET  /api/status                              → statusHandler.Status
//	GET  /api/accounts                            → accountHandler.List     (bearer)
//	POST /api/accounts                            → accountHandler.Create   (bearer)
//	GET  /api/accounts/{id}                       → accountHandler.Get      (bearer)
//	PUT  /api/accounts/{id}                       → accountHandler.Update   (bearer)
//	DELETE /api/accounts/{id}                     → accountHandler.Delete   (bearer)
//	POST /api/accounts/upload/{id}                → accountHandler.Upload   (bearer)
//	POST /api/accounts/file/{id}/generate-access  → accountHandler.GenerateAccess (bearer)
//	GET  /api/accounts/file/{id}                  → accountHandler.ServeFile (access token)
func NewRouter(
	authHandler *AuthHandler,
	accountHandler *AccountHandler,
	statusHandler *StatusHandler,
	jwtSecret []byte,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/status", statusHandler.Status)
		r.Get("/accounts/file/{id}", accountHandler.ServeFile)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(jwtSecret))

			r.Get("/auth/me", authHandler.Me)

			r.Get("/accounts", accountHandler.List)
			r.Post("/accounts", accountHandler.Create)
			r.Get("/accounts/{id}", accountHandler.Get)
			r.Put("/accounts/{id}", accountHandler.Update)
			r.Delete("/accounts/{id}", accountHandler.Delete)
			r.Post("/accounts/upload/{id}", accountHandler.Upload)
			r.Post("/accounts/file/{id}/generate-access", accountHandler.GenerateAccess)
		})
	})

	return r
}
