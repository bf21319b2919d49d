package http

import (
	"net/http"

	"github.com/atinyakov/museum/internal/common"
	"github.com/atinyakov/museum/internal/middleware"
	"github.com/atinyakov/museum/internal/server/respond"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers bundles the route handlers served by NewRouter.
type Handlers struct {
	Auth       *AuthHandler
	Categories *CategoryHandler
	Pieces     *PieceHandler
}

// NewRouter mounts the catalog API under /api.
//
// Routes:
//
//	POST   /api/auth/login         → Auth.Login (form encoded)
//	GET    /api/healthcheck
//	GET    /api/categories         → Categories.List
//	GET    /api/categories/{id}    → Categories.Get
//	POST   /api/categories         → Categories.Create  (guarded)
//	PUT    /api/categories/{id}    → Categories.Update  (guarded)
//	DELETE /api/categories/{id}    → Categories.Delete  (guarded)
//	GET    /api/pieces             → Pieces.List
//	GET    /api/pieces/{id}        → Pieces.Get
//	POST   /api/pieces             → Pieces.Create      (guarded)
//	PUT    /api/pieces/{id}        → Pieces.Update      (guarded)
//	DELETE /api/pieces/{id}        → Pieces.Delete      (guarded)
//
// guard is applied to every mutating route, which also only accept JSON bodies.
func NewRouter(h Handlers, guard func(http.Handler) http.Handler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthcheck", Health)

		r.With(chiMiddleware.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data")).
			Post("/auth/login", h.Auth.Login)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Get("/{id}", h.Categories.Get)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/", h.Categories.Create)
				r.Put("/{id}", h.Categories.Update)
				r.Delete("/{id}", h.Categories.Delete)
			})
		})

		r.Route("/pieces", func(r chi.Router) {
			r.Get("/", h.Pieces.List)
			r.Get("/{id}", h.Pieces.Get)

			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Use(chiMiddleware.AllowContentType("application/json"))
				r.Post("/", h.Pieces.Create)
				r.Put("/{id}", h.Pieces.Update)
				r.Delete("/{id}", h.Pieces.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusNotFound, respond.ErrorBody{Kind: common.KindNotFound, Detail: "route not found"})
	})

	return r
}
