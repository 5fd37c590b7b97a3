/*
Package handler provides the HTTP handlers and routing of the PixelMinds companion server.

The server fronts the PixelMinds API for a local client: it owns the session token and
exposes the pages of the blog (home feed, my blog, profile, admin) as JSON routes.
Routes under /api other than /api/auth sit behind the session guard.
*/
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"pixelminds/internal/app/api"
	"pixelminds/internal/pkg/limiter"
	"pixelminds/internal/pkg/logx"
	"pixelminds/internal/pkg/randx"
	"pixelminds/internal/pkg/resp"
)

const requestIDHeader = "X-Request-ID"

// Router builds the routing table. ctx bounds background work such as the rate limiter sweep.
func Router(ctx context.Context, deps *AppDeps) http.Handler {
	loginLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(deps.Config.LoginRate), deps.Config.LoginBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":        "ok",
			"service":       "PixelMinds",
			"authenticated": deps.Session.IsAuthenticated(r.Context()),
		})
	})

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Route("/auth", func(auth chi.Router) {
			auth.With(loginLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/logout", HandleLogout(deps))
			auth.Post("/refresh", HandleRefresh(deps))
			auth.Get("/session", HandleSession(deps))
		})

		apiRouter.Group(func(guarded chi.Router) {
			guarded.Use(RequireSession(deps))

			guarded.Get("/posts", HandleListPosts(deps))
			guarded.Post("/posts", HandleCreatePost(deps))
			guarded.Put("/posts/{id}", HandleUpdatePost(deps))
			guarded.Delete("/posts/{id}", HandleDeletePost(deps))

			guarded.Get("/myblog", HandleMyBlog(deps))

			guarded.Get("/profile", HandleGetProfile(deps))
			guarded.Put("/profile", HandleUpdateProfile(deps))

			guarded.Route("/admin", func(admin chi.Router) {
				admin.Use(RequireAdmin)
				admin.Get("/posts", HandleAdminListPosts(deps))
				admin.Post("/posts", HandleCreateAdminPost(deps))
			})
		})
	})

	return r
}

// requestID reuses a well-formed incoming X-Request-ID or assigns a new one, and makes the
// API client forward it upstream.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if !randx.IsValidRequestID(id) {
			id = randx.RequestID()
		}

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		ctx = api.ContextWithRequestID(ctx, id)

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
