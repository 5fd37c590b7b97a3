package handler

import (
	"net/http"

	"pixelminds/internal/pkg/auth/session"
	"pixelminds/internal/pkg/errs"
	"pixelminds/internal/pkg/logx"
	"pixelminds/internal/pkg/resp"
)

// RequireSession lets a request through only with a valid session. An expired or
// undecodable token is evicted; either way the caller is told to go to the login view.
func RequireSession(deps *AppDeps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := deps.Session.Check(r.Context())
			if err != nil {
				resp.RespondRedirect(w, r, errs.From(err), session.LoginRoute)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin hides admin views from non-admin identities. It is a display gate only;
// the API enforces the actual permission.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := session.IdentityFromContext(r.Context())
		if !identity.IsAdmin() {
			logx.Warn("admin view requested by non-admin", "path", r.URL.Path)
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		next.ServeHTTP(w, r)
	})
}
