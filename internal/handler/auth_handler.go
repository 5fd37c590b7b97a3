package handler

import (
	"net/http"

	"pixelminds/internal/app/user"
	"pixelminds/internal/pkg/auth/jwt"
	"pixelminds/internal/pkg/errs"
	"pixelminds/internal/pkg/req"
	"pixelminds/internal/pkg/resp"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// sessionView is what the client learns about the current session.
type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	User          *jwt.Identity `json:"user"`
}

// HandleLogin exchanges credentials for a session token held by the server.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Session.IsAuthenticated(r.Context()) {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Session.Login(r.Context(), input.Email, input.Password); err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		respondSession(w, r, deps)
	}
}

// HandleRegister creates an account. The user still has to log in afterwards.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Session.IsAuthenticated(r.Context()) {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, err := deps.API.Register(r.Context(), user.Registration{
			Email:    input.Email,
			Password: input.Password,
			Fullname: input.Fullname,
		})
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{"message": result.Message})
	}
}

// HandleLogout ends the session. It succeeds without one.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Session.Logout(r.Context()); err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}
		resp.RespondSuccess(w, r, sessionView{})
	}
}

// HandleRefresh renews the session token. A failed refresh keeps the current token.
func HandleRefresh(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Session.Refresh(r.Context()); err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}
		respondSession(w, r, deps)
	}
}

// HandleSession reports the session state without modifying it.
func HandleSession(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondSession(w, r, deps)
	}
}

func respondSession(w http.ResponseWriter, r *http.Request, deps *AppDeps) {
	identity, ok := deps.Session.Identity(r.Context())
	resp.RespondSuccess(w, r, sessionView{Authenticated: ok, User: identity})
}
