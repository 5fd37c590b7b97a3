package handler

import (
	"net/http"

	"pixelminds/internal/app/post"
	"pixelminds/internal/app/user"
	"pixelminds/internal/pkg/auth/session"
	"pixelminds/internal/pkg/errs"
	"pixelminds/internal/pkg/req"
	"pixelminds/internal/pkg/resp"
)

type UpdateProfileInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

// HandleGetProfile returns the viewer's identity and their posts, newest first.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := session.IdentityFromContext(r.Context())

		posts, err := deps.API.ListPosts(r.Context())
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user":  identity,
			"posts": views(post.SortNewest(post.ByAuthor(posts, identity.ID))),
		})
	}
}

// HandleUpdateProfile saves the viewer's profile. The token keeps the old name until the
// next login or refresh.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := session.IdentityFromContext(r.Context())

		var input UpdateProfileInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, err := deps.API.UpdateProfile(r.Context(), user.Profile{
			ID:       identity.ID,
			Fullname: input.Fullname,
			Email:    input.Email,
			Location: input.Location,
			Phone:    input.Phone,
		})
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}
