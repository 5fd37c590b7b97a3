package handler

import (
	"net/http"
	"strings"
	"time"

	"pixelminds/internal/app/post"
	"pixelminds/internal/pkg/auth/session"
	"pixelminds/internal/pkg/errs"
	"pixelminds/internal/pkg/req"
	"pixelminds/internal/pkg/resp"
)

// excerptLength is the length post content is cut to in list views.
const excerptLength = 150

type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// postView is a post as shown in a list, with its content excerpt.
type postView struct {
	post.Post
	Excerpt string `json:"excerpt"`
}

func views(posts []post.Post) []postView {
	out := make([]postView, 0, len(posts))
	for _, p := range posts {
		out = append(out, postView{Post: p, Excerpt: post.Truncate(p.Content, excerptLength)})
	}
	return out
}

// HandleListPosts serves the home feed: posts visible to the viewer, newest first, narrowed
// by the optional q (title or tags), author and month query parameters.
func HandleListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, customErr := req.QueryMonth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		posts, err := deps.API.ListPosts(r.Context())
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		query := r.URL.Query()
		posts = post.VisibleTo(posts, session.IdentityFromContext(r.Context()))
		posts = post.Search(posts, query.Get("q"))
		posts = post.ByAuthorName(posts, query.Get("author"))
		if month > 0 {
			posts = post.ByMonth(posts, time.Month(month))
		}

		resp.RespondSuccess(w, r, views(post.SortNewest(posts)))
	}
}

// HandleMyBlog lists the viewer's own posts, optionally for one calendar month.
func HandleMyBlog(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month, customErr := req.QueryMonth(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		posts, err := deps.API.ListPosts(r.Context())
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		identity := session.IdentityFromContext(r.Context())
		posts = post.ByAuthor(posts, identity.ID)
		if month > 0 {
			posts = post.ByMonth(posts, time.Month(month))
		}

		resp.RespondSuccess(w, r, views(post.SortNewest(posts)))
	}
}

// HandleAdminListPosts lists every post, newest first.
func HandleAdminListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := deps.API.ListPosts(r.Context())
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}
		resp.RespondSuccess(w, r, views(post.SortNewest(posts)))
	}
}

func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
	return handleSubmitPost(deps, false)
}

func HandleCreateAdminPost(deps *AppDeps) http.HandlerFunc {
	return handleSubmitPost(deps, true)
}

func handleSubmitPost(deps *AppDeps, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draft, customErr := bindDraft(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		submit := deps.API.CreatePost
		if admin {
			submit = deps.API.CreateAdminPost
		}

		result, err := submit(r.Context(), draft)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// HandleUpdatePost edits post {id}.
func HandleUpdatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		draft, customErr := bindDraft(w, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, err := deps.API.UpdatePost(r.Context(), id, draft)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// HandleDeletePost removes post {id}.
func HandleDeletePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		result, err := deps.API.DeletePost(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, errs.From(err))
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// bindDraft reads a PostInput and attributes it to the viewer.
func bindDraft(w http.ResponseWriter, r *http.Request) (post.Draft, *errs.CustomError) {
	var input PostInput
	if customErr := req.BindJSON(w, r, &input); customErr != nil {
		return post.Draft{}, customErr
	}

	if strings.TrimSpace(input.Content) == "" {
		return post.Draft{}, errs.NewError(errs.ErrPostContentRequired)
	}

	return post.Draft{
		Title:    input.Title,
		Content:  input.Content,
		Tags:     input.Tags,
		AuthorID: session.IdentityFromContext(r.Context()).ID,
	}, nil
}
