package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelminds/internal/app/api"
	"pixelminds/internal/app/storage"
	"pixelminds/internal/configs"
	"pixelminds/internal/pkg/auth/jwt"
	"pixelminds/internal/pkg/auth/session"
	"pixelminds/internal/pkg/errs"
)

const postsFixture = `{"status":"success","data":[
	{"id":1,"title":"Go tips","content":"channels","tags":"go","author_id":7,"user_fullname":"Ada Lovelace","created_at":"2024-01-10 09:00:00"},
	{"id":2,"title":"Admin notice","content":"maintenance","tags":"news","author_id":1,"author_role":"admin","user_fullname":"Root","created_at":"2024-03-01 09:00:00"},
	{"id":3,"title":"Rust notes","content":"borrowing","tags":"rust","author_id":8,"user_fullname":"Grace Hopper","created_at":"2024-02-05 09:00:00"},
	{"id":4,"title":"More Go","content":"generics","tags":"go","author_id":7,"user_fullname":"Ada Lovelace","created_at":"2024-03-15 09:00:00"}
]}`

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	store    *storage.MemoryStore
	upstream *http.ServeMux
}

func newTestServer(t *testing.T, burst int) *testServer {
	t.Helper()

	upstream := http.NewServeMux()
	apiServer := httptest.NewServer(upstream)
	t.Cleanup(apiServer.Close)

	base, err := api.NewClient(api.Config{BaseURL: apiServer.URL})
	require.NoError(t, err)

	store := storage.NewMemoryStore()
	sess, err := session.New(session.Options{Store: store, API: base})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deps := &AppDeps{
		Config:  &configs.AppConfig{Environment: "test", LoginRate: 1, LoginBurst: burst},
		Session: sess,
		API:     base.WithAuthorizer(sess),
	}

	return &testServer{t: t, handler: Router(ctx, deps), store: store, upstream: upstream}
}

func (s *testServer) do(method, path, body string) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.10:4000"

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) seed(identity jwt.Identity, exp time.Time) string {
	s.t.Helper()
	token, err := jwt.Issue(identity, "secret", exp)
	require.NoError(s.t, err)
	require.NoError(s.t, s.store.Set(context.Background(), session.TokenKey, token))
	return token
}

func (s *testServer) servePosts() {
	s.upstream.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, postsFixture)
	})
}

func postIDs(t *testing.T, raw json.RawMessage) []int64 {
	t.Helper()
	var posts []struct {
		ID      int64  `json:"id"`
		Excerpt string `json:"excerpt"`
	}
	require.NoError(t, json.Unmarshal(raw, &posts))

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

var (
	member = jwt.Identity{ID: 7, UserType: "user", Fullname: "Ada Lovelace"}
	admin  = jwt.Identity{ID: 1, UserType: jwt.UserTypeAdmin, Fullname: "Root"}
)

func TestHealth(t *testing.T) {
	s := newTestServer(t, 5)

	status, env := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"status":"ok","service":"PixelMinds","authenticated":false}`, string(env.Data))
}

func TestGuardWithoutSession(t *testing.T) {
	s := newTestServer(t, 5)

	status, env := s.do(http.MethodGet, "/api/posts", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, errs.ErrUnauthorized, env.Code)
	assert.JSONEq(t, `{"redirect":"/login"}`, string(env.Data))
}

func TestGuardEvictsExpiredSession(t *testing.T) {
	s := newTestServer(t, 5)
	s.seed(member, time.Now().Add(-time.Minute))

	status, env := s.do(http.MethodGet, "/api/profile", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, errs.ErrSessionExpired, env.Code)

	_, err := s.store.Get(context.Background(), session.TokenKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionRouteIsReadOnly(t *testing.T) {
	s := newTestServer(t, 5)
	token := s.seed(member, time.Now().Add(-time.Minute))

	_, env := s.do(http.MethodGet, "/api/auth/session", "")
	assert.JSONEq(t, `{"authenticated":false,"user":null}`, string(env.Data))

	stored, err := s.store.Get(context.Background(), session.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestLoginLogoutFlow(t *testing.T) {
	s := newTestServer(t, 5)

	token, err := jwt.Issue(member, "secret", time.Now().Add(time.Hour))
	require.NoError(t, err)
	s.upstream.HandleFunc("/main/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Login failed."}`)
			return
		}
		_, _ = io.WriteString(w, `{"jwt":"`+token+`"}`)
	})

	status, env := s.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Error 401: Login failed.", env.Message)

	status, env = s.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, status)
	var view sessionView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.True(t, view.Authenticated)
	assert.Equal(t, int64(7), view.User.ID)

	_, env = s.do(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"pw"}`)
	assert.Equal(t, errs.ErrAlreadyLoggedIn, env.Code)

	status, _ = s.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, status)

	_, env = s.do(http.MethodGet, "/api/auth/session", "")
	assert.JSONEq(t, `{"authenticated":false,"user":null}`, string(env.Data))
}

func TestLoginRejectsBadBody(t *testing.T) {
	s := newTestServer(t, 5)

	_, env := s.do(http.MethodPost, "/api/auth/login", `{"email":"a","password":"b","extra":1}`)
	assert.Equal(t, errs.ErrInvalidJSONFormat, env.Code)
}

func TestLoginRateLimited(t *testing.T) {
	s := newTestServer(t, 1)

	_, env := s.do(http.MethodPost, "/api/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, errs.ErrMissingCredentials, env.Code)

	status, env := s.do(http.MethodPost, "/api/auth/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, errs.ErrRateLimitExceeded, env.Code)
}

func TestRefreshFailureKeepsSession(t *testing.T) {
	s := newTestServer(t, 5)
	s.seed(member, time.Now().Add(time.Hour))
	s.upstream.HandleFunc("/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	status, env := s.do(http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, errs.ErrServerError, env.Code)

	_, env = s.do(http.MethodGet, "/api/auth/session", "")
	assert.Contains(t, string(env.Data), `"authenticated":true`)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t, 5)
	s.upstream.HandleFunc("/main/register.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","message":"User registered"}`)
	})

	_, env := s.do(http.MethodPost, "/api/auth/register", `{"email":"ada@example.com","password":"pw","fullname":"Ada"}`)
	assert.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"message":"User registered"}`, string(env.Data))

	_, env = s.do(http.MethodPost, "/api/auth/register", `{"email":"nope","password":"pw","fullname":"Ada"}`)
	assert.Equal(t, errs.ErrInvalidParams, env.Code)
}

func TestHomeFeed(t *testing.T) {
	s := newTestServer(t, 5)
	s.servePosts()
	s.seed(member, time.Now().Add(time.Hour))

	_, env := s.do(http.MethodGet, "/api/posts", "")
	assert.Equal(t, []int64{4, 3, 1}, postIDs(t, env.Data))

	_, env = s.do(http.MethodGet, "/api/posts?q=GO", "")
	assert.Equal(t, []int64{4, 1}, postIDs(t, env.Data))

	_, env = s.do(http.MethodGet, "/api/posts?author=grace", "")
	assert.Equal(t, []int64{3}, postIDs(t, env.Data))

	_, env = s.do(http.MethodGet, "/api/posts?month=1", "")
	assert.Equal(t, []int64{1}, postIDs(t, env.Data))

	_, env = s.do(http.MethodGet, "/api/posts?month=13", "")
	assert.Equal(t, errs.ErrInvalidMonth, env.Code)
}

func TestHomeFeedShowsAdminPostsToAdmin(t *testing.T) {
	s := newTestServer(t, 5)
	s.servePosts()
	s.seed(admin, time.Now().Add(time.Hour))

	_, env := s.do(http.MethodGet, "/api/posts", "")
	assert.Equal(t, []int64{4, 2, 3, 1}, postIDs(t, env.Data))
}

func TestMyBlogAndProfile(t *testing.T) {
	s := newTestServer(t, 5)
	s.servePosts()
	s.seed(member, time.Now().Add(time.Hour))

	_, env := s.do(http.MethodGet, "/api/myblog", "")
	assert.Equal(t, []int64{4, 1}, postIDs(t, env.Data))

	_, env = s.do(http.MethodGet, "/api/myblog?month=3", "")
	assert.Equal(t, []int64{4}, postIDs(t, env.Data))

	_, env = s.do(http.MethodGet, "/api/profile", "")
	var profile struct {
		User  jwt.Identity    `json:"user"`
		Posts json.RawMessage `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Ada Lovelace", profile.User.Fullname)
	assert.Equal(t, []int64{4, 1}, postIDs(t, profile.Posts))
}

func TestAdminRoutesAreGated(t *testing.T) {
	s := newTestServer(t, 5)
	s.servePosts()
	s.seed(member, time.Now().Add(time.Hour))

	status, env := s.do(http.MethodGet, "/api/admin/posts", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, errs.ErrForbidden, env.Code)

	s.seed(admin, time.Now().Add(time.Hour))
	_, env = s.do(http.MethodGet, "/api/admin/posts", "")
	assert.Equal(t, []int64{4, 2, 3, 1}, postIDs(t, env.Data))
}

func TestCreateUpdateDeletePost(t *testing.T) {
	s := newTestServer(t, 5)
	s.seed(member, time.Now().Add(time.Hour))

	var authors []string
	s.upstream.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		authors = append(authors, r.FormValue("author_id"))
		w.WriteHeader(http.StatusCreated)
	})
	s.upstream.HandleFunc("/posts/9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","message":"`+r.Method+`"}`)
	})

	_, env := s.do(http.MethodPost, "/api/posts", `{"title":"","content":"hello","tags":"a b"}`)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, []string{"7"}, authors)

	_, env = s.do(http.MethodPost, "/api/posts", `{"title":"t","content":"  "}`)
	assert.Equal(t, errs.ErrPostContentRequired, env.Code)

	_, env = s.do(http.MethodPut, "/api/posts/9", `{"title":"t","content":"c"}`)
	assert.JSONEq(t, `{"status":"success","message":"PUT"}`, string(env.Data))

	_, env = s.do(http.MethodDelete, "/api/posts/9", "")
	assert.JSONEq(t, `{"status":"success","message":"DELETE"}`, string(env.Data))

	_, env = s.do(http.MethodDelete, "/api/posts/abc", "")
	assert.Equal(t, errs.ErrInvalidPostID, env.Code)
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t, 5)
	s.seed(member, time.Now().Add(time.Hour))
	s.upstream.HandleFunc("/users/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","message":"Profile updated"}`)
	})

	_, env := s.do(http.MethodPut, "/api/profile", `{"fullname":"Ada L","email":"ada@example.com"}`)
	assert.JSONEq(t, `{"status":"success","message":"Profile updated"}`, string(env.Data))

	_, env = s.do(http.MethodPut, "/api/profile", `{"fullname":"","email":"ada@example.com"}`)
	assert.Equal(t, errs.ErrInvalidParams, env.Code)
}

func TestUpstreamForbiddenIsReported(t *testing.T) {
	s := newTestServer(t, 5)
	s.seed(member, time.Now().Add(time.Hour))
	s.upstream.HandleFunc("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	status, env := s.do(http.MethodGet, "/api/posts", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access Forbidden: You do not have permission to perform this action.", env.Message)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, 5)
	const id = "6f1c2a44-6a0b-4c57-9d3f-1f0f7b8a9c10"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}
