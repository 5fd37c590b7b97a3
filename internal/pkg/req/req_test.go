package req

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"pixelminds/internal/pkg/errs"
)

type loginBody struct {
	Email string `json:"email"`
}

func jsonRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", contentType)
	return r
}

func TestBindJSON(t *testing.T) {
	var dst loginBody
	assert.Nil(t, BindJSON(httptest.NewRecorder(), jsonRequest(`{"email":"a@b.co"}`, "application/json; charset=utf-8"), &dst))
	assert.Equal(t, "a@b.co", dst.Email)

	cases := map[string]struct {
		body, contentType string
		code              int
	}{
		"wrong media type": {`{}`, "text/plain", errs.ErrUnsupportedMediaType},
		"malformed":        {`{"email":`, "application/json", errs.ErrInvalidJSONFormat},
		"unknown field":    {`{"name":"x"}`, "application/json", errs.ErrInvalidJSONFormat},
		"trailing data":    {`{"email":"a"} {"email":"b"}`, "application/json", errs.ErrExtraContentInBody},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var dst loginBody
			customErr := BindJSON(httptest.NewRecorder(), jsonRequest(tc.body, tc.contentType), &dst)
			if assert.NotNil(t, customErr) {
				assert.Equal(t, tc.code, customErr.Code)
			}
		})
	}
}

func withID(id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	r := httptest.NewRequest(http.MethodGet, "/posts/"+id, nil)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	id, customErr := PathID(withID("42"), "id")
	assert.Nil(t, customErr)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, customErr := PathID(withID(bad), "id")
		if assert.NotNil(t, customErr, bad) {
			assert.Equal(t, errs.ErrInvalidPostID, customErr.Code)
		}
	}
}

func TestQueryMonth(t *testing.T) {
	month, customErr := QueryMonth(httptest.NewRequest(http.MethodGet, "/?month=", nil))
	assert.Nil(t, customErr)
	assert.Zero(t, month)

	month, customErr = QueryMonth(httptest.NewRequest(http.MethodGet, "/?month=12", nil))
	assert.Nil(t, customErr)
	assert.Equal(t, 12, month)

	_, customErr = QueryMonth(httptest.NewRequest(http.MethodGet, "/?month=0", nil))
	assert.NotNil(t, customErr)
}
