/*
Package req provides helpers for parsing and binding HTTP request data on the companion
server: strict JSON bodies, path identifiers and query filters.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"pixelminds/internal/pkg/errs"
)

// MaxJSONBodySize caps JSON request bodies. Post content is text only.
const MaxJSONBodySize int64 = 1 << 20

// BindJSON decodes the JSON body of r into dst, rejecting unknown fields and trailing data.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// PathID parses the chi URL parameter name as a positive post id.
func PathID(r *http.Request, name string) (int64, *errs.CustomError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewError(errs.ErrInvalidPostID)
	}
	return id, nil
}

// QueryMonth parses the optional "month" query parameter (1-12). Zero means absent.
func QueryMonth(r *http.Request) (int, *errs.CustomError) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		return 0, nil
	}

	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return 0, errs.NewError(errs.ErrInvalidMonth)
	}
	return month, nil
}
