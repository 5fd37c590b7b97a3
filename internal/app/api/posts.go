package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"pixelminds/internal/app/post"
	"pixelminds/internal/pkg/errs"
)

// ListPosts returns every post the API serves, validated. One malformed record fails
// the whole call.
func (c *Client) ListPosts(ctx context.Context) ([]post.Post, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/posts", nil, "")
	if err != nil {
		return nil, err
	}
	c.authorize(ctx, req)

	env, err := c.doEnvelope(req)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, errs.NewError(errs.ErrInvalidResponse, "missing data")
	}

	var posts []post.Post
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		return nil, errs.Wrap(errs.ErrInvalidResponse, err, err.Error())
	}
	for _, p := range posts {
		if err := p.Validate(); err != nil {
			return nil, errs.Wrap(errs.ErrInvalidResponse, err, err.Error())
		}
	}
	return posts, nil
}

// CreatePost publishes a post as the current user.
func (c *Client) CreatePost(ctx context.Context, draft post.Draft) (Result, error) {
	return c.sendDraft(ctx, http.MethodPost, "/posts", draft)
}

// CreateAdminPost publishes a post through the admin endpoint. The API decides whether
// the caller may use it.
func (c *Client) CreateAdminPost(ctx context.Context, draft post.Draft) (Result, error) {
	return c.sendDraft(ctx, http.MethodPost, "/admin/posts", draft)
}

// UpdatePost replaces the editable fields of post id.
func (c *Client) UpdatePost(ctx context.Context, id int64, draft post.Draft) (Result, error) {
	if id <= 0 {
		return Result{}, errs.NewError(errs.ErrInvalidPostID)
	}
	return c.sendDraft(ctx, http.MethodPut, "/posts/"+strconv.FormatInt(id, 10), draft)
}

// DeletePost removes post id.
func (c *Client) DeletePost(ctx context.Context, id int64) (Result, error) {
	if id <= 0 {
		return Result{}, errs.NewError(errs.ErrInvalidPostID)
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/posts/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return Result{}, err
	}
	c.authorize(ctx, req)

	return c.doResult(req)
}

// sendDraft posts draft as multipart form fields, the encoding the post endpoints expect.
func (c *Client) sendDraft(ctx context.Context, method, path string, draft post.Draft) (Result, error) {
	normalized, err := draft.Normalize()
	if errors.Is(err, post.ErrContentRequired) {
		return Result{}, errs.NewError(errs.ErrPostContentRequired)
	}
	if err != nil {
		return Result{}, errs.Wrap(errs.ErrInvalidParams, err)
	}

	body, contentType, err := encodeDraft(normalized)
	if err != nil {
		return Result{}, errs.Wrap(errs.ErrUnknown, err)
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return Result{}, err
	}
	c.authorize(ctx, req)

	return c.doResult(req)
}

func encodeDraft(d post.Draft) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct{ name, value string }{
		{"title", d.Title},
		{"content", d.Content},
		{"tags", d.Tags},
	}
	if d.AuthorID > 0 {
		fields = append(fields, struct{ name, value string }{"author_id", strconv.FormatInt(d.AuthorID, 10)})
	}

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
