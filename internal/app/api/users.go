package api

import (
	"context"
	"net/http"
	"strconv"

	"pixelminds/internal/app/user"
	"pixelminds/internal/pkg/errs"
)

// UpdateProfile replaces the profile of the user p.ID.
func (c *Client) UpdateProfile(ctx context.Context, p user.Profile) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, errs.Wrap(errs.ErrInvalidParams, err)
	}

	req, err := c.newJSONRequest(ctx, http.MethodPut, "/users/"+strconv.FormatInt(p.ID, 10), p)
	if err != nil {
		return Result{}, err
	}
	c.authorize(ctx, req)

	return c.doResult(req)
}
