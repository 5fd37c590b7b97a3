package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"pixelminds/internal/app/user"
	"pixelminds/internal/pkg/errs"
)

// tokenResponse is the body of the login and refresh endpoints.
type tokenResponse struct {
	JWT     string `json:"jwt"`
	Message string `json:"message"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", errs.NewError(errs.ErrMissingCredentials)
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/main/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	return c.doToken(req)
}

// Refresh trades the token behind authorization (a full "Bearer ..." header value) for a
// new one. An empty authorization is sent as-is and left to the API to reject.
func (c *Client) Refresh(ctx context.Context, authorization string) (string, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/refresh-token", struct{}{})
	if err != nil {
		return "", err
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	return c.doToken(req)
}

// Register creates an account. It does not log the user in.
func (c *Client) Register(ctx context.Context, reg user.Registration) (Result, error) {
	if err := reg.Validate(); err != nil {
		return Result{}, errs.Wrap(errs.ErrInvalidParams, err)
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/main/register.php", reg)
	if err != nil {
		return Result{}, err
	}

	return c.doResult(req)
}

func (c *Client) doToken(req *http.Request) (string, error) {
	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", errs.Wrap(errs.ErrInvalidResponse, err, "malformed JSON")
	}

	token := strings.TrimSpace(tr.JWT)
	if token == "" {
		return "", errs.NewError(errs.ErrInvalidResponse, "no token in response")
	}
	return token, nil
}
