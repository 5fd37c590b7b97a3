/*
Package session owns the lifecycle of the bearer token: storing it after login,
replacing it on refresh, deleting it on logout, and answering "is there a valid
session" and "who is it" for the rest of the client.

Expiry is evaluated lazily on access; there is no background timer. Decode and expiry
failures never surface as errors: they read as "no session" (fail-closed). Calls are not
serialized against each other, so concurrent Login, Refresh and Logout race for the
token slot and the last write wins.
*/
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pixelminds/internal/app/storage"
	"pixelminds/internal/pkg/auth/jwt"
	"pixelminds/internal/pkg/errs"
	"pixelminds/internal/pkg/logx"
)

const (
	// TokenKey is the fixed slot name the token is stored under.
	TokenKey = "jwt"

	// LoginRoute is where the Navigator is sent when the session ends.
	LoginRoute = "/login"

	bearerPrefix = "Bearer "
)

// Authenticator is the part of the remote API the session talks to.
type Authenticator interface {
	// Login exchanges credentials for a token.
	Login(ctx context.Context, email, password string) (string, error)

	// Refresh exchanges the token behind an Authorization header value for a new one.
	Refresh(ctx context.Context, authorization string) (string, error)
}

// Navigator is the routing collaborator asked to show the login view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

// Options wires a Service. Store and API are required.
type Options struct {
	Store     storage.Store
	API       Authenticator
	Navigator Navigator
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service is the session of one client profile. It is built once at start-up and
// closed at shutdown.
type Service struct {
	store     storage.Store
	api       Authenticator
	navigator Navigator
	now       func() time.Time
}

// New validates opts and returns a Service.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("session: store is required")
	}
	if opts.API == nil {
		return nil, errors.New("session: authenticator is required")
	}

	s := &Service{
		store:     opts.Store,
		api:       opts.API,
		navigator: opts.Navigator,
		now:       opts.Clock,
	}
	if s.navigator == nil {
		s.navigator = noopNavigator{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Close releases the token store.
func (s *Service) Close() error {
	return s.store.Close()
}

// Login sends the credentials to the API and stores the returned token, replacing any
// previous one. On failure the stored token is left untouched and the error is returned
// as-is; it is not retried.
func (s *Service) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		logx.Warn("login rejected", "error", err.Error())
		return err
	}

	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		logx.Error(err, "login succeeded but token could not be stored")
		return errs.Wrap(errs.ErrSessionStore, err)
	}

	logx.Info("session started", "user_id", s.userIDForLog(token))
	return nil
}

// Logout deletes the stored token and navigates to the login view. It succeeds when no
// token is stored.
func (s *Service) Logout(ctx context.Context) error {
	defer s.navigator.Navigate(LoginRoute)

	if err := s.store.Delete(ctx, TokenKey); err != nil {
		logx.Error(err, "logout could not delete token")
		return errs.Wrap(errs.ErrSessionStore, err)
	}

	logx.Info("session ended")
	return nil
}

// Refresh trades the current token for a new one. On success the stored token is
// replaced; on failure it is left in place and the caller decides whether to log out.
func (s *Service) Refresh(ctx context.Context) error {
	token, err := s.api.Refresh(ctx, s.AuthorizationHeader(ctx))
	if err != nil {
		logx.Warn("token refresh failed", "error", err.Error())
		return err
	}

	if err := s.store.Set(ctx, TokenKey, token); err != nil {
		logx.Error(err, "token refreshed but could not be stored")
		return errs.Wrap(errs.ErrSessionStore, err)
	}

	logx.Debug("token refreshed")
	return nil
}

// Token returns the stored token, if any. A store read failure reads as no token.
func (s *Service) Token(ctx context.Context) (string, bool) {
	token, err := s.read(ctx)
	return token, err == nil
}

// read returns the stored token, storage.ErrNotFound for an empty slot, or the store's
// read error.
func (s *Service) read(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logx.Error(err, "token slot unreadable, treating session as absent")
		}
		return "", err
	}

	if token = strings.TrimSpace(token); token == "" {
		return "", storage.ErrNotFound
	}
	return token, nil
}

// IsAuthenticated reports whether a token is stored and its expiry is strictly in the
// future. It only reads the slot.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	token, ok := s.Token(ctx)
	return ok && !s.IsExpired(token)
}

// Identity returns the identity embedded in a valid stored token. It reports false for
// no token, an undecodable token or an expired one, and never modifies the slot.
func (s *Service) Identity(ctx context.Context) (*jwt.Identity, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return nil, false
	}

	claims, ok := jwt.Decode(token)
	if !ok || claims.ExpiredAt(s.now()) {
		return nil, false
	}

	identity := claims.Data
	return &identity, true
}

// Decode parses token without verifying it; see jwt.Decode.
func (s *Service) Decode(token string) (*jwt.Claims, bool) {
	return jwt.Decode(token)
}

// IsExpired reports whether token is absent, malformed or expired now.
func (s *Service) IsExpired(token string) bool {
	return jwt.IsExpired(token, s.now())
}

// AuthorizationHeader returns "Bearer <token>" for the stored token, or "" when there is
// none. Expiry is not checked: gate use on IsAuthenticated.
func (s *Service) AuthorizationHeader(ctx context.Context) string {
	token, ok := s.Token(ctx)
	if !ok {
		return ""
	}
	return bearerPrefix + token
}

// Authorize sets the Authorization header of req when a token is stored.
func (s *Service) Authorize(ctx context.Context, req *http.Request) {
	if header := s.AuthorizationHeader(ctx); header != "" {
		req.Header.Set("Authorization", header)
	}
}

// Check returns the identity of a valid session. When the slot holds an expired or
// undecodable token, the token is evicted (as by Logout) and ErrSessionExpired is
// returned. With no token at all, or an unreadable slot, the result is ErrUnauthorized
// wrapping the store error.
func (s *Service) Check(ctx context.Context) (*jwt.Identity, error) {
	token, err := s.read(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrUnauthorized, err)
	}

	claims, ok := jwt.Decode(token)
	if !ok || claims.ExpiredAt(s.now()) {
		logx.Info("stale session detected, evicting token")
		if err := s.Logout(ctx); err != nil {
			return nil, err
		}
		return nil, errs.NewError(errs.ErrSessionExpired)
	}

	identity := claims.Data
	return &identity, nil
}

// UserID returns the user id of a valid session. An invalid or missing session is
// cleaned up and navigated to the login view, and zero, false is returned.
func (s *Service) UserID(ctx context.Context) (int64, bool) {
	identity, ok := s.ensure(ctx)
	if !ok {
		return 0, false
	}
	return identity.ID, true
}

// Role returns the role string of a valid session, or "" after cleaning up an invalid one.
func (s *Service) Role(ctx context.Context) string {
	identity, ok := s.ensure(ctx)
	if !ok {
		return ""
	}
	return identity.Role
}

func (s *Service) ensure(ctx context.Context) (*jwt.Identity, bool) {
	identity, err := s.Check(ctx)
	if err == nil {
		return identity, true
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := s.Logout(ctx); err != nil {
			logx.Warn("clearing missing session failed", "error", err.Error())
		}
	case errs.HasCode(err, errs.ErrUnauthorized):
		// The slot is unreadable; a Delete would fail the same way.
		s.navigator.Navigate(LoginRoute)
	}
	return nil, false
}

func (s *Service) userIDForLog(token string) int64 {
	if claims, ok := jwt.Decode(token); ok {
		return claims.Data.ID
	}
	return 0
}
