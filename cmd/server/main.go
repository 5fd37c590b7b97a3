/*
Package main is the entry point of the PixelMinds companion server.

It loads configuration, initializes logging, opens the token slot, wires the session and
the API client into the HTTP router, and shuts down gracefully on SIGINT or SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixelminds/internal/app/api"
	"pixelminds/internal/app/storage"
	"pixelminds/internal/configs"
	"pixelminds/internal/handler"
	"pixelminds/internal/pkg/auth/jwt"
	"pixelminds/internal/pkg/auth/session"
	"pixelminds/internal/pkg/logx"
)

// devSessionTTL is the lifetime of the token seeded in development mode.
const devSessionTTL = 24 * time.Hour

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.Init(cfg.Environment, false)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("api_base_url", cfg.APIBaseURL).
		Str("session_store", cfg.Session.Kind).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewStore(ctx, cfg.Session)
	if err != nil {
		logx.Fatal(err, "Failed to open session store", "kind", cfg.Session.Kind)
	}

	base, err := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
	if err != nil {
		logx.Fatal(err, "Invalid API configuration")
	}

	sess, err := session.New(session.Options{
		Store: store,
		API:   base,
		Navigator: session.NavigatorFunc(func(route string) {
			logx.Debug("client redirected", "route", route)
		}),
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize session")
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logx.Error(err, "Failed to close session store")
		}
	}()

	if cfg.DevJWTSecret != "" {
		seedDevSession(ctx, store, cfg.DevJWTSecret)
	}

	deps := &handler.AppDeps{
		Config:  cfg,
		Session: sess,
		API:     base.WithAuthorizer(sess),
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(ctx, deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info("PixelMinds server starting", "addr", "http://localhost"+serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}

// seedDevSession stores a locally signed admin token when no session exists, so the
// server can be exercised against a development API without logging in.
func seedDevSession(ctx context.Context, store storage.Store, secret string) {
	if _, err := store.Get(ctx, session.TokenKey); err == nil {
		return
	}

	token, err := jwt.Issue(jwt.Identity{
		ID:       1,
		UserType: jwt.UserTypeAdmin,
		Fullname: "Development Admin",
	}, secret, time.Now().Add(devSessionTTL))
	if err != nil {
		logx.Error(err, "Failed to issue development token")
		return
	}

	if err := store.Set(ctx, session.TokenKey, token); err != nil {
		logx.Error(err, "Failed to store development token")
		return
	}
	logx.Warn("[DEV MODE] seeded a development admin session", "expires_in", devSessionTTL.String())
}
