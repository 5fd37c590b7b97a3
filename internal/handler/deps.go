package handler

import (
	"pixelminds/internal/app/api"
	"pixelminds/internal/configs"
	"pixelminds/internal/pkg/auth/session"
)

// AppDeps carries the collaborators shared by every handler.
type AppDeps struct {
	Config  *configs.AppConfig
	Session *session.Service

	// API is the resource client; it authorizes requests through Session.
	API *api.Client
}
