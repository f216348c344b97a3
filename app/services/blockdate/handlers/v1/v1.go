// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"
	"time"

	"github.com/ammadhh/blockdate/app/services/blockdate/handlers/v1/profilegrp"
	"github.com/ammadhh/blockdate/business/core/account"
	"github.com/ammadhh/blockdate/business/core/profile"
	"github.com/ammadhh/blockdate/foundation/events"
	"github.com/ammadhh/blockdate/foundation/registry"
	"github.com/ammadhh/blockdate/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log           *zap.SugaredLogger
	Profile       *profile.Core
	Account       *account.Core
	Registry      *registry.Registry
	Evts          *events.Events
	ActionTimeout time.Duration
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pgh := profilegrp.Handlers{
		Log:           cfg.Log,
		Profile:       cfg.Profile,
		Account:       cfg.Account,
		Registry:      cfg.Registry,
		Evts:          cfg.Evts,
		ActionTimeout: cfg.ActionTimeout,
	}

	app.Handle(http.MethodPost, version, "/create-profile", pgh.CreateProfile)
	app.Handle(http.MethodPost, version, "/like-profile", pgh.LikeProfile)
	app.Handle(http.MethodPost, version, "/create-accounts", pgh.CreateAccounts)
	app.Handle(http.MethodGet, version, "/profiles", pgh.QueryProfiles)
	app.Handle(http.MethodGet, version, "/profiles/:id", pgh.QueryProfileByID)
	app.Handle(http.MethodGet, version, "/events", pgh.Events)
}
