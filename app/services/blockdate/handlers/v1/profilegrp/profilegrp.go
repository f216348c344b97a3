// Package profilegrp maintains the group of handlers for profile access.
package profilegrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ammadhh/blockdate/business/core/account"
	"github.com/ammadhh/blockdate/business/core/profile"
	"github.com/ammadhh/blockdate/business/sys/validate"
	v1 "github.com/ammadhh/blockdate/business/web/v1"
	"github.com/ammadhh/blockdate/foundation/events"
	"github.com/ammadhh/blockdate/foundation/registry"
	"github.com/ammadhh/blockdate/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of profile endpoints.
type Handlers struct {
	Log           *zap.SugaredLogger
	Profile       *profile.Core
	Account       *account.Core
	Registry      *registry.Registry
	Evts          *events.Events
	WS            websocket.Upgrader
	ActionTimeout time.Duration
}

// CreateProfile registers a new profile on the chain and returns the
// derived profile id and transaction information.
func (h Handlers) CreateProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var np profile.NewProfile
	if err := web.Decode(r, &np); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("create profile", "traceid", v.TraceID, "name", np.Name, "age", np.Age)

	ctx, cancel := context.WithTimeout(ctx, h.ActionTimeout)
	defer cancel()

	result, err := h.Profile.Create(ctx, np)
	if err != nil {
		switch {
		case validate.IsFieldErrors(err):
			return err
		case errors.Is(err, profile.ErrOperationFailed):
			return v1.NewRequestError(errors.New("Profile creation failed"), http.StatusInternalServerError)
		default:
			return v1.NewRequestError(err, http.StatusInternalServerError)
		}
	}

	resp := createResponse{
		Success:         true,
		TransactionHash: result.TransactionHash,
		ProfileID:       result.ProfileID,
		UserAccount:     accountInfo{Address: result.Accounts.UserAccount},
		SmartAccount:    accountInfo{Address: result.Accounts.SmartAccount},
		TransactionInfo: result.Record,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// LikeProfile submits a like for the specified profile.
func (h Handlers) LikeProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var lr likeRequest
	if err := web.Decode(r, &lr); err != nil {
		return v1.NewRequestError(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("like profile", "traceid", v.TraceID, "profileid", lr.ProfileID)

	ctx, cancel := context.WithTimeout(ctx, h.ActionTimeout)
	defer cancel()

	result, err := h.Profile.Like(ctx, lr.ProfileID)
	if err != nil {
		switch {
		case validate.IsFieldErrors(err):
			return err
		case errors.Is(err, profile.ErrOperationFailed):
			return v1.NewRequestError(errors.New("Like operation failed"), http.StatusInternalServerError)
		default:
			return v1.NewRequestError(err, http.StatusInternalServerError)
		}
	}

	resp := likeResponse{
		Success:         true,
		TransactionHash: result.TransactionHash,
		TransactionInfo: result.Record,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// CreateAccounts provisions a funded account pair without submitting any
// contract call. The UI uses this for its wallet demo flow.
func (h Handlers) CreateAccounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("create accounts", "traceid", v.TraceID)

	ctx, cancel := context.WithTimeout(ctx, h.ActionTimeout)
	defer cancel()

	pair, err := h.Account.Provision(ctx)
	if err != nil {
		return v1.NewRequestError(err, http.StatusInternalServerError)
	}

	resp := accountsResponse{
		Success:      true,
		UserAccount:  accountInfo{Address: pair.UserAccount},
		SmartAccount: accountInfo{Address: pair.SmartAccount},
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// QueryProfiles returns every registered profile in creation order.
// Profiles that fail to read are skipped by the registry.
func (h Handlers) QueryProfiles(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	profiles, err := h.Registry.AllProfiles(ctx)
	if err != nil {
		return v1.NewRequestError(err, http.StatusInternalServerError)
	}

	if profiles == nil {
		profiles = []registry.Profile{}
	}

	return web.Respond(ctx, w, profiles, http.StatusOK)
}

// QueryProfileByID returns the profile with the specified id.
func (h Handlers) QueryProfileByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	profileID, err := strconv.Atoi(web.Param(r, "id"))
	if err != nil {
		return validate.NewFieldsError("id", fmt.Errorf("invalid profile id: %w", err))
	}

	p, err := h.Registry.ProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return v1.NewRequestError(err, http.StatusNotFound)
		}
		return v1.NewRequestError(err, http.StatusInternalServerError)
	}

	return web.Respond(ctx, w, p, http.StatusOK)
}

// Events handles a web socket to provide activity events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
