package main

import (
	"context"
	"github.com/google/uuid"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/metrics"
	"log/slog"
	"net/http"
)

type homeTemplateData struct {
	BaseTemplateData
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
	}

	app.render(w, r, http.StatusOK, "home", data)
}

// access redeems the access code posted from the home page and opens the case room.
func (app *application) access(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !app.limiter.Allow(clientIP(r)) {
		app.metrics.AccessAttempts.WithLabelValues(metrics.AccessLimited).Inc()
		app.flash(ctx, msgTooManyAttempts)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	payload, err := app.codec.Verify(r.PostFormValue("code"))
	if err != nil {
		app.metrics.AccessAttempts.WithLabelValues(metrics.AccessInvalid).Inc()
		app.logger.LogAttrs(ctx, slog.LevelInfo, "access code rejected", errors.SlogError(err))
		app.flash(ctx, msgInvalidCode)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err = app.openCase(ctx, payload); err != nil {
		app.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/case", http.StatusSeeOther)
}

// openCase binds the session to a player of the product in payload. Redeeming a code for the product the
// session already plays keeps the same player and therefore the same progress.
func (app *application) openCase(ctx context.Context, payload accesscode.Payload) error {
	caseSlug, err := app.products.CaseSlug(ctx, payload.ProductSlug)
	if err != nil {
		return errors.Wrap(err, "resolve case", slog.String("product_slug", payload.ProductSlug))
	}

	result := metrics.AccessValid
	if payload == accesscode.Demo() {
		result = metrics.AccessDemo
	}
	app.metrics.AccessAttempts.WithLabelValues(result).Inc()

	playerID := app.sessionManager.GetString(ctx, sessionKeyPlayerID)
	if playerID == "" || app.sessionManager.GetString(ctx, sessionKeyProductSlug) != payload.ProductSlug {
		playerID = uuid.NewString()
		if err = app.players.Create(ctx, playerID, payload.ProductSlug, payload.SessionID); err != nil {
			return errors.Wrap(err, "create player")
		}
		var redemptions int
		if redemptions, err = app.players.CountRedemptions(ctx, payload.SessionID); err != nil {
			return errors.Wrap(err, "count redemptions")
		}
		app.logger.LogAttrs(ctx, slog.LevelInfo, "access code redeemed",
			slog.String("player_id", playerID),
			slog.String("product_slug", payload.ProductSlug),
			slog.Int("redemptions", redemptions),
		)
	}

	if err = app.sessionManager.RenewToken(ctx); err != nil {
		return errors.Wrap(err, "renew session token")
	}
	app.sessionManager.Put(ctx, sessionKeyPlayerID, playerID)
	app.sessionManager.Put(ctx, sessionKeyCaseSlug, caseSlug)
	app.sessionManager.Put(ctx, sessionKeyProductSlug, payload.ProductSlug)
	return nil
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.forgetPlayer(ctx)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
