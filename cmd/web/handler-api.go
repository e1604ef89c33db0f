package main

import (
	"encoding/json"
	"github.com/homecrimes/caseroom/internal/accesscode"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/metrics"
	"log/slog"
	"net/http"
	"strings"
)

const maxJSONBody = 4 << 10

type gameAccessRequest struct {
	Code string `json:"code"`
}

type gameAccessResponse struct {
	Valid       bool   `json:"valid"`
	ProductSlug string `json:"productSlug"`
	SessionID   string `json:"sessionId"`
}

// gameAccess verifies an access code without opening a session.
func (app *application) gameAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !app.limiter.Allow(clientIP(r)) {
		app.metrics.AccessAttempts.WithLabelValues(metrics.AccessLimited).Inc()
		app.writeJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: "Too many attempts"})
		return
	}

	var req gameAccessRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "malformed game access request", errors.SlogError(err))
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Missing code"})
		return
	}

	payload, err := app.codec.Verify(req.Code)
	switch {
	case err == nil:
	case errors.Is(err, accesscode.ErrMissing):
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Missing code"})
		return
	default:
		app.metrics.AccessAttempts.WithLabelValues(metrics.AccessInvalid).Inc()
		app.writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "Código inválido"})
		return
	}

	result := metrics.AccessValid
	if payload == accesscode.Demo() {
		result = metrics.AccessDemo
	}
	app.metrics.AccessAttempts.WithLabelValues(result).Inc()

	app.writeJSON(w, r, http.StatusOK, gameAccessResponse{
		Valid:       true,
		ProductSlug: payload.ProductSlug,
		SessionID:   payload.SessionID,
	})
}

// gameExperience returns the canonical content of a case.
func (app *application) gameExperience(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		app.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Missing case slug"})
		return
	}

	c, err := app.content.Load(r.Context(), slug)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "load content", slog.String("slug", slug)))
		return
	}
	app.metrics.ContentLoads.WithLabelValues(string(c.Source)).Inc()

	app.writeJSON(w, r, http.StatusOK, c)
}
