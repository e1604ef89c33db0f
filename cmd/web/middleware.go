package main

import (
	"fmt"
	"github.com/homecrimes/caseroom/internal/contexthelpers"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/logging"
	"github.com/homecrimes/caseroom/internal/random"
	"github.com/homecrimes/caseroom/internal/repositories"
	"github.com/justinas/nosurf"
	"log/slog"
	"net/http"
	"time"
)

const cspNonceLength = 24

func (app *application) secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := random.Letters(cspNonceLength)
		if err != nil {
			app.serverError(w, r, errors.Wrap(err, "generate csp nonce"))
			return
		}
		w.Header().Set("Content-Security-Policy",
			fmt.Sprintf(`script-src 'nonce-%s' 'strict-dynamic' https: http:; object-src 'none'; base-uri 'none';`, nonce))

		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, contexthelpers.SetCSPNonce(r, nonce))
	})
}

func staticCacheHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "received request",
			slog.String("proto", r.Proto), slog.String("method", r.Method), slog.String("uri", r.URL.RequestURI()))

		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New("panic", slog.Any("recovered", err)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// measure records the request duration by method and status code.
func (app *application) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		app.metrics.ObserveRequest(r.Method, rec.status, time.Since(start))
	})
}

// loadAccess grants access to requests whose session belongs to a known player.
func (app *application) loadAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		playerID := app.sessionManager.GetString(ctx, sessionKeyPlayerID)

		if playerID == "" {
			next.ServeHTTP(w, r)
			return
		}

		if err := app.players.Touch(ctx, playerID); err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				app.serverError(w, r, err)
				return
			}
			app.logger.LogAttrs(ctx, slog.LevelWarn, "session refers to unknown player", slog.String("player_id", playerID))
			app.forgetPlayer(ctx)
			next.ServeHTTP(w, r)
			return
		}

		ctx = logging.WithAttrs(ctx,
			logging.HashedAttr("session_hash", app.sessionManager.Token(ctx)),
			slog.String("player_id", playerID),
		)
		r = contexthelpers.GrantAccess(r.WithContext(ctx), playerID, app.sessionManager.GetString(ctx, sessionKeyCaseSlug))
		next.ServeHTTP(w, r)
	})
}

// requireAccess sends players without a redeemed access code back to the home page.
func (app *application) requireAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contexthelpers.HasAccess(r.Context()) {
			app.flash(r.Context(), msgAccessRequired)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		w.Header().Add("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func commonContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = contexthelpers.SetCurrentPath(r, r.URL.Path)
		r = contexthelpers.SetCSRFToken(r, nosurf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf
func noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(next)
	csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // defaults are fine for the rest
		HttpOnly: true,
		Path:     "/",
		Secure:   true,
	})

	return csrfHandler
}
