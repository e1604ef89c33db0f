package main

import (
	"context"
	"encoding/json"
	"github.com/homecrimes/caseroom/internal/errors"
	"log/slog"
	"net/http"
)

const (
	sessionKeyPlayerID    = "playerID"
	sessionKeyCaseSlug    = "caseSlug"
	sessionKeyProductSlug = "productSlug"
	sessionKeyFlash       = "flash"
)

const (
	msgAccessRequired    = "Introduce tu código de acceso para abrir el expediente."
	msgInvalidCode       = "Código inválido. Revisa el correo de tu compra."
	msgTooManyAttempts   = "Demasiados intentos. Espera un minuto antes de volver a probar."
	msgCaseReset         = "Progreso reiniciado. El expediente vuelve a su estado inicial."
	msgMissingAnswer     = "Selecciona una respuesta antes de enviarla."
	msgQuestionLocked    = "Esta pregunta todavía está bloqueada."
	msgAnswerCorrect     = "Desbloqueo aplicado. Continúa con la siguiente evidencia."
	msgAnswerWrong       = "Respuesta registrada. Ajusta la deducción si nuevas evidencias aparecen."
	msgTheoryTitle       = "La teoría necesita un título."
	msgTheorySaved       = "Teoría guardada."
	msgReviewUnavailable = "La revisión automática no está disponible."
	msgReviewSaved       = "Revisión añadida a la teoría."
	msgReviewFailed      = "No pudimos revisar la teoría. Inténtalo más tarde."
	msgReviewExists      = "Esta teoría ya tiene una revisión."
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri), slog.Any("formdata", r.PostForm))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// flash stores a message shown once on the next rendered page. Empty messages are ignored.
func (app *application) flash(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	app.sessionManager.Put(ctx, sessionKeyFlash, msg)
}

// forgetPlayer removes the case access from the session but keeps the session itself.
func (app *application) forgetPlayer(ctx context.Context) {
	app.sessionManager.Remove(ctx, sessionKeyPlayerID)
	app.sessionManager.Remove(ctx, sessionKeyCaseSlug)
	app.sessionManager.Remove(ctx, sessionKeyProductSlug)
}

// redirectToCase follows the post/redirect/get pattern back to the case room section identified by anchor.
func redirectToCase(w http.ResponseWriter, r *http.Request, anchor string) {
	target := "/case"
	if anchor != "" {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal json response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type errorResponse struct {
	Error string `json:"error"`
}
