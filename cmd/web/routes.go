package main

import (
	"github.com/homecrimes/caseroom/ui"
	"github.com/justinas/alice"
	"net/http"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", staticCacheHeaders(http.FileServerFS(ui.Files)))

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, app.loadAccess, commonContext)
	caseRoom := session.Append(app.requireAccess)

	mux.Handle("GET /{$}", session.ThenFunc(app.home))
	mux.Handle("POST /access", session.ThenFunc(app.access))
	mux.Handle("POST /logout", session.ThenFunc(app.logout))
	mux.Handle("GET /checkout/success", session.ThenFunc(app.checkoutSuccess))

	mux.Handle("GET /case", caseRoom.ThenFunc(app.caseRoom))
	mux.Handle("POST /case/acts/{actID}/unlock", caseRoom.ThenFunc(app.unlockAct))
	mux.Handle("POST /case/clues/{clueID}/reveal", caseRoom.ThenFunc(app.revealClue))
	mux.Handle("POST /case/questions/{questionID}/answer", caseRoom.ThenFunc(app.answerQuestion))
	mux.Handle("POST /case/questions/{questionID}/hint", caseRoom.ThenFunc(app.requestHint))
	mux.Handle("POST /case/events/{eventID}/status", caseRoom.ThenFunc(app.cycleEventStatus))
	mux.Handle("POST /case/evidence/{evidenceID}/view", caseRoom.ThenFunc(app.viewEvidence))
	mux.Handle("POST /case/theories", caseRoom.ThenFunc(app.createTheory))
	mux.Handle("POST /case/theories/{theoryID}/review", caseRoom.ThenFunc(app.reviewTheory))
	mux.Handle("POST /case/reset", caseRoom.ThenFunc(app.resetProgress))

	// The JSON API is called by other frontends and carries no CSRF cookie.
	mux.HandleFunc("POST /api/game-access", app.gameAccess)
	mux.HandleFunc("GET /api/game-experience", app.gameExperience)
	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.Handle("GET /metrics", app.metrics.Handler())

	return app.recoverPanic(app.logRequest(app.measure(app.secureHeaders(timeoutHandler(mux, app.requestTimeout)))))
}
