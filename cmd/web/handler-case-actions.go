package main

import (
	"github.com/google/uuid"
	"github.com/homecrimes/caseroom/internal/acts"
	"github.com/homecrimes/caseroom/internal/contexthelpers"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/metrics"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/progress"
	"github.com/homecrimes/caseroom/internal/repositories"
	"github.com/homecrimes/caseroom/internal/theory"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"
)

func (app *application) unlockAct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	act, ok := c.Act(r.PathValue("actID"))
	if !ok {
		app.notFound(w, r)
		return
	}

	var feedback acts.Feedback
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		p, feedback = progress.UnlockAct(p, c.Acts, act, r.PostFormValue("code"))
		return p
	})

	app.metrics.Action(metrics.ActionActUnlock, feedback.Status == acts.StatusSuccess)
	app.flash(ctx, feedback.Message)
	redirectToCase(w, r, "act-"+act.ID)
}

func (app *application) revealClue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	act, clue, ok := c.Clue(r.PathValue("clueID"))
	if !ok {
		app.notFound(w, r)
		return
	}

	var feedback acts.Feedback
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		p, feedback = progress.RevealClue(p, c.Acts, act, clue, r.PostFormValue("solution"))
		return p
	})

	app.metrics.Action(metrics.ActionClueReveal, feedback.Status == acts.StatusSuccess)
	app.flash(ctx, feedback.Message)
	redirectToCase(w, r, "clue-"+clue.ID)
}

// submittedAnswer reads the answer field of a parsed form in the shape of the expected answer. A list answer
// is submitted as one value per position for chronologies and one value per checked option otherwise.
func submittedAnswer(r *http.Request, q models.Question) (models.Answer, bool) {
	if !q.Answer.IsList {
		v := r.PostFormValue("answer")
		return models.ScalarAnswer(v), strings.TrimSpace(v) != ""
	}
	values := r.PostForm["answer"]
	blank := func(v string) bool { return strings.TrimSpace(v) == "" }
	if q.Kind == models.QuestionChronology {
		if slices.ContainsFunc(values, blank) {
			return models.Answer{}, false //nolint:exhaustruct // rejected
		}
		return models.ListAnswer(values...), len(values) > 0
	}
	selected := slices.DeleteFunc(slices.Clone(values), blank)
	return models.ListAnswer(selected...), len(selected) > 0
}

func (app *application) answerQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	q, ok := c.Question(r.PathValue("questionID"))
	if !ok {
		app.notFound(w, r)
		return
	}
	anchor := "question-" + q.ID
	if !q.Unlocked {
		app.flash(ctx, msgQuestionLocked)
		redirectToCase(w, r, anchor)
		return
	}
	if err = r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	given, ok := submittedAnswer(r, q)
	if !ok {
		app.flash(ctx, msgMissingAnswer)
		redirectToCase(w, r, anchor)
		return
	}

	var correct bool
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		p, correct = progress.RecordAnswer(p, q, given)
		return p
	})

	app.metrics.Action(metrics.ActionAnswer, correct)
	if correct {
		app.flash(ctx, msgAnswerCorrect)
	} else {
		app.flash(ctx, msgAnswerWrong)
	}
	redirectToCase(w, r, anchor)
}

func (app *application) requestHint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	q, ok := c.Question(r.PathValue("questionID"))
	if !ok {
		app.notFound(w, r)
		return
	}

	var (
		hint    string
		counted bool
	)
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		before := p.Responses[q.ID].HintsUsed
		p, hint = progress.ConsumeHint(p, q)
		counted = p.Responses[q.ID].HintsUsed > before
		return p
	})

	app.metrics.Action(metrics.ActionHint, counted)
	app.flash(ctx, hint)
	redirectToCase(w, r, "question-"+q.ID)
}

func (app *application) cycleEventStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	event, ok := c.Event(r.PathValue("eventID"))
	if !ok {
		app.notFound(w, r)
		return
	}

	var unlocked bool
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		unlocked = progress.Effective(c, p).Events.Has(event.ID)
		return progress.CycleEventStatus(p, event.ID, unlocked)
	})

	app.metrics.Action(metrics.ActionEventStatus, unlocked)
	redirectToCase(w, r, "event-"+event.ID)
}

func (app *application) viewEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	ev, ok := c.EvidenceItem(r.PathValue("evidenceID"))
	if !ok {
		app.notFound(w, r)
		return
	}

	var changed bool
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		seen := p.ViewedEvidenceIDs.Has(ev.ID)
		p = progress.ViewEvidence(p, ev.ID, progress.Effective(c, p).Evidence.Has(ev.ID))
		changed = !seen && p.ViewedEvidenceIDs.Has(ev.ID)
		return p
	})

	app.metrics.Action(metrics.ActionEvidence, changed)
	redirectToCase(w, r, "evidence-"+ev.ID)
}

func (app *application) createTheory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if err = r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	draft := theory.Draft{
		Title:           r.PostForm.Get("title"),
		Content:         r.PostForm.Get("content"),
		EvidenceSupport: r.PostForm["evidence"],
	}

	var (
		added bool
		id    = uuid.NewString()
	)
	app.progressService(ctx).Update(ctx, c.Case.Version, func(p progress.Progress) progress.Progress {
		pool := unlockedEvidence(progress.Effective(c, p).AccessibleEvidence(c))
		p, added = progress.AddTheory(p, draft, pool, id, time.Now())
		return p
	})

	app.metrics.Action(metrics.ActionTheory, added)
	if !added {
		app.flash(ctx, msgTheoryTitle)
		redirectToCase(w, r, "theories")
		return
	}
	app.flash(ctx, msgTheorySaved)
	redirectToCase(w, r, "theory-"+id)
}

// reviewTheory asks the assistant for a critique of a saved theory and stores it next to the theory.
func (app *application) reviewTheory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if app.aiClient == nil {
		app.flash(ctx, msgReviewUnavailable)
		redirectToCase(w, r, "theories")
		return
	}
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	p := app.progressService(ctx).Load(ctx, c.Case.Version)
	t, ok := progress.Theory(p, r.PathValue("theoryID"))
	if !ok {
		app.notFound(w, r)
		return
	}
	_, err = app.reviews.Get(ctx, contexthelpers.PlayerID(ctx), t.ID)
	switch {
	case err == nil:
		app.flash(ctx, msgReviewExists)
		redirectToCase(w, r, "theory-"+t.ID)
		return
	case !errors.Is(err, repositories.ErrNotFound):
		app.serverError(w, r, errors.Wrap(err, "get theory review"))
		return
	}

	evidence := unlockedEvidence(progress.Effective(c, p).AccessibleEvidence(c))
	review, err := app.aiClient.ReviewTheory(ctx, c.Case, t, evidence)
	if err != nil {
		err = errors.Wrap(err, "review theory", slog.String("theory_id", t.ID))
		app.logger.LogAttrs(ctx, slog.LevelError, "theory review failed", errors.SlogError(err))
		app.flash(ctx, msgReviewFailed)
		redirectToCase(w, r, "theory-"+t.ID)
		return
	}
	if err = app.reviews.Save(ctx, contexthelpers.PlayerID(ctx), t.ID, review); err != nil {
		app.serverError(w, r, errors.Wrap(err, "save theory review"))
		return
	}

	app.flash(ctx, msgReviewSaved)
	redirectToCase(w, r, "theory-"+t.ID)
}

// resetProgress starts the case over from the latest published content.
func (app *application) resetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app.content.Invalidate(contexthelpers.CaseSlug(ctx))
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.progressService(ctx).Save(ctx, progress.Reset(c.Case.Version))

	app.metrics.Action(metrics.ActionReset, true)
	app.flash(ctx, msgCaseReset)
	redirectToCase(w, r, "")
}
