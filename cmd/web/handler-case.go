package main

import (
	"context"
	"github.com/homecrimes/caseroom/internal/acts"
	"github.com/homecrimes/caseroom/internal/contexthelpers"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/progress"
	"github.com/homecrimes/caseroom/internal/theory"
	"log/slog"
	"net/http"
	"slices"
)

var eventStatusLabels = map[progress.EventStatus]string{
	progress.EventOpen:       "Abierto",
	progress.EventReviewed:   "Revisado",
	progress.EventConclusion: "Conclusión provisional",
}

var evidenceTypeLabels = map[models.EvidenceType]string{
	models.EvidenceDocument: "Documento",
	models.EvidencePhoto:    "Foto",
	models.EvidenceAudio:    "Audio",
	models.EvidenceObject:   "Objeto",
	models.EvidenceClipping: "Recorte",
	models.EvidenceMap:      "Croquis / Mapa",
	models.EvidenceOther:    "Evidencia",
}

type clueView struct {
	Clue     models.Clue
	Revealed bool
}

type actView struct {
	Act       models.Act
	Unlocked  bool
	Completed bool
	// Blocked is set on a locked final act while earlier acts are incomplete.
	Blocked bool
	Clues   []clueView
}

type eventView struct {
	Event       models.Event
	Unlocked    bool
	StatusLabel string
}

type evidenceView struct {
	Evidence      models.Evidence
	Viewed        bool
	TypeLabel     string
	EventTitle    string
	LocationNames []string
}

type locationView struct {
	Location       models.Location
	Unlocked       bool
	EvidenceTitles []string
}

type questionView struct {
	Question models.Question
	Response progress.QuestionResponse
	// Slots has one entry per position of a chronology answer.
	Slots []int
	// MultiSelect marks other list answers, picked with checkboxes.
	MultiSelect bool
}

type theoryView struct {
	Theory theory.Theory
	Review string
}

type caseTemplateData struct {
	BaseTemplateData
	Case            models.CaseFile
	SourceLabel     string
	Summary         progress.Summary
	Acts            []actView
	Events          []eventView
	Filters         filterOptions
	Evidence        []evidenceView
	Locations       []locationView
	Questions       []questionView
	Theories        []theoryView
	EvidenceChoices []models.Evidence
	ReviewEnabled   bool
}

// caseContent loads the content of the case the session has access to.
func (app *application) caseContent(ctx context.Context) (models.Content, error) {
	slug := contexthelpers.CaseSlug(ctx)
	c, err := app.content.Load(ctx, slug)
	if err != nil {
		return models.Content{}, errors.Wrap(err, "load case content", slog.String("case_slug", slug)) //nolint:exhaustruct // error path
	}
	app.metrics.ContentLoads.WithLabelValues(string(c.Source)).Inc()
	return c, nil
}

// progressService returns the progress store of the current player. Progress keys carry the case slug so
// that a player with several products keeps them apart.
func (app *application) progressService(ctx context.Context) *progress.Service {
	return progress.NewService(app.snapshots, app.logger, contexthelpers.PlayerID(ctx), contexthelpers.CaseSlug(ctx))
}

func (app *application) caseRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c, err := app.caseContent(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	p := app.progressService(ctx).Load(ctx, c.Case.Version)

	reviews, err := app.reviews.All(ctx, contexthelpers.PlayerID(ctx))
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "load theory reviews"))
		return
	}

	filter := parseEvidenceFilter(r.URL.Query())
	data := newCaseTemplateData(c, p, filter, reviews)
	data.BaseTemplateData = app.newBaseTemplateData(r)
	data.ReviewEnabled = app.aiClient != nil

	app.render(w, r, http.StatusOK, "case", data)
}

func newCaseTemplateData(
	c models.Content,
	p progress.Progress,
	filter evidenceFilter,
	reviews map[string]string,
) caseTemplateData {
	view := progress.Effective(c, p)
	evidence := view.AccessibleEvidence(c)

	sourceLabel := "Respaldo"
	if c.Source == models.SourceCMS {
		sourceLabel = "CMS"
	}

	return caseTemplateData{ //nolint:exhaustruct // base data is filled by the handler
		Case:            c.Case,
		SourceLabel:     sourceLabel,
		Summary:         progress.Summarize(c, p),
		Acts:            actViews(c.Acts, p.Acts),
		Events:          eventViews(c.Events, view, p),
		Filters:         newFilterOptions(c, filter),
		Evidence:        evidenceViews(c, filterEvidence(evidence, filter), p),
		Locations:       locationViews(c, view),
		Questions:       questionViews(c.Questions, p),
		Theories:        theoryViews(p.Theories, reviews),
		EvidenceChoices: unlockedEvidence(evidence),
	}
}

func actViews(all []models.Act, state acts.State) []actView {
	prerequisitesMet := acts.AllPrerequisitesMet(state, all)
	views := make([]actView, 0, len(all))
	for _, act := range models.SortActs(all) {
		unlocked := acts.IsUnlocked(state, all, act.ID)
		clues := make([]clueView, 0, len(act.Clues))
		for _, clue := range act.Clues {
			clues = append(clues, clueView{Clue: clue, Revealed: acts.ClueRevealed(state, all, act, clue)})
		}
		views = append(views, actView{
			Act:       act,
			Unlocked:  unlocked,
			Completed: acts.Completed(state, all, act),
			Blocked:   !unlocked && act.IsFinalStep && !prerequisitesMet,
			Clues:     clues,
		})
	}
	return views
}

func eventViews(events []models.Event, view progress.View, p progress.Progress) []eventView {
	views := make([]eventView, 0, len(events))
	for _, event := range events {
		views = append(views, eventView{
			Event:       event,
			Unlocked:    view.Events.Has(event.ID),
			StatusLabel: eventStatusLabels[progress.EventStatusOf(p, event.ID)],
		})
	}
	return views
}

func evidenceViews(c models.Content, evidence []models.Evidence, p progress.Progress) []evidenceView {
	views := make([]evidenceView, 0, len(evidence))
	for _, ev := range evidence {
		var eventTitle string
		if event, ok := c.Event(ev.EventID); ok {
			eventTitle = event.Title
		}
		var locationNames []string
		for _, id := range ev.LocationIDs {
			if location, ok := c.Location(id); ok {
				locationNames = append(locationNames, location.Name)
			}
		}
		views = append(views, evidenceView{
			Evidence:      ev,
			Viewed:        p.ViewedEvidenceIDs.Has(ev.ID),
			TypeLabel:     evidenceTypeLabels[ev.Type],
			EventTitle:    eventTitle,
			LocationNames: locationNames,
		})
	}
	return views
}

// locationViews lists the evidence of each location the player can see.
func locationViews(c models.Content, view progress.View) []locationView {
	views := make([]locationView, 0, len(c.Locations))
	for _, location := range c.Locations {
		var titles []string
		for _, id := range location.EvidenceIDs {
			if ev, ok := c.EvidenceItem(id); ok && view.Evidence.Has(id) {
				titles = append(titles, ev.Title)
			}
		}
		views = append(views, locationView{
			Location:       location,
			Unlocked:       view.Locations.Has(location.ID),
			EvidenceTitles: titles,
		})
	}
	return views
}

func questionViews(questions []models.Question, p progress.Progress) []questionView {
	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		view := questionView{Question: q, Response: p.Responses[q.ID], Slots: nil, MultiSelect: false}
		switch {
		case q.Answer.IsList && q.Kind == models.QuestionChronology:
			view.Slots = make([]int, len(q.Answer.Values))
			for i := range view.Slots {
				view.Slots[i] = i
			}
		case q.Answer.IsList:
			view.MultiSelect = true
		}
		views = append(views, view)
	}
	return views
}

func theoryViews(theories []theory.Theory, reviews map[string]string) []theoryView {
	views := make([]theoryView, 0, len(theories))
	for _, t := range theories {
		views = append(views, theoryView{Theory: t, Review: reviews[t.ID]})
	}
	return views
}

func unlockedEvidence(evidence []models.Evidence) []models.Evidence {
	return slices.DeleteFunc(slices.Clone(evidence), func(ev models.Evidence) bool { return !ev.Unlocked })
}
