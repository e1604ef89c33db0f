// Package theory holds player hypotheses and the soft feedback computed when they are saved.
package theory

import (
	"github.com/homecrimes/caseroom/internal/models"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MsgDispersedEvents   = "La hipótesis conecta eventos dispersos: revisa coincidencias temporales."
	MsgConcentratedEvent = "Concentra las evidencias en un único evento: busca contradicciones externas."
	MsgAudio             = "Incluye audio: compara ritmos o voces con el registro de la plaza."
	MsgMap               = "El croquis puede sugerir rutas; valida con la cronología de la vigilia."
	MsgMissingEvidence   = "Faltan evidencias de soporte: vincula al menos una prueba concreta."
	MsgExpandDescription = "Amplía la descripción para registrar observaciones y dudas."
	minDescriptionRunes  = 80
)

// Draft is what the player submits.
type Draft struct {
	Title           string
	Content         string
	EvidenceSupport []string
}

// Theory is a saved hypothesis. Theories are never edited after creation.
type Theory struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	EvidenceSupport []string  `json:"evidenceSupport"`
	Feedback        []string  `json:"feedback"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Feedback analyses draft against the evidence in pool it cites. Messages are advisory and appear in a fixed
// order: evidence coverage, then media specific hints, then description length.
func Feedback(draft Draft, pool []models.Evidence) []string {
	var linked []models.Evidence
	for _, ev := range pool {
		if slices.Contains(draft.EvidenceSupport, ev.ID) {
			linked = append(linked, ev)
		}
	}

	feedback := []string{}
	if len(linked) == 0 {
		feedback = append(feedback, MsgMissingEvidence)
	} else {
		events := map[string]struct{}{}
		var hasAudio, hasMap bool
		for _, ev := range linked {
			if ev.EventID != "" {
				events[ev.EventID] = struct{}{}
			}
			hasAudio = hasAudio || ev.Type == models.EvidenceAudio
			hasMap = hasMap || ev.Type == models.EvidenceMap
		}
		switch {
		case len(events) > 1:
			feedback = append(feedback, MsgDispersedEvents)
		case len(events) == 1:
			feedback = append(feedback, MsgConcentratedEvent)
		}
		if hasAudio {
			feedback = append(feedback, MsgAudio)
		}
		if hasMap {
			feedback = append(feedback, MsgMap)
		}
	}

	if utf8.RuneCountInString(draft.Content) < minDescriptionRunes {
		feedback = append(feedback, MsgExpandDescription)
	}
	return feedback
}

// New builds the stored theory for draft. The second return value is false when the title is blank.
func New(draft Draft, pool []models.Evidence, id string, now time.Time) (Theory, bool) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Theory{}, false //nolint:exhaustruct // zero value
	}
	support := slices.Clone(draft.EvidenceSupport)
	if support == nil {
		support = []string{}
	}
	return Theory{
		ID:              id,
		Title:           title,
		Content:         strings.TrimSpace(draft.Content),
		EvidenceSupport: support,
		Feedback:        Feedback(draft, pool),
		CreatedAt:       now.UTC(),
	}, true
}
