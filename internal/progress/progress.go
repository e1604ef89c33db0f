// Package progress owns the stored investigation progress of a player for one case version.
//
// All mutations are pure reducers over [Progress]. Persistence lives in [Service].
package progress

import (
	"encoding/json"
	"github.com/homecrimes/caseroom/internal/acts"
	"github.com/homecrimes/caseroom/internal/answer"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/theory"
	"github.com/homecrimes/caseroom/internal/unlock"
	"log/slog"
	"maps"
	"slices"
	"time"
)

type EventStatus string

const (
	EventOpen       EventStatus = "abierto"
	EventReviewed   EventStatus = "revisado"
	EventConclusion EventStatus = "conclusion"
)

// Next cycles abierto, revisado, conclusion and back to abierto. Unknown values restart the cycle.
func (s EventStatus) Next() EventStatus {
	switch s {
	case EventOpen:
		return EventReviewed
	case EventReviewed:
		return EventConclusion
	case EventConclusion:
		return EventOpen
	default:
		return EventReviewed
	}
}

const (
	// MaxHints is how many hints per question are counted.
	MaxHints       = 2
	MsgNoMoreHints = "Sin pistas adicionales."
)

var (
	ErrCorrupt         = errors.NewSentinel("stored progress is corrupt")
	ErrMissingVersion  = errors.NewSentinel("stored progress has no case version")
	ErrVersionMismatch = errors.NewSentinel("stored progress belongs to another case version")
)

type QuestionResponse struct {
	Answer    models.Answer `json:"answer"`
	Correct   bool          `json:"correct"`
	HintsUsed int           `json:"hintsUsed"`
}

// Progress is the persisted snapshot. Unknown JSON fields are ignored when decoding.
type Progress struct {
	ReviewedEvents map[string]EventStatus `json:"reviewedEvents"`
	unlock.State
	ViewedEvidenceIDs unlock.Set                  `json:"viewedEvidenceIds"`
	Theories          []theory.Theory             `json:"theories"`
	Responses         map[string]QuestionResponse `json:"questionResponses"`
	Acts              acts.State                  `json:"acts"`
	CaseVersion       string                      `json:"caseVersion"`
}

// Empty returns fresh progress stamped with version.
func Empty(version string) Progress {
	return Progress{
		ReviewedEvents:    map[string]EventStatus{},
		State:             unlock.EmptyState(),
		ViewedEvidenceIDs: unlock.NewSet(),
		Theories:          []theory.Theory{},
		Responses:         map[string]QuestionResponse{},
		Acts:              acts.State{UnlockedActs: unlock.NewSet(), RevealedClues: unlock.NewSet()},
		CaseVersion:       version,
	}
}

// Reset discards everything and starts over for version.
func Reset(version string) Progress {
	return Empty(version)
}

// Encode serializes p for storage.
func Encode(p Progress) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshal progress")
	}
	return b, nil
}

// Decode restores stored progress for version.
//
// It always returns usable progress. Absent, corrupt or outdated snapshots yield [Empty] and, except for the
// absent case, an error describing why the snapshot was discarded.
func Decode(blob []byte, version string) (Progress, error) {
	if len(blob) == 0 {
		return Empty(version), nil
	}
	var p Progress
	if err := json.Unmarshal(blob, &p); err != nil {
		return Empty(version), errors.Wrap(ErrCorrupt, "unmarshal progress", slog.String("cause", err.Error()))
	}
	if p.CaseVersion == "" {
		return Empty(version), ErrMissingVersion
	}
	if p.CaseVersion != version {
		return Empty(version), errors.Wrap(ErrVersionMismatch, "discard progress",
			slog.String("stored_version", p.CaseVersion), slog.String("case_version", version))
	}
	return fillMissing(p), nil
}

func fillMissing(p Progress) Progress {
	empty := Empty(p.CaseVersion)
	if p.ReviewedEvents == nil {
		p.ReviewedEvents = empty.ReviewedEvents
	}
	if p.Evidence == nil {
		p.Evidence = empty.Evidence
	}
	if p.Events == nil {
		p.Events = empty.Events
	}
	if p.Locations == nil {
		p.Locations = empty.Locations
	}
	if p.ViewedEvidenceIDs == nil {
		p.ViewedEvidenceIDs = empty.ViewedEvidenceIDs
	}
	if p.Theories == nil {
		p.Theories = empty.Theories
	}
	if p.Responses == nil {
		p.Responses = empty.Responses
	}
	if p.Acts.UnlockedActs == nil {
		p.Acts.UnlockedActs = empty.Acts.UnlockedActs
	}
	if p.Acts.RevealedClues == nil {
		p.Acts.RevealedClues = empty.Acts.RevealedClues
	}
	return p
}

// RecordAnswer stores the player's answer to question and applies its unlock rule when correct.
// Hints already used are kept.
func RecordAnswer(p Progress, question models.Question, given models.Answer) (Progress, bool) {
	correct := answer.Compare(question.Answer, given)
	responses := maps.Clone(p.Responses)
	if responses == nil {
		responses = map[string]QuestionResponse{}
	}
	responses[question.ID] = QuestionResponse{
		Answer:    given,
		Correct:   correct,
		HintsUsed: p.Responses[question.ID].HintsUsed,
	}
	p.Responses = responses
	if correct {
		p.State = unlock.Apply(question.Unlocks, p.State)
	}
	return p, correct
}

// ConsumeHint returns the next hint for question. Only the first [MaxHints] requests are counted; later
// requests repeat the last hint without being recorded.
func ConsumeHint(p Progress, question models.Question) (Progress, string) {
	if len(question.Hints) == 0 {
		return p, MsgNoMoreHints
	}
	response, ok := p.Responses[question.ID]
	if !ok {
		response = QuestionResponse{Answer: models.ScalarAnswer(""), Correct: false, HintsUsed: 0}
	}
	used := response.HintsUsed
	hint := question.Hints[min(used, len(question.Hints)-1)]
	if used >= MaxHints {
		return p, hint
	}
	response.HintsUsed = used + 1
	responses := maps.Clone(p.Responses)
	if responses == nil {
		responses = map[string]QuestionResponse{}
	}
	responses[question.ID] = response
	p.Responses = responses
	return p, hint
}

// CycleEventStatus advances the review status of an event. Locked events are left alone.
func CycleEventStatus(p Progress, eventID string, unlocked bool) Progress {
	if !unlocked {
		return p
	}
	current, ok := p.ReviewedEvents[eventID]
	if !ok {
		current = EventOpen
	}
	reviewed := maps.Clone(p.ReviewedEvents)
	if reviewed == nil {
		reviewed = map[string]EventStatus{}
	}
	reviewed[eventID] = current.Next()
	p.ReviewedEvents = reviewed
	return p
}

// EventStatusOf returns the stored status of an event, [EventOpen] when never reviewed.
func EventStatusOf(p Progress, eventID string) EventStatus {
	if status, ok := p.ReviewedEvents[eventID]; ok {
		return status
	}
	return EventOpen
}

// ViewEvidence marks evidence as seen. Locked evidence cannot be viewed.
func ViewEvidence(p Progress, evidenceID string, unlocked bool) Progress {
	if !unlocked {
		return p
	}
	p.ViewedEvidenceIDs = p.ViewedEvidenceIDs.With(evidenceID)
	return p
}

// AddTheory prepends a theory built from draft. Drafts with a blank title are ignored.
//
// pool should hold the evidence the player can access so that feedback only considers what they can see.
func AddTheory(p Progress, draft theory.Draft, pool []models.Evidence, id string, now time.Time) (Progress, bool) {
	created, ok := theory.New(draft, pool, id, now)
	if !ok {
		return p, false
	}
	p.Theories = append([]theory.Theory{created}, p.Theories...)
	return p, true
}

// Theory returns the stored theory with id.
func Theory(p Progress, id string) (theory.Theory, bool) {
	i := slices.IndexFunc(p.Theories, func(t theory.Theory) bool { return t.ID == id })
	if i < 0 {
		return theory.Theory{}, false //nolint:exhaustruct // zero value
	}
	return p.Theories[i], true
}

// UnlockAct runs [acts.UnlockAct] against the act progress.
func UnlockAct(p Progress, all []models.Act, act models.Act, attempt string) (Progress, acts.Feedback) {
	state, feedback := acts.UnlockAct(p.Acts, all, act, attempt)
	p.Acts = state
	return p, feedback
}

// RevealClue runs [acts.RevealClue] against the act progress.
func RevealClue(p Progress, all []models.Act, act models.Act, clue models.Clue, attempt string) (Progress, acts.Feedback) {
	state, feedback := acts.RevealClue(p.Acts, all, act, clue, attempt)
	p.Acts = state
	return p, feedback
}
