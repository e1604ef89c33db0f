package models

import (
	"cmp"
	"slices"
	"strings"
)

// Source tells where a [Content] value was loaded from.
type Source string

const (
	SourceCMS      Source = "cms"
	SourceFallback Source = "fallback"
)

// CaseFile describes the investigation a product unlocks.
//
// Version is the reconciliation key for stored progress. Bumping it discards every snapshot saved for the
// previous version.
type CaseFile struct {
	Slug      string `json:"slug"`
	Title     string `json:"title" validate:"required"`
	Briefing  string `json:"briefing"`
	Objective string `json:"objective"`
	Version   string `json:"version" validate:"required"`
	Status    string `json:"status,omitempty"`
}

type UnlockType string

const (
	UnlockAuto       UnlockType = "auto"
	UnlockCode       UnlockType = "code"
	UnlockAnswer     UnlockType = "answer"
	UnlockFileSolved UnlockType = "fileSolved"
)

// Act is a chapter of the campaign. Acts are played in Order and gate their Clues.
type Act struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Order       int        `json:"order"`
	Description string     `json:"description,omitempty"`
	UnlockType  UnlockType `json:"unlockType" validate:"oneof=auto code answer fileSolved"`
	UnlockCode  string     `json:"unlockCode,omitempty"`
	IsFinalStep bool       `json:"isFinalStep"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	Clues       []Clue     `json:"clues" validate:"dive"`
}

// Clue is a piece of act content. Clues with a Solution stay hidden until the player submits it.
type Clue struct {
	ID           string `json:"id" validate:"required"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Content      string `json:"content,omitempty"`
	File         string `json:"file,omitempty"`
	PreviewImage string `json:"previewImage,omitempty"`
	Order        int    `json:"order"`
	Solution     string `json:"solution,omitempty"`
}

func (c Clue) HasSolution() bool {
	return strings.TrimSpace(c.Solution) != ""
}

type Event struct {
	ID                string `json:"id" validate:"required"`
	Title             string `json:"title" validate:"required"`
	Description       string `json:"description"`
	Order             int    `json:"order"`
	Unlocked          bool   `json:"unlocked"`
	RestrictionReason string `json:"restrictionReason,omitempty"`
}

type EvidenceType string

const (
	EvidenceDocument EvidenceType = "documento"
	EvidencePhoto    EvidenceType = "foto"
	EvidenceAudio    EvidenceType = "audio"
	EvidenceObject   EvidenceType = "objeto"
	EvidenceClipping EvidenceType = "recorte"
	EvidenceMap      EvidenceType = "mapa"
	EvidenceOther    EvidenceType = "otro"
)

// Evidence originates from at most one Event and may reference several locations, characters and families.
type Evidence struct {
	ID                string       `json:"id" validate:"required"`
	Title             string       `json:"title" validate:"required"`
	Summary           string       `json:"summary"`
	Type              EvidenceType `json:"type" validate:"oneof=documento foto audio objeto recorte mapa otro"`
	EventID           string       `json:"eventId,omitempty"`
	LocationIDs       []string     `json:"locationIds,omitempty"`
	CharacterIDs      []string     `json:"characterIds,omitempty"`
	FamilyIDs         []string     `json:"familyIds,omitempty"`
	MediaURL          string       `json:"mediaUrl,omitempty"`
	PreviewURL        string       `json:"previewUrl,omitempty"`
	Transcript        string       `json:"transcript,omitempty"`
	Unlocked          bool         `json:"unlocked"`
	RestrictionReason string       `json:"restrictionReason,omitempty"`
}

// EvidenceTypes lists every evidence type in display order.
func EvidenceTypes() []EvidenceType {
	return []EvidenceType{
		EvidenceDocument, EvidencePhoto, EvidenceAudio, EvidenceObject, EvidenceClipping, EvidenceMap, EvidenceOther,
	}
}

// ParseEvidenceType returns the matching type or [EvidenceOther] when s is not a known type.
func ParseEvidenceType(s string) EvidenceType {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range EvidenceTypes() {
		if s == string(t) {
			return t
		}
	}
	return EvidenceOther
}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Location struct {
	ID                string      `json:"id" validate:"required"`
	Name              string      `json:"name" validate:"required"`
	Description       string      `json:"description"`
	Coordinates       Coordinates `json:"coordinates"`
	Notes             string      `json:"notes,omitempty"`
	Unlocked          bool        `json:"unlocked"`
	RestrictionReason string      `json:"restrictionReason,omitempty"`
	EvidenceIDs       []string    `json:"evidenceIds"`
}

type Character struct {
	ID                string `json:"id" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Family            string `json:"family,omitempty"`
	FamilyID          string `json:"familyId,omitempty"`
	Notes             string `json:"notes,omitempty"`
	Unlocked          bool   `json:"unlocked"`
	RestrictionReason string `json:"restrictionReason,omitempty"`
}

type Family struct {
	ID                string `json:"id" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Description       string `json:"description,omitempty"`
	Unlocked          bool   `json:"unlocked"`
	RestrictionReason string `json:"restrictionReason,omitempty"`
}

type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple_choice"
	QuestionAssociation    QuestionKind = "association"
	QuestionChronology     QuestionKind = "chronology"
)

// UnlockRule lists the entities a correctly answered question grants access to. Rules only ever add.
type UnlockRule struct {
	EvidenceIDs []string `json:"evidenceIds"`
	EventIDs    []string `json:"eventIds"`
	LocationIDs []string `json:"locationIds"`
}

func (u UnlockRule) IsEmpty() bool {
	return len(u.EvidenceIDs) == 0 && len(u.EventIDs) == 0 && len(u.LocationIDs) == 0
}

type Question struct {
	ID         string       `json:"id" validate:"required"`
	Prompt     string       `json:"prompt" validate:"required"`
	Kind       QuestionKind `json:"type" validate:"oneof=multiple_choice association chronology"`
	Options    []string     `json:"options"`
	Answer     Answer       `json:"answer"`
	Hints      []string     `json:"hints"`
	HelperText string       `json:"helperText,omitempty"`
	Unlocks    UnlockRule   `json:"unlocks"`
	Unlocked   bool         `json:"unlocked"`
}

// Content is the complete canonical case consumed by the game engine. It is read-only once loaded.
type Content struct {
	Case       CaseFile    `json:"caseFile"`
	Acts       []Act       `json:"acts"`
	Events     []Event     `json:"events"`
	Evidence   []Evidence  `json:"evidences"`
	Locations  []Location  `json:"locations"`
	Questions  []Question  `json:"questions"`
	Characters []Character `json:"characters"`
	Families   []Family    `json:"families"`
	Source     Source      `json:"source"`
}

// SortActs orders acts by Order, keeping the given order for ties.
func SortActs(acts []Act) []Act {
	sorted := slices.Clone(acts)
	slices.SortStableFunc(sorted, func(a, b Act) int {
		return cmp.Compare(a.Order, b.Order)
	})
	for i := range sorted {
		clues := slices.Clone(sorted[i].Clues)
		slices.SortStableFunc(clues, func(a, b Clue) int {
			return cmp.Compare(a.Order, b.Order)
		})
		sorted[i].Clues = clues
	}
	return sorted
}

func (c Content) Act(id string) (Act, bool) {
	for _, act := range c.Acts {
		if act.ID == id {
			return act, true
		}
	}
	return Act{}, false //nolint:exhaustruct // zero value
}

// Clue returns the clue with id together with the act it belongs to.
func (c Content) Clue(id string) (Act, Clue, bool) {
	for _, act := range c.Acts {
		for _, clue := range act.Clues {
			if clue.ID == id {
				return act, clue, true
			}
		}
	}
	return Act{}, Clue{}, false //nolint:exhaustruct // zero value
}

func (c Content) Question(id string) (Question, bool) {
	for _, q := range c.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false //nolint:exhaustruct // zero value
}

func (c Content) Event(id string) (Event, bool) {
	for _, e := range c.Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false //nolint:exhaustruct // zero value
}

func (c Content) EvidenceItem(id string) (Evidence, bool) {
	for _, e := range c.Evidence {
		if e.ID == id {
			return e, true
		}
	}
	return Evidence{}, false //nolint:exhaustruct // zero value
}

func (c Content) Location(id string) (Location, bool) {
	for _, l := range c.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false //nolint:exhaustruct // zero value
}
