// Package acts implements the act and clue lifecycle as pure reducers.
//
// Acts move from locked to unlocked and clues from hidden to revealed. Neither transition is ever reversed
// except by [Reset].
package acts

import (
	"github.com/homecrimes/caseroom/internal/answer"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/unlock"
	"unicode/utf8"
)

type Status string

const (
	StatusNone    Status = ""
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Feedback is the player facing outcome of a transition attempt.
type Feedback struct {
	Status  Status
	Message string
}

const (
	MsgPrerequisites   = "Debes completar los actos anteriores antes de intentar este desenlace."
	MsgAutoUnlocked    = "Acto abierto automáticamente."
	MsgCodeAccepted    = "Respuesta correcta. Puedes acceder al acto."
	MsgFileSolved      = "Perfecto. El archivo resuelto desbloquea este acto."
	MsgActNoFit        = "La pista no encaja. Revisa las evidencias y vuelve a probar."
	MsgUnlockActFirst  = "Debes abrir el acto antes de intentar resolver esta pista."
	MsgClueRevealed    = "Bien jugado. Pista desbloqueada."
	MsgClueNoFit       = "Esa respuesta no encaja con la prueba. Intenta con otro dato."
	fileSolvedMinRunes = 3
)

var noFeedback = Feedback{Status: StatusNone, Message: ""}

func success(msg string) Feedback { return Feedback{Status: StatusSuccess, Message: msg} }
func failure(msg string) Feedback { return Feedback{Status: StatusError, Message: msg} }

// State is the persisted act progress of a player.
type State struct {
	UnlockedActs  unlock.Set `json:"unlockedActs"`
	RevealedClues unlock.Set `json:"revealedClues"`
}

// Initial unlocks the first act by order and every act with the auto strategy.
func Initial(acts []models.Act) State {
	return State{
		UnlockedActs:  unlock.NewSet(automatic(acts)...),
		RevealedClues: unlock.NewSet(),
	}
}

// Reset discards all progress and returns to [Initial].
func Reset(acts []models.Act) State {
	return Initial(acts)
}

func automatic(acts []models.Act) []string {
	var ids []string
	for i, act := range models.SortActs(acts) {
		if i == 0 || act.UnlockType == models.UnlockAuto {
			ids = append(ids, act.ID)
		}
	}
	return ids
}

// Effective merges the automatically unlocked acts into a stored state. Stored state may predate content
// changes that made more acts automatic.
func Effective(state State, acts []models.Act) State {
	return State{
		UnlockedActs:  unlock.NewSet(automatic(acts)...).Union(state.UnlockedActs),
		RevealedClues: unlock.NewSet().Union(state.RevealedClues),
	}
}

func IsUnlocked(state State, acts []models.Act, actID string) bool {
	return Effective(state, acts).UnlockedActs.Has(actID)
}

// ClueRevealed reports whether clue is visible. Clues without a solution show as soon as their act unlocks.
func ClueRevealed(state State, acts []models.Act, act models.Act, clue models.Clue) bool {
	if !IsUnlocked(state, acts, act.ID) {
		return false
	}
	return !clue.HasSolution() || state.RevealedClues.Has(clue.ID)
}

// Completed reports whether act is unlocked and every clue that has a solution is revealed.
func Completed(state State, acts []models.Act, act models.Act) bool {
	if !IsUnlocked(state, acts, act.ID) {
		return false
	}
	for _, clue := range act.Clues {
		if clue.HasSolution() && !state.RevealedClues.Has(clue.ID) {
			return false
		}
	}
	return true
}

// AllPrerequisitesMet reports whether every non-final act is completed.
func AllPrerequisitesMet(state State, acts []models.Act) bool {
	for _, act := range acts {
		if act.IsFinalStep {
			continue
		}
		if !Completed(state, acts, act) {
			return false
		}
	}
	return true
}

// UnlockAct attempts to unlock act with the player's attempt.
//
// Rejections leave the state untouched. Empty attempts that do not unlock anything produce no feedback.
func UnlockAct(state State, acts []models.Act, act models.Act, attempt string) (State, Feedback) {
	state = Effective(state, acts)
	if act.IsFinalStep && !AllPrerequisitesMet(state, acts) {
		return state, failure(MsgPrerequisites)
	}

	normalized := answer.Normalize(attempt)
	switch act.UnlockType {
	case models.UnlockAuto:
		return withAct(state, act.ID), success(MsgAutoUnlocked)
	case models.UnlockCode, models.UnlockAnswer:
		if answer.Matches(act.UnlockCode, attempt) {
			return withAct(state, act.ID), success(MsgCodeAccepted)
		}
	case models.UnlockFileSolved:
		if utf8.RuneCountInString(normalized) >= fileSolvedMinRunes {
			return withAct(state, act.ID), success(MsgFileSolved)
		}
	}

	if normalized == "" {
		return state, noFeedback
	}
	return state, failure(MsgActNoFit)
}

// RevealClue attempts to reveal clue of act with the player's attempt. The act must already be unlocked.
func RevealClue(state State, acts []models.Act, act models.Act, clue models.Clue, attempt string) (State, Feedback) {
	state = Effective(state, acts)
	if !state.UnlockedActs.Has(act.ID) {
		return state, failure(MsgUnlockActFirst)
	}

	if !clue.HasSolution() || answer.Matches(clue.Solution, attempt) {
		return State{
			UnlockedActs:  state.UnlockedActs,
			RevealedClues: state.RevealedClues.With(clue.ID),
		}, success(MsgClueRevealed)
	}

	if answer.Normalize(attempt) == "" {
		return state, noFeedback
	}
	return state, failure(MsgClueNoFit)
}

func withAct(state State, actID string) State {
	return State{
		UnlockedActs:  state.UnlockedActs.With(actID),
		RevealedClues: state.RevealedClues,
	}
}
