package progress

import (
	"github.com/homecrimes/caseroom/internal/acts"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/unlock"
)

// View is progress reconciled against the content it applies to.
type View struct {
	unlock.Effective
	Acts acts.State
}

// Effective reconciles the content's declared unlock flags with what the player earned.
func Effective(content models.Content, p Progress) View {
	return View{
		Effective: unlock.Resolve(content, p.State),
		Acts:      acts.Effective(p.Acts, content.Acts),
	}
}

// AccessibleEvidence returns the evidence the player can currently see with its Unlocked flag reconciled.
func (v View) AccessibleEvidence(content models.Content) []models.Evidence {
	out := make([]models.Evidence, 0, len(content.Evidence))
	for _, ev := range content.Evidence {
		ev.Unlocked = v.Evidence.Has(ev.ID)
		out = append(out, ev)
	}
	return out
}

// Summary counts progress for display.
type Summary struct {
	ViewedEvidence   int
	EventsWithStatus int
	Theories         int
	ActsUnlocked     int
	ActsTotal        int
	QuestionsSolved  int
}

func Summarize(content models.Content, p Progress) Summary {
	view := Effective(content, p)
	unlockedActs := 0
	for _, act := range content.Acts {
		if view.Acts.UnlockedActs.Has(act.ID) {
			unlockedActs++
		}
	}
	solved := 0
	for _, q := range content.Questions {
		if p.Responses[q.ID].Correct {
			solved++
		}
	}
	return Summary{
		ViewedEvidence:   len(p.ViewedEvidenceIDs),
		EventsWithStatus: len(p.ReviewedEvents),
		Theories:         len(p.Theories),
		ActsUnlocked:     unlockedActs,
		ActsTotal:        len(content.Acts),
		QuestionsSolved:  solved,
	}
}
