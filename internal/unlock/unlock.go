// Package unlock grows the sets of unlocked evidence, events and locations.
//
// Every operation is a union, so applying a rule is idempotent, monotonic and independent of the order rules
// are applied in. Nothing in this package ever removes an id.
package unlock

import (
	"github.com/homecrimes/caseroom/internal/models"
)

// State holds the ids a player has unlocked locally.
type State struct {
	Evidence  Set `json:"unlockedEvidenceIds"`
	Events    Set `json:"unlockedEventIds"`
	Locations Set `json:"unlockedLocationIds"`
}

func EmptyState() State {
	return State{
		Evidence:  NewSet(),
		Events:    NewSet(),
		Locations: NewSet(),
	}
}

// Apply adds everything rule grants to prior.
func Apply(rule models.UnlockRule, prior State) State {
	return State{
		Evidence:  prior.Evidence.With(rule.EvidenceIDs...),
		Events:    prior.Events.With(rule.EventIDs...),
		Locations: prior.Locations.With(rule.LocationIDs...),
	}
}

// Reconcile merges the ids the content source declares unlocked with the ids earned locally.
//
// Content may grant access that has not been earned yet but never revokes a local unlock.
func Reconcile(serverDeclared, local []string) Set {
	return NewSet(serverDeclared...).With(local...)
}

// Declared returns the ids of entities the content source flags as unlocked.
func Declared[T any](entities []T, id func(T) string, unlocked func(T) bool) []string {
	var ids []string
	for _, e := range entities {
		if unlocked(e) {
			ids = append(ids, id(e))
		}
	}
	return ids
}

// Effective is the reconciled view of unlocked entities for a case.
type Effective struct {
	Evidence  Set
	Events    Set
	Locations Set
}

// Resolve reconciles content declared flags with local state for every entity category.
func Resolve(content models.Content, local State) Effective {
	return Effective{
		Evidence: Reconcile(
			Declared(content.Evidence,
				func(e models.Evidence) string { return e.ID },
				func(e models.Evidence) bool { return e.Unlocked }),
			local.Evidence.Sorted(),
		),
		Events: Reconcile(
			Declared(content.Events,
				func(e models.Event) string { return e.ID },
				func(e models.Event) bool { return e.Unlocked }),
			local.Events.Sorted(),
		),
		Locations: Reconcile(
			Declared(content.Locations,
				func(l models.Location) string { return l.ID },
				func(l models.Location) bool { return l.Unlocked }),
			local.Locations.Sorted(),
		),
	}
}
