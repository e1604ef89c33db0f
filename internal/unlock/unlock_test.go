package unlock_test

import (
	"encoding/json"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/unlock"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestApply(t *testing.T) {
	rule := models.UnlockRule{
		EvidenceIDs: []string{"audio_cueva"},
		EventIDs:    []string{"cueva"},
		LocationIDs: []string{"cueva"},
	}

	once := unlock.Apply(rule, unlock.EmptyState())
	twice := unlock.Apply(rule, once)

	require.Equal(t, []string{"audio_cueva"}, once.Evidence.Sorted())
	require.Equal(t, once, twice, "applying a rule twice must be a no-op")
}

func TestApply_monotonicAndOrderIndependent(t *testing.T) {
	a := models.UnlockRule{EvidenceIDs: []string{"e1"}, EventIDs: []string{"ev1"}}
	b := models.UnlockRule{EvidenceIDs: []string{"e2"}, LocationIDs: []string{"l1"}}
	prior := unlock.State{
		Evidence:  unlock.NewSet("e0"),
		Events:    unlock.NewSet(),
		Locations: unlock.NewSet(),
	}

	ab := unlock.Apply(b, unlock.Apply(a, prior))
	ba := unlock.Apply(a, unlock.Apply(b, prior))
	require.Equal(t, ab, ba)
	require.Equal(t, []string{"e0", "e1", "e2"}, ab.Evidence.Sorted())
	require.True(t, ab.Locations.Has("l1"))

	// Empty rules leave everything in place.
	require.Equal(t, prior, unlock.Apply(models.UnlockRule{}, prior))
	require.Equal(t, []string{"e0"}, prior.Evidence.Sorted(), "prior state is not mutated")
}

func TestReconcile(t *testing.T) {
	got := unlock.Reconcile([]string{"e1"}, []string{"e2"})
	require.Equal(t, []string{"e1", "e2"}, got.Sorted())

	// A server flag turning off never revokes a local unlock.
	got = unlock.Reconcile(nil, []string{"e2"})
	require.Equal(t, []string{"e2"}, got.Sorted())
}

func TestResolve(t *testing.T) {
	content := models.Content{
		Evidence: []models.Evidence{{ID: "e1", Unlocked: true}, {ID: "e2"}, {ID: "e3"}},
		Events:   []models.Event{{ID: "ev1"}, {ID: "ev2", Unlocked: true}},
		Locations: []models.Location{
			{ID: "l1", Unlocked: true},
		},
	}
	local := unlock.Apply(models.UnlockRule{EvidenceIDs: []string{"e2"}, EventIDs: []string{"ev1"}}, unlock.EmptyState())

	effective := unlock.Resolve(content, local)
	require.Equal(t, []string{"e1", "e2"}, effective.Evidence.Sorted())
	require.Equal(t, []string{"ev1", "ev2"}, effective.Events.Sorted())
	require.Equal(t, []string{"l1"}, effective.Locations.Sorted())
}

func TestSet_JSON(t *testing.T) {
	b, err := json.Marshal(unlock.NewSet("b", "a"))
	require.NoError(t, err)
	require.JSONEq(t, `["a","b"]`, string(b))

	var s unlock.Set
	require.NoError(t, json.Unmarshal([]byte(`["x","x",""]`), &s))
	require.Equal(t, []string{"x"}, s.Sorted())
}
