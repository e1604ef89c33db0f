package answer_test

import (
	"github.com/homecrimes/caseroom/internal/answer"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		expected models.Answer
		given    models.Answer
		want     bool
	}{
		{name: "exact", expected: models.ScalarAnswer("1408"), given: models.ScalarAnswer("1408"), want: true},
		{name: "trimmed", expected: models.ScalarAnswer("1408"), given: models.ScalarAnswer(" 1408 "), want: true},
		{name: "mismatch", expected: models.ScalarAnswer("1408"), given: models.ScalarAnswer("1409"), want: false},
		{
			name:     "case insensitive",
			expected: models.ScalarAnswer("Coinciden con mareas vivas"),
			given:    models.ScalarAnswer("coinciden con MAREAS vivas"),
			want:     true,
		},
		{
			name:     "set semantics",
			expected: models.ListAnswer("Plaza", "Cueva"),
			given:    models.ListAnswer("Cueva", "Plaza"),
			want:     true,
		},
		{
			name:     "list length differs",
			expected: models.ListAnswer("Plaza", "Cueva"),
			given:    models.ListAnswer("Cueva", "Plaza", "Búnkers"),
			want:     false,
		},
		{
			name:     "list item missing",
			expected: models.ListAnswer("Plaza", "Cueva"),
			given:    models.ListAnswer("Plaza", "Plaza"),
			want:     false,
		},
		{
			name:     "list items are not normalized",
			expected: models.ListAnswer("Plaza"),
			given:    models.ListAnswer("plaza"),
			want:     false,
		},
		{name: "list given for scalar", expected: models.ScalarAnswer("Plaza"), given: models.ListAnswer("Plaza"), want: false},
		{name: "scalar given for list", expected: models.ListAnswer("Plaza"), given: models.ScalarAnswer("Plaza"), want: false},
		{name: "absent given", expected: models.ScalarAnswer("1408"), given: models.Answer{}, want: false},
		{name: "absent list given", expected: models.ListAnswer("Plaza"), given: models.Answer{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, answer.Compare(tt.expected, tt.given))
		})
	}
}

// Chronology questions present an ordered route, yet any permutation of the right stops is accepted.
func TestCompare_chronologyIgnoresOrder(t *testing.T) {
	expected := models.ListAnswer("Plaza", "Acantilado", "Cueva", "Búnkers")
	reversed := models.ListAnswer("Búnkers", "Cueva", "Acantilado", "Plaza")
	require.True(t, answer.Compare(expected, reversed))
}

func TestMatches(t *testing.T) {
	require.True(t, answer.Matches("Marea Viva", "  marea viva"))
	require.False(t, answer.Matches("marea viva", "marea"))
	require.False(t, answer.Matches("", ""), "empty secret never matches")
	require.False(t, answer.Matches("   ", "   "))
}
