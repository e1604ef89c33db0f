package main

import (
	"github.com/homecrimes/caseroom/internal/answer"
	"github.com/homecrimes/caseroom/internal/models"
	"github.com/homecrimes/caseroom/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func parsedForm(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/case/questions/q/answer", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, r.ParseForm())
	return r
}

func TestSubmittedAnswer(t *testing.T) {
	places := []string{"Plaza", "Acantilado", "Cueva", "Búnkers"}
	single := models.Question{ //nolint:exhaustruct // only the answer shape matters
		ID: "q", Kind: models.QuestionMultipleChoice, Options: places, Answer: models.ScalarAnswer("Cueva"),
	}
	association := models.Question{ //nolint:exhaustruct // only the answer shape matters
		ID: "q", Kind: models.QuestionAssociation, Options: places, Answer: models.ListAnswer("Plaza", "Cueva"),
	}
	multiSelect := models.Question{ //nolint:exhaustruct // only the answer shape matters
		ID: "q", Kind: models.QuestionMultipleChoice, Options: places, Answer: models.ListAnswer("Cueva", "Búnkers"),
	}
	chronology := models.Question{ //nolint:exhaustruct // only the answer shape matters
		ID: "q", Kind: models.QuestionChronology, Options: places, Answer: models.ListAnswer("Plaza", "Cueva"),
	}

	tests := []struct {
		name        string
		question    models.Question
		values      url.Values
		want        models.Answer
		wantOK      bool
		wantCorrect bool
	}{
		{
			name:        "scalar",
			question:    single,
			values:      url.Values{"answer": {"Cueva"}},
			want:        models.ScalarAnswer("Cueva"),
			wantOK:      true,
			wantCorrect: true,
		},
		{
			name:     "scalar missing",
			question: single,
			values:   url.Values{"answer": {"  "}},
			want:     models.ScalarAnswer("  "),
		},
		{
			name:        "association in any order",
			question:    association,
			values:      url.Values{"answer": {"Cueva", "Plaza"}},
			want:        models.ListAnswer("Cueva", "Plaza"),
			wantOK:      true,
			wantCorrect: true,
		},
		{
			name:        "multiple choice with a list answer",
			question:    multiSelect,
			values:      url.Values{"answer": {"Búnkers", "Cueva"}},
			want:        models.ListAnswer("Búnkers", "Cueva"),
			wantOK:      true,
			wantCorrect: true,
		},
		{
			name:     "association with one option missing",
			question: association,
			values:   url.Values{"answer": {"Cueva"}},
			want:     models.ListAnswer("Cueva"),
			wantOK:   true,
		},
		{
			name:     "nothing checked",
			question: association,
			values:   url.Values{},
			want:     models.ListAnswer(),
		},
		{
			name:        "chronology sized by the answer",
			question:    chronology,
			values:      url.Values{"answer": {"Plaza", "Cueva"}},
			want:        models.ListAnswer("Plaza", "Cueva"),
			wantOK:      true,
			wantCorrect: true,
		},
		{
			name:     "chronology with an empty slot",
			question: chronology,
			values:   url.Values{"answer": {"Plaza", ""}},
			want:     models.Answer{}, //nolint:exhaustruct // rejected
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := submittedAnswer(parsedForm(t, tt.values), tt.question)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.wantCorrect, answer.Compare(tt.question.Answer, got))
			}
		})
	}
}

func TestQuestionViews(t *testing.T) {
	places := []string{"Plaza", "Acantilado", "Cueva", "Búnkers"}
	questions := []models.Question{
		{ID: "single", Kind: models.QuestionAssociation, Options: places, Answer: models.ScalarAnswer("Cueva")},       //nolint:exhaustruct // test data
		{ID: "multi", Kind: models.QuestionAssociation, Options: places, Answer: models.ListAnswer("Plaza", "Cueva")}, //nolint:exhaustruct // test data
		{ID: "route", Kind: models.QuestionChronology, Options: places, Answer: models.ListAnswer("Plaza", "Cueva")},  //nolint:exhaustruct // test data
	}

	views := questionViews(questions, progress.Empty("v1"))
	require.Len(t, views, 3)

	assert.False(t, views[0].MultiSelect)
	assert.Empty(t, views[0].Slots)

	assert.True(t, views[1].MultiSelect)
	assert.Empty(t, views[1].Slots)

	assert.False(t, views[2].MultiSelect)
	assert.Equal(t, []int{0, 1}, views[2].Slots, "one slot per answer position, not per option")
}
