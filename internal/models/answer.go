package models

import (
	"encoding/json"
	"github.com/homecrimes/caseroom/internal/errors"
)

// Answer is either a single value or a list of values. Chronology and association questions expect lists.
type Answer struct {
	Value  string
	Values []string
	IsList bool
}

func ScalarAnswer(v string) Answer {
	return Answer{Value: v, Values: nil, IsList: false}
}

func ListAnswer(vs ...string) Answer {
	if vs == nil {
		vs = []string{}
	}
	return Answer{Value: "", Values: vs, IsList: true}
}

// IsZero reports whether nothing was answered.
func (a Answer) IsZero() bool {
	if a.IsList {
		return len(a.Values) == 0
	}
	return a.Value == ""
}

// MarshalJSON encodes the answer as a JSON string or array.
func (a Answer) MarshalJSON() ([]byte, error) {
	var (
		b   []byte
		err error
	)
	if a.IsList {
		values := a.Values
		if values == nil {
			values = []string{}
		}
		b, err = json.Marshal(values)
	} else {
		b, err = json.Marshal(a.Value)
	}
	if err != nil {
		return nil, errors.Wrap(err, "marshal answer")
	}
	return b, nil
}

// UnmarshalJSON accepts a string, an array of strings or null.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "unmarshal answer")
	}
	parsed, ok := AnswerFromAny(raw)
	if !ok {
		return errors.New("answer must be a string or a list of strings")
	}
	*a = parsed
	return nil
}

// AnswerFromAny converts a decoded JSON or YAML value into an Answer. Numbers and booleans are kept as text.
func AnswerFromAny(v any) (Answer, bool) {
	switch t := v.(type) {
	case nil:
		return ScalarAnswer(""), true
	case string:
		return ScalarAnswer(t), true
	case []string:
		return ListAnswer(t...), true
	case []any:
		values := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := scalarText(item)
			if !ok {
				return Answer{}, false //nolint:exhaustruct // zero value
			}
			values = append(values, s)
		}
		return ListAnswer(values...), true
	default:
		s, ok := scalarText(t)
		if !ok {
			return Answer{}, false //nolint:exhaustruct // zero value
		}
		return ScalarAnswer(s), true
	}
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64, int, int64, bool:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return "", false
	}
}
