package unlock

import (
	"encoding/json"
	"github.com/homecrimes/caseroom/internal/errors"
	"maps"
	"slices"
)

// Set is a set of entity ids. It encodes to JSON as a sorted array.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// With returns a copy of s that also contains ids. s is not modified.
func (s Set) With(ids ...string) Set {
	out := make(Set, len(s)+len(ids))
	maps.Copy(out, s)
	for _, id := range ids {
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

// Union returns a new set with the members of s and other.
func (s Set) Union(other Set) Set {
	return s.With(other.Sorted()...)
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

func (s Set) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, errors.Wrap(err, "marshal id set")
	}
	return b, nil
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return errors.Wrap(err, "unmarshal id set")
	}
	*s = NewSet(ids...)
	return nil
}
