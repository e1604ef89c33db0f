package main

import (
	"github.com/homecrimes/caseroom/internal/models"
	"net/url"
	"slices"
	"strings"
)

// evidenceFilter narrows the evidence list. Empty fields match everything.
type evidenceFilter struct {
	Type      string
	Event     string
	Location  string
	Character string
}

// parseEvidenceFilter reads the filter from query parameters. The select boxes send "todas" or "todos"
// for no restriction.
func parseEvidenceFilter(query url.Values) evidenceFilter {
	value := func(key string) string {
		v := strings.TrimSpace(query.Get(key))
		if v == "todas" || v == "todos" {
			return ""
		}
		return v
	}
	return evidenceFilter{
		Type:      value("type"),
		Event:     value("event"),
		Location:  value("location"),
		Character: value("character"),
	}
}

func (f evidenceFilter) matches(ev models.Evidence) bool {
	return (f.Type == "" || string(ev.Type) == f.Type) &&
		(f.Event == "" || ev.EventID == f.Event) &&
		(f.Location == "" || slices.Contains(ev.LocationIDs, f.Location)) &&
		(f.Character == "" || slices.Contains(ev.CharacterIDs, f.Character))
}

func filterEvidence(evidence []models.Evidence, f evidenceFilter) []models.Evidence {
	out := make([]models.Evidence, 0, len(evidence))
	for _, ev := range evidence {
		if f.matches(ev) {
			out = append(out, ev)
		}
	}
	return out
}

type filterOption struct {
	Value    string
	Label    string
	Selected bool
}

type filterOptions struct {
	Types      []filterOption
	Events     []filterOption
	Locations  []filterOption
	Characters []filterOption
}

func newFilterOptions(c models.Content, f evidenceFilter) filterOptions {
	opts := filterOptions{} //nolint:exhaustruct // filled below
	for _, t := range models.EvidenceTypes() {
		opts.Types = append(opts.Types, filterOption{Value: string(t), Label: evidenceTypeLabels[t], Selected: string(t) == f.Type})
	}
	for _, e := range c.Events {
		opts.Events = append(opts.Events, filterOption{Value: e.ID, Label: e.Title, Selected: e.ID == f.Event})
	}
	for _, l := range c.Locations {
		opts.Locations = append(opts.Locations, filterOption{Value: l.ID, Label: l.Name, Selected: l.ID == f.Location})
	}
	for _, ch := range c.Characters {
		opts.Characters = append(opts.Characters, filterOption{Value: ch.ID, Label: ch.Name, Selected: ch.ID == f.Character})
	}
	return opts
}
