package content

import (
	"github.com/go-playground/validator/v10"
	"github.com/homecrimes/caseroom/internal/errors"
	"github.com/homecrimes/caseroom/internal/models"
	"log/slog"
	"strings"
)

// Raw holds the undecoded collections of one case. Each entry is a JSON or YAML decoded object.
type Raw struct {
	Case       any
	Acts       []any
	Events     []any
	Evidence   []any
	Locations  []any
	Questions  []any
	Characters []any
	Families   []any
}

// Normalizer maps heterogeneous CMS entries to the canonical model. Entries failing validation are dropped.
type Normalizer struct {
	baseURL  string
	validate *validator.Validate
	logger   *slog.Logger
}

// NewNormalizer creates a Normalizer that resolves relative media paths against baseURL.
func NewNormalizer(baseURL string, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// ResolveMediaURL makes a relative asset path absolute. Absolute URLs are returned unchanged.
func (n *Normalizer) ResolveMediaURL(asset any) string {
	u := mediaURL(asset)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return n.baseURL + u
}

// Assemble normalizes every collection of r. Collections that end up empty are taken from fallback, and so
// is the case file when it is missing or invalid.
func (n *Normalizer) Assemble(r Raw, slug string, fallback models.Content) models.Content {
	out := models.Content{
		Case:       fallback.Case,
		Acts:       normalizeAll(n, "act", r.Acts, n.Act),
		Events:     normalizeAll(n, "event", r.Events, n.Event),
		Evidence:   normalizeAll(n, "evidence", r.Evidence, n.Evidence),
		Locations:  normalizeAll(n, "location", r.Locations, n.Location),
		Questions:  normalizeAll(n, "question", r.Questions, n.Question),
		Characters: normalizeAll(n, "character", r.Characters, n.Character),
		Families:   normalizeAll(n, "family", r.Families, n.Family),
		Source:     models.SourceCMS,
	}
	if caseFile, ok := n.CaseFile(r.Case, slug); ok {
		out.Case = caseFile
	}
	out.Acts = orFallback(out.Acts, fallback.Acts)
	out.Events = orFallback(out.Events, fallback.Events)
	out.Evidence = orFallback(out.Evidence, fallback.Evidence)
	out.Locations = orFallback(out.Locations, fallback.Locations)
	out.Questions = orFallback(out.Questions, fallback.Questions)
	out.Characters = orFallback(out.Characters, fallback.Characters)
	out.Families = orFallback(out.Families, fallback.Families)
	out.Acts = models.SortActs(out.Acts)
	return out
}

func orFallback[T any](got, fallback []T) []T {
	if len(got) == 0 {
		return fallback
	}
	return got
}

func normalizeAll[T any](n *Normalizer, kind string, entries []any, fn func(any) (T, bool)) []T {
	out := make([]T, 0, len(entries))
	for _, entry := range entries {
		if v, ok := fn(entry); ok {
			out = append(out, v)
		}
	}
	if dropped := len(entries) - len(out); dropped > 0 {
		n.logger.Warn("dropped invalid content entries", slog.String("kind", kind), slog.Int("dropped", dropped))
	}
	return out
}

func (n *Normalizer) valid(kind, id string, v any) bool {
	if err := n.validate.Struct(v); err != nil {
		err = errors.Wrap(err, "validate content entry", slog.String("kind", kind), slog.String("id", id))
		n.logger.Debug("invalid content entry", errors.SlogError(err))
		return false
	}
	return true
}

// CaseFile normalizes the case entry. A collection response contributes its first entry.
func (n *Normalizer) CaseFile(entry any, slug string) (models.CaseFile, bool) {
	if list := items(entry); len(list) > 0 {
		entry = list[0]
	} else if m, ok := asMap(entry); ok {
		if data, hasData := m["data"]; hasData {
			entry = data
		}
	}
	r, ok := unwrap(entry)
	if !ok {
		return models.CaseFile{}, false //nolint:exhaustruct // zero value
	}
	c := models.CaseFile{
		Slug:      r.strOr(slug, "slug"),
		Title:     r.str("title", "name"),
		Briefing:  r.str("briefing", "description"),
		Objective: r.str("objective"),
		Version:   r.str("version", "caseVersion"),
		Status:    r.str("status"),
	}
	return c, n.valid("case", c.Slug, c)
}

func (n *Normalizer) Act(entry any) (models.Act, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Act{}, false //nolint:exhaustruct // zero value
	}
	code := r.str("unlockCode", "code", "answer")
	defaultType := models.UnlockAuto
	if code != "" {
		defaultType = models.UnlockCode
	}
	act := models.Act{
		ID:          r.id(),
		Title:       r.str("title", "name"),
		Order:       r.integer("order", "position"),
		Description: r.str("description", "summary"),
		UnlockType:  models.UnlockType(r.strOr(string(defaultType), "unlockType", "unlock_type")),
		UnlockCode:  code,
		IsFinalStep: r.boolean(false, "isFinalStep", "final"),
		VideoURL:    n.ResolveMediaURL(firstPresent(r, "video", "videoUrl")),
		Clues:       nil,
	}
	act.Clues = normalizeAll(n, "clue", items(r["clues"]), n.Clue)
	return act, n.valid("act", act.ID, act)
}

func (n *Normalizer) Clue(entry any) (models.Clue, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Clue{}, false //nolint:exhaustruct // zero value
	}
	clue := models.Clue{
		ID:           r.id(),
		Title:        r.strOr("Pista", "title", "name"),
		Type:         strings.ToLower(r.strOr("text", "type", "kind")),
		Content:      r.str("content", "description", "text"),
		File:         n.ResolveMediaURL(firstPresent(r, "file", "media", "fileUrl")),
		PreviewImage: n.ResolveMediaURL(firstPresent(r, "previewImage", "preview")),
		Order:        r.integer("order", "position"),
		Solution:     r.str("solution", "answer"),
	}
	return clue, n.valid("clue", clue.ID, clue)
}

func (n *Normalizer) Event(entry any) (models.Event, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Event{}, false //nolint:exhaustruct // zero value
	}
	ev := models.Event{
		ID:                r.id(),
		Title:             r.str("title", "name"),
		Description:       r.str("description", "summary"),
		Order:             r.integer("order"),
		Unlocked:          r.boolean(false, "unlocked", "published"),
		RestrictionReason: r.str("restrictionReason", "blockReason"),
	}
	return ev, n.valid("event", ev.ID, ev)
}

func (n *Normalizer) Evidence(entry any) (models.Evidence, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Evidence{}, false //nolint:exhaustruct // zero value
	}
	ev := models.Evidence{
		ID:                r.id(),
		Title:             r.strOr("Evidencia", "title", "name"),
		Summary:           r.str("summary", "description"),
		Type:              models.ParseEvidenceType(r.str("type")),
		EventID:           r.relation("event", "eventId"),
		LocationIDs:       r.relations("locations", "location", "locationIds", "locationId"),
		CharacterIDs:      r.relations("characters", "character", "characterIds", "characterId"),
		FamilyIDs:         r.relations("families", "family", "familyIds", "familyId"),
		MediaURL:          n.ResolveMediaURL(firstPresent(r, "file", "media", "mediaUrl")),
		PreviewURL:        n.ResolveMediaURL(firstPresent(r, "preview", "previewUrl")),
		Transcript:        r.str("transcript"),
		Unlocked:          r.boolean(false, "unlocked", "published"),
		RestrictionReason: r.str("restrictionReason", "blockReason"),
	}
	return ev, n.valid("evidence", ev.ID, ev)
}

func (n *Normalizer) Location(entry any) (models.Location, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Location{}, false //nolint:exhaustruct // zero value
	}
	coords := r.object("coordinates")
	if len(coords) == 0 {
		coords = r.object("position")
	}
	loc := models.Location{
		ID:                r.id(),
		Name:              r.str("name", "title"),
		Description:       r.str("description"),
		Coordinates:       models.Coordinates{X: coords.float("x", "X"), Y: coords.float("y", "Y")},
		Notes:             r.str("notes"),
		Unlocked:          r.boolean(false, "unlocked", "published"),
		RestrictionReason: r.str("restrictionReason", "blockReason"),
		EvidenceIDs:       r.strings("evidences", "evidenceIds"),
	}
	return loc, n.valid("location", loc.ID, loc)
}

func (n *Normalizer) Question(entry any) (models.Question, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Question{}, false //nolint:exhaustruct // zero value
	}
	expected, ok := models.AnswerFromAny(r["answer"])
	if !ok {
		n.logger.Debug("question answer is neither text nor list", slog.String("id", r.id()))
		return models.Question{}, false //nolint:exhaustruct // zero value
	}
	unlocks := r.object("unlocks")
	q := models.Question{
		ID:         r.id(),
		Prompt:     r.str("prompt", "question"),
		Kind:       models.QuestionKind(r.strOr(string(models.QuestionMultipleChoice), "type", "kind")),
		Options:    r.strings("options", "choices"),
		Answer:     expected,
		Hints:      r.strings("hints"),
		HelperText: r.str("helperText", "helper"),
		Unlocks: models.UnlockRule{
			EvidenceIDs: firstList(unlocks.strings("evidences", "evidenceIds"), r.strings("evidenceIds")),
			EventIDs:    firstList(unlocks.strings("events", "eventIds"), r.strings("eventIds")),
			LocationIDs: firstList(unlocks.strings("locations", "locationIds"), r.strings("locationIds")),
		},
		Unlocked: r.boolean(true, "unlocked", "published"),
	}
	return q, n.valid("question", q.ID, q)
}

func (n *Normalizer) Character(entry any) (models.Character, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Character{}, false //nolint:exhaustruct // zero value
	}
	c := models.Character{
		ID:                r.id(),
		Name:              r.str("name", "title"),
		Family:            r.str("family"),
		FamilyID:          r.str("familyId"),
		Notes:             r.str("notes", "description"),
		Unlocked:          r.boolean(true, "unlocked", "published"),
		RestrictionReason: r.str("restrictionReason", "blockReason"),
	}
	// A family relation carries both the id and the display name.
	if family, isRelation := unwrap(r.object("family")["data"]); isRelation {
		c.FamilyID = family.id()
		c.Family = family.str("name", "title")
	} else if family := r.object("family"); len(family) > 0 {
		c.FamilyID = family.id()
		c.Family = family.str("name", "title")
	}
	return c, n.valid("character", c.ID, c)
}

func (n *Normalizer) Family(entry any) (models.Family, bool) {
	r, ok := unwrap(entry)
	if !ok {
		return models.Family{}, false //nolint:exhaustruct // zero value
	}
	f := models.Family{
		ID:                r.id(),
		Name:              r.str("name", "title"),
		Description:       r.str("description"),
		Unlocked:          r.boolean(true, "unlocked", "published"),
		RestrictionReason: r.str("restrictionReason", "blockReason"),
	}
	return f, n.valid("family", f.ID, f)
}

func firstPresent(r raw, keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return []string{}
}
