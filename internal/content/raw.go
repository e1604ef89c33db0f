package content

import (
	"encoding/json"
	"strconv"
	"strings"
)

// raw is one CMS entry after the optional attributes wrapper has been removed.
type raw map[string]any

// unwrap accepts an entry either flat or wrapped as {id, attributes:{...}}.
func unwrap(entry any) (raw, bool) {
	m, ok := asMap(entry)
	if !ok {
		return nil, false
	}
	attributes, ok := asMap(m["attributes"])
	if !ok {
		return raw(m), true
	}
	out := make(raw, len(attributes)+1)
	for k, v := range attributes {
		out[k] = v
	}
	if id, present := m["id"]; present {
		out["id"] = id
	}
	return out, true
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case raw:
		return t, true
	default:
		return nil, false
	}
}

// items accepts a plain list or a relation wrapper {data:[...]}.
func items(v any) []any {
	if m, ok := asMap(v); ok {
		v = m["data"]
	}
	list, _ := v.([]any)
	return list
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// str returns the first non-empty text value among keys.
func (r raw) str(keys ...string) string {
	for _, k := range keys {
		if s, ok := text(r[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

// strOr is [raw.str] with a default.
func (r raw) strOr(def string, keys ...string) string {
	if s := r.str(keys...); s != "" {
		return s
	}
	return def
}

// boolean returns the first boolean among keys that is present, or def.
func (r raw) boolean(def bool, keys ...string) bool {
	for _, k := range keys {
		if b, ok := r[k].(bool); ok {
			return b
		}
	}
	return def
}

func (r raw) integer(keys ...string) int {
	for _, k := range keys {
		if f, ok := number(r[k]); ok {
			return int(f)
		}
	}
	return 0
}

func (r raw) float(keys ...string) float64 {
	for _, k := range keys {
		if f, ok := number(r[k]); ok {
			return f
		}
	}
	return 0
}

func (r raw) object(key string) raw {
	m, _ := asMap(r[key])
	return raw(m)
}

// id follows id, slug and title in that order.
func (r raw) id() string {
	return r.str("id", "slug", "title")
}

// strings returns the first non-empty list of texts among keys. Relation wrappers contribute their ids.
func (r raw) strings(keys ...string) []string {
	for _, k := range keys {
		if out := textList(r[k]); len(out) > 0 {
			return out
		}
	}
	return []string{}
}

func textList(v any) []string {
	var out []string
	for _, item := range items(v) {
		if s, ok := text(item); ok && s != "" {
			out = append(out, s)
			continue
		}
		if entry, ok := unwrap(item); ok {
			if id := entry.id(); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

// relation resolves a single relation stored as {data:{id}}, {id} or a bare id, then tries the flat keys.
func (r raw) relation(key string, flatKeys ...string) string {
	if m, ok := asMap(r[key]); ok {
		if data, hasData := m["data"]; hasData {
			m, _ = asMap(data)
		}
		if s, ok := text(m["id"]); ok && s != "" {
			return s
		}
	} else if s, ok := text(r[key]); ok && s != "" {
		return s
	}
	return r.str(flatKeys...)
}

// relations resolves a relation that may hold one or many entities.
func (r raw) relations(manyKey, oneKey string, flatKeys ...string) []string {
	if ids := textList(r[manyKey]); len(ids) > 0 {
		return ids
	}
	if id := r.relation(oneKey); id != "" {
		return []string{id}
	}
	if ids := r.strings(flatKeys...); len(ids) > 0 {
		return ids
	}
	if id := r.str(flatKeys...); id != "" {
		return []string{id}
	}
	return []string{}
}

// mediaURL extracts the url of an asset given as a string, {url}, {attributes:{url}} or {data:{attributes:{url}}}.
func mediaURL(asset any) string {
	if s, ok := asset.(string); ok {
		return s
	}
	m, ok := asMap(asset)
	if !ok {
		return ""
	}
	if data, ok := asMap(m["data"]); ok {
		m = data
	}
	if attributes, ok := asMap(m["attributes"]); ok {
		m = attributes
	}
	s, _ := m["url"].(string)
	return s
}
