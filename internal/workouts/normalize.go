package workouts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/structured"

	log "github.com/sirupsen/logrus"
)

// Normalize turns whatever was persisted into a canonical WorkoutMap.
// It never fails: days that cannot be interpreted are dropped.
func Normalize(raw any) WorkoutMap {
	return NormalizeWithClock(raw, datekey.RealClock{})
}

// NormalizeJSON is Normalize over a serialized blob. Corrupt JSON yields an empty map.
func NormalizeJSON(data []byte) WorkoutMap {
	return NormalizeJSONWithClock(data, datekey.RealClock{})
}

func NormalizeJSONWithClock(data []byte, clock datekey.Clock) WorkoutMap {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		log.Debugf("normalize: stored workouts are not valid json: %s", err)
		return WorkoutMap{}
	}
	return NormalizeWithClock(generic, clock)
}

// NormalizeWithClock uses clock for media timestamps that are missing.
func NormalizeWithClock(raw any, clock datekey.Clock) WorkoutMap {
	root, ok := toGenericMap(raw)
	if !ok {
		return WorkoutMap{}
	}

	nowMs := clock.Now().UnixMilli()
	out := make(WorkoutMap, len(root))
	for key, value := range root {
		if !datekey.Valid(key) {
			continue
		}
		day, ok := normalizeDay(value, nowMs)
		if !ok || IsEmptyDay(day) {
			continue
		}
		out[key] = day
	}
	return out
}

// toGenericMap brings raw to the shape json.Unmarshal would produce.
func toGenericMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	case []byte:
		var generic any
		if err := json.Unmarshal(v, &generic); err != nil {
			return nil, false
		}
		m, ok := generic.(map[string]any)
		return m, ok
	case string:
		return toGenericMap([]byte(v))
	default:
		// typed values, e.g. an already normalized WorkoutMap
		data, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return toGenericMap(data)
	}
}

func normalizeDay(value any, nowMs int64) (WorkoutDay, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return WorkoutDay{}, false
	}

	day := WorkoutDay{
		PB:    truthy(obj["pb"]),
		Image: normalizeLegacyImage(obj["image"], nowMs),
	}

	if rawEntries, ok := obj["entries"].([]any); ok {
		day.Entries = make([]WorkoutEntry, 0, MaxEntriesPerDay)
		for i, re := range rawEntries {
			if i == MaxEntriesPerDay {
				break
			}
			day.Entries = append(day.Entries, normalizeEntry(re, i, nowMs))
		}
		return day, true
	}

	if isLegacyEntry(obj) {
		entry := normalizeEntry(obj, 0, nowMs)
		entry.ID = EntryID(0)
		day.Entries = []WorkoutEntry{entry}
		return day, true
	}

	return WorkoutDay{}, false
}

func isLegacyEntry(obj map[string]any) bool {
	for _, k := range []string{"title", "notes", "structured"} {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

func normalizeEntry(value any, index int, nowMs int64) WorkoutEntry {
	entry := WorkoutEntry{ID: EntryID(index)}
	obj, ok := value.(map[string]any)
	if !ok {
		return entry
	}

	if id := structured.ToString(obj["id"]); id != "" {
		entry.ID = id
	}
	entry.Title = structured.ToString(obj["title"])
	entry.Notes = structured.ToString(obj["notes"])
	entry.Media = normalizeMedia(obj["media"], nowMs)

	if sw := structured.FromAny(obj["structured"]); sw != nil {
		entry.Notes = structured.UpsertBlock(entry.Notes, *sw)
	}

	return entry
}

func normalizeMedia(value any, nowMs int64) *Media {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	kind := MediaKind(structured.ToString(obj["kind"]))
	path := structured.ToString(obj["path"])
	if !kind.Valid() || strings.TrimSpace(path) == "" {
		return nil
	}

	m := &Media{
		Kind:      kind,
		Path:      path,
		UpdatedAt: nowMs,
	}
	if ts, ok := toNumber(obj["updatedAt"]); ok {
		m.UpdatedAt = int64(ts)
	}
	if n, ok := toNumber(obj["sizeBytes"]); ok {
		v := int64(n)
		m.SizeBytes = &v
	}

	if kind == MediaVideo {
		if n, ok := toNumber(obj["durationSec"]); ok {
			m.DurationSec = &n
		}
		if n, ok := toNumber(obj["width"]); ok {
			v := int(n)
			m.Width = &v
		}
		if n, ok := toNumber(obj["height"]); ok {
			v := int(n)
			m.Height = &v
		}
	}
	return m
}

func normalizeLegacyImage(value any, nowMs int64) *LegacyImage {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	path := structured.ToString(obj["path"])
	if strings.TrimSpace(path) == "" {
		return nil
	}
	img := &LegacyImage{Path: path, UpdatedAt: nowMs}
	if ts, ok := toNumber(obj["updatedAt"]); ok {
		img.UpdatedAt = int64(ts)
	}
	if n, ok := toNumber(obj["sizeBytes"]); ok {
		v := int64(n)
		img.SizeBytes = &v
	}
	return img
}

// toNumber coerces like JS Number(): numeric strings parse, booleans are 0/1.
// A missing value or anything that would be NaN reports false.
func toNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// truthy follows JS truthiness for decoded JSON values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}
