package catalog

import (
	"encoding/json"
	"strconv"
)

// Coalesce returns the first value among keys that is present and not null in
// obj. A nil map yields no value.
func Coalesce(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// field is one canonical field: where it may come from, in priority order, and
// what it becomes when none of those keys are set.
type field struct {
	keys     []string
	fallback string
}

func (f field) resolve(obj map[string]any) (any, bool) {
	return Coalesce(obj, f.keys...)
}

// text resolves the field as a display string. Values that cannot be shown as
// text (objects, arrays) count as unusable and yield the fallback.
func (f field) text(obj map[string]any) string {
	v, ok := f.resolve(obj)
	if !ok {
		return f.fallback
	}
	if s, ok := scalarString(v); ok {
		return s
	}
	return f.fallback
}

// scalarString renders JSON scalars the way a loosely-typed client would
// stringify them: numbers keep their literal form, booleans become
// "true"/"false".
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
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

var (
	fieldID       = field{keys: []string{"id", "video_id", "mid", "_id"}}
	fieldTitle    = field{keys: []string{"title", "name", "vod_name"}, fallback: "Untitled"}
	fieldPoster   = field{keys: []string{"poster", "cover", "pic", "vod_pic"}}
	fieldTag      = field{keys: []string{"tag", "category", "type", "vod_class"}, fallback: "—"}
	fieldViews    = field{keys: []string{"views", "play", "hot", "vod_hits"}}
	fieldYear     = field{keys: []string{"year", "release_year", "vod_year"}}
	fieldDuration = field{keys: []string{"duration", "len", "vod_duration"}}

	fieldDetailRating = field{keys: []string{"rating", "score", "vod_score"}, fallback: "—"}
	fieldDetailDesc   = field{keys: []string{"desc", "description", "vod_content"}, fallback: "—"}
	fieldDetailYear   = field{keys: []string{"year", "vod_year"}}
	fieldDetailViews  = field{keys: []string{"views", "vod_hits"}}

	fieldVideoURL = field{keys: []string{"url", "play_url", "m3u8", "mp4"}}
)
