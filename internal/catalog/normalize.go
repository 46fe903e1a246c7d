package catalog

import "strings"

var (
	listWrappers   = []string{"data", "list", "items"}
	detailWrappers = []string{"data", "detail"}
	videoWrappers  = []string{"data"}
)

// maxListDepth bounds how many wrapper objects are peeled off while looking
// for the item array.
const maxListDepth = 2

// NormalizeList extracts list items from a home or search payload. Elements
// without an identifier are dropped; everything else is kept in order.
func NormalizeList(raw any) []ListItem {
	elems := locateArray(raw, 0)
	items := make([]ListItem, 0, len(elems))
	for _, el := range elems {
		obj, _ := el.(map[string]any)
		item := listItemFrom(obj)
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func listItemFrom(obj map[string]any) ListItem {
	return ListItem{
		ID:       fieldID.text(obj),
		Title:    fieldTitle.text(obj),
		Poster:   fieldPoster.text(obj),
		Tag:      fieldTag.text(obj),
		Views:    countOf(fieldViews.resolve(obj)),
		Year:     fieldYear.text(obj),
		Duration: fieldDuration.text(obj),
	}
}

func locateArray(raw any, depth int) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if depth >= maxListDepth {
			return nil
		}
		inner, ok := Coalesce(v, listWrappers...)
		if !ok {
			return nil
		}
		return locateArray(inner, depth+1)
	default:
		return nil
	}
}

// NormalizeDetail extracts a Detail from a detail payload. Missing fields take
// their defaults; the result is always usable for display.
func NormalizeDetail(raw any) Detail {
	obj := locateObject(raw, detailWrappers)
	desc := plainText(fieldDetailDesc.text(obj))
	if desc == "" {
		desc = fieldDetailDesc.fallback
	}
	return Detail{
		ID:     fieldID.text(obj),
		Title:  fieldTitle.text(obj),
		Poster: fieldPoster.text(obj),
		Tags:   tagsFrom(obj),
		Rating: fieldDetailRating.text(obj),
		Desc:   desc,
		Year:   fieldDetailYear.text(obj),
		Views:  fieldDetailViews.text(obj),
	}
}

func tagsFrom(obj map[string]any) []string {
	switch v := obj["tags"].(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := scalarString(t); ok {
				tags = append(tags, s)
			}
		}
		return tags
	case []string:
		return append([]string{}, v...)
	case string:
		return splitTags(v)
	}
	if s, ok := obj["vod_class"].(string); ok {
		return splitTags(s)
	}
	return []string{}
}

// NormalizeVideo extracts the playable source from a video payload. A payload
// (or data wrapper) that is itself a string is taken as the URL.
func NormalizeVideo(raw any) PlayableMedia {
	if s, ok := raw.(string); ok {
		return PlayableMedia{URL: strings.TrimSpace(s)}
	}
	if obj, ok := raw.(map[string]any); ok {
		if s, ok := obj["data"].(string); ok {
			return PlayableMedia{URL: strings.TrimSpace(s)}
		}
	}
	obj := locateObject(raw, videoWrappers)
	return PlayableMedia{URL: strings.TrimSpace(fieldVideoURL.text(obj))}
}

// locateObject returns the first wrapper value present in raw, or raw itself
// when no wrapper key is set. Non-object values yield nil, which reads as an
// empty record.
func locateObject(raw any, wrappers []string) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	inner, ok := Coalesce(obj, wrappers...)
	if !ok {
		return obj
	}
	m, _ := inner.(map[string]any)
	return m
}
