package catalog

import (
	"encoding/json"
	"strconv"
)

// ListItem is one entry of a home or search page.
type ListItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Poster   string `json:"poster"`
	Tag      string `json:"tag"`
	Views    Count  `json:"views"`
	Year     string `json:"year"`
	Duration string `json:"duration"`
}

// Detail is the full record shown when a drama is selected.
type Detail struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Poster string   `json:"poster"`
	Tags   []string `json:"tags"`
	Rating string   `json:"rating"`
	Desc   string   `json:"desc"`
	Year   string   `json:"year"`
	Views  string   `json:"views"`
}

// Clone returns a copy that shares no memory with d.
func (d Detail) Clone() Detail {
	out := d
	out.Tags = append([]string(nil), d.Tags...)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// PlayableMedia is a resolved media source. An empty URL means there is
// nothing to play.
type PlayableMedia struct {
	URL string `json:"url"`
}

// Empty reports whether m carries no playable source.
func (m PlayableMedia) Empty() bool {
	return m.URL == ""
}

// Count is a view counter as the API reported it. Most payloads send a number;
// some send preformatted text such as "1.2万", which is kept verbatim.
type Count struct {
	Value   float64
	Text    string
	Numeric bool
}

// NumberCount returns a numeric Count.
func NumberCount(v float64) Count {
	return Count{Value: v, Numeric: true}
}

// TextCount returns an opaque textual Count.
func TextCount(s string) Count {
	return Count{Text: s}
}

func (c Count) String() string {
	if c.Numeric {
		return strconv.FormatFloat(c.Value, 'f', -1, 64)
	}
	return c.Text
}

// MarshalJSON writes numeric counts as JSON numbers and textual ones as
// strings, so a round trip through NormalizeList keeps the same kind.
func (c Count) MarshalJSON() ([]byte, error) {
	if c.Numeric {
		return []byte(strconv.FormatFloat(c.Value, 'f', -1, 64)), nil
	}
	return json.Marshal(c.Text)
}

func countOf(v any, ok bool) Count {
	if !ok {
		return NumberCount(0)
	}
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return NumberCount(f)
		}
		return TextCount(t.String())
	case float64:
		return NumberCount(t)
	case int:
		return NumberCount(float64(t))
	case int64:
		return NumberCount(float64(t))
	case string:
		return TextCount(t)
	case bool:
		return TextCount(strconv.FormatBool(t))
	default:
		return NumberCount(0)
	}
}
