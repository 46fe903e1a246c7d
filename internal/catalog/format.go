package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatViews renders a view count compactly: 1.2K, 3.4M, 1.0B. Text that
// does not parse as a number is returned unchanged.
func FormatViews(c Count) string {
	n := c.Value
	if !c.Numeric {
		t := strings.TrimSpace(c.Text)
		if t == "" {
			n = 0
		} else {
			f, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return c.Text
			}
			n = f
		}
	}
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// CardTagline is the secondary line of a grid card: year, then duration when
// known.
func CardTagline(it ListItem) string {
	if it.Duration == "" {
		return orDash(it.Year)
	}
	return orDash(it.Year) + " • " + it.Duration
}

// DetailMeta is the summary line under a detail title, e.g. "2023 • 1.2K views".
func DetailMeta(d Detail) string {
	views := "—"
	if d.Views != "" {
		views = FormatViews(TextCount(d.Views)) + " views"
	}
	return orDash(d.Year) + " • " + views
}

// TagsLine joins all tags for the detail view.
func TagsLine(d Detail) string {
	return orDash(strings.Join(d.Tags, " • "))
}

// PlayerMeta is the caption shown while a title plays: the year and up to
// three tags.
func PlayerMeta(d Detail) string {
	tags := d.Tags
	if len(tags) > 3 {
		tags = tags[:3]
	}
	return orDash(d.Year) + " • " + orDash(strings.Join(tags, " • "))
}
