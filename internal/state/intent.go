package state

import "fmt"

// Kind identifies a navigation intent.
type Kind int

const (
	KindHome Kind = iota
	KindSearch
	KindLoadMore
	KindRefresh
	KindSelect
	KindClearSelection
	KindPlay
	KindClosePlayer
	KindCopyLink
	KindTheater
)

var kindNames = map[Kind]string{
	KindHome:           "home",
	KindSearch:         "search",
	KindLoadMore:       "load_more",
	KindRefresh:        "refresh",
	KindSelect:         "select",
	KindClearSelection: "clear_selection",
	KindPlay:           "play",
	KindClosePlayer:    "close_player",
	KindCopyLink:       "copy_link",
	KindTheater:        "theater",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Intent is one user action. Query is used by KindSearch, ID by KindSelect.
type Intent struct {
	Kind  Kind
	Query string
	ID    string
}

func (i Intent) String() string {
	switch i.Kind {
	case KindSearch:
		return fmt.Sprintf("%s(%q)", i.Kind, i.Query)
	case KindSelect:
		return fmt.Sprintf("%s(%q)", i.Kind, i.ID)
	default:
		return i.Kind.String()
	}
}

func Home() Intent { return Intent{Kind: KindHome} }
func Search(query string) Intent { return Intent{Kind: KindSearch, Query: query} }
func LoadMore() Intent { return Intent{Kind: KindLoadMore} }
func Refresh() Intent { return Intent{Kind: KindRefresh} }
func Select(id string) Intent { return Intent{Kind: KindSelect, ID: id} }
func ClearSelection() Intent { return Intent{Kind: KindClearSelection} }
func Play() Intent { return Intent{Kind: KindPlay} }
func ClosePlayer() Intent { return Intent{Kind: KindClosePlayer} }
func CopyLink() Intent { return Intent{Kind: KindCopyLink} }
func Theater() Intent { return Intent{Kind: KindTheater} }
