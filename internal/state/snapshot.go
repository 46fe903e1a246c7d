package state

import (
	"fmt"
	"time"

	"github.com/five82/melulu/internal/catalog"
)

// Mode is the kind of list being browsed.
type Mode int

const (
	ModeHome Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "home"
}

// StatusKind selects how the status pill is styled.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusLoading
	StatusWarn
	StatusError
)

// Status is the short indicator text shown in the header.
type Status struct {
	Text string
	Kind StatusKind
}

// Player describes the player surface.
type Player struct {
	Open    bool
	Playing bool
	Theater bool
	Title   string
	Meta    string
	URL     string
}

// Snapshot is a point-in-time copy of the navigation state handed to
// renderers. It shares no memory with the controller.
type Snapshot struct {
	Mode       Mode
	Page       int
	Query      string
	Items      []catalog.ListItem
	Selected   *catalog.Detail
	DrawerOpen bool
	Player     Player

	Status  Status
	Message string

	LastError           error
	ConsecutiveFailures int // failed fetches since the last success
	InFlight            int
	Revision            uint64
	LastUpdated         time.Time
}

// IsOffline reports whether the API has failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Loading reports whether any fetch is in flight.
func (s Snapshot) Loading() bool {
	return s.InFlight > 0
}

// Heading is the title of the list currently shown.
func (s Snapshot) Heading() string {
	if s.Mode == ModeSearch {
		return fmt.Sprintf("Search: “%s”", s.Query)
	}
	return "Trending / Home"
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	dup := s
	dup.Items = cloneItems(s.Items)
	if s.Selected != nil {
		d := s.Selected.Clone()
		dup.Selected = &d
	}
	if s.LastError != nil {
		dup.LastError = fmt.Errorf("%w", s.LastError)
	}
	return dup
}

func cloneItems(items []catalog.ListItem) []catalog.ListItem {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.ListItem, len(items))
	copy(dup, items)
	return dup
}

func itemsShown(n int) string {
	if n == 1 {
		return "1 item shown"
	}
	return fmt.Sprintf("%d items shown", n)
}
