package ui

import "time"

// Grid geometry.
const (
	// CardWidth is the outer width of a poster card, borders included.
	CardWidth = 30

	// CardHeight is the outer height of a poster card, borders included.
	CardHeight = 6

	// MaxColumns caps the grid when the column count is set by hand.
	MaxColumns = 6

	// DrawerMinWidth is the terminal width from which the detail drawer
	// sits beside the grid instead of replacing it.
	DrawerMinWidth = 110

	// DrawerWidth is the width of the side drawer.
	DrawerWidth = 48
)

// Log display limits.
const (
	// LogTailLines is how many trailing lines of the session log are read.
	LogTailLines = 2000
)

// Timing constants.
const (
	// DefaultUIInterval is the redraw interval for the log view.
	DefaultUIInterval = time.Second
)

// chips are the genre presets bound to keys 1..8. The first one browses the
// home feed; the rest run a search for their label.
var chips = []string{"Trending", "Romance", "Comedy", "Action", "CEO", "Revenge", "校园", "甜宠"}
