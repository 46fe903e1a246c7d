// Package ui is melulu's terminal front end, built on Bubble Tea.
//
// The UI is a presentation adapter. Key presses are translated into
// state.Intent values: each one is begun on the state.Controller inside
// Update, so intents keep the order the user typed them in, and finished in a
// tea.Cmd. The view is drawn from the snapshots the controller commits to a
// state.Store; a watch command wakes the program whenever a newer snapshot
// lands.
//
// # Views
//
//   - Browse: genre chips, the poster card grid, the detail drawer and the
//     player strip
//   - Session log: the tail of melulu's own log file, filtered by level
//
// # Key Bindings
//
//   - /: Search (a blank query returns to the home feed)
//   - 1-8: Genre chips; 1 is the home feed
//   - H, r, m: Home, refresh, load more
//   - h/j/k/l or arrows: Move between cards; moving past the last row loads
//     the next page
//   - enter: Open details for the focused card
//   - p, c: Play the open drama, copy its share link
//   - t, x: Toggle theater mode, close the player
//   - esc: Close the player, then the drawer
//   - [ and ]: Fewer or more grid columns (saved to prefs)
//   - L: Session log
//   - T: Cycle theme (saved to prefs)
//   - ?: Help
//   - q or ctrl+c: Quit
package ui
