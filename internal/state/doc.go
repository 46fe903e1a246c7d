// Package state implements melulu's navigation state machine.
//
// # Overview
//
// A single Controller owns the navigation record (mode, page, query, items,
// selection, player) and exposes it only through intents. Renderers never see
// the live record; they receive defensive-copy Snapshots.
//
// # Intent lifecycle
//
// Every intent is split in two:
//
//	Begin(intent)                    Pending.Finish(ctx)
//	┌──────────────────────┐         ┌───────────────────────────┐
//	│ lock                 │         │ fetch (no lock held)      │
//	│ bump generation      │────────→│ lock                      │
//	│ capture target/page  │         │ generation still current? │
//	│ unlock               │         │   yes: commit + render    │
//	└──────────────────────┘         │   no:  ErrSuperseded      │
//	                                 └───────────────────────────┘
//
// Begin is cheap and synchronous, so callers invoke it in the order intents
// arrive (the TUI does so inside Update, Run does so per channel receive).
// Finish may run on any goroutine.
//
// # Generations
//
// Three independent counters guard against stale completions:
//
//   - list: bumped by Home, Search and Refresh. Any list response captured
//     under an older value is discarded. LoadMore does not bump it; appends
//     queue behind the request before them and commit in page order, and a
//     failed page discards the appends queued after it.
//   - selection: bumped by Select and ClearSelection, so a detail response
//     that arrives after the drawer closed is ignored.
//   - playback: bumped by Play and ClosePlayer.
//
// # Commit and render ordering
//
// A commit holds the state lock, then takes the render lock before releasing
// the state lock. Renders therefore happen in commit order and never
// interleave with another transition's mutation.
//
// # Failure policy
//
// Failed fetches never clear items or the selection. The status switches to an
// error style, Message carries the error text and LastError keeps the typed
// error for errors.As. Nothing is retried automatically.
//
// # Store
//
// Store is a Renderer that keeps the latest snapshot for pollers such as the
// TUI redraw loop, using the same RWMutex and copy-on-read approach as any
// other shared snapshot.
package state
