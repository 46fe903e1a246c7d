// Package app is the composition root for melulu.
//
// # Overview
//
// It loads configuration, applies command-line overrides and wires the
// catalog client, playback resolver, navigation controller and snapshot store
// into a Session. The TUI and the headless subcommands both run on a Session.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Interactive session
//	└──────┬───────┘
//	       │
//	       ├─────> LoadConfig()          config.toml plus overrides
//	       ├─────> logging.OpenFile()    Session log (the TUI owns stdout)
//	       ├─────> NewSession()
//	       │        ├─> dramaapi.NewClient()
//	       │        ├─> playback.NewMPV() + NewResolver()
//	       │        ├─> state.NewController()  renders into state.Store
//	       │        └─> client.SetObserver(controller)
//	       └─────> ui.Run()              Boots and blocks until quit
//
// Session.List, Show, Play and Link serve the headless subcommands. They go
// through the same controller as the TUI, so status, error and clipboard
// behaviour match.
//
// # Error Handling
//
// Configuration and log file errors are fatal and returned from Run. Fetch
// errors during an interactive session are recorded in the snapshot and
// shown by the UI; they never end the program.
//
// # Deep Links
//
// DeepLinkID accepts a full share link, a "#id=..." fragment, a bare
// "id=..." pair or a plain id. Anything else is ignored with a warning.
package app
