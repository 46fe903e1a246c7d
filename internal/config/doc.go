// Package config loads melulu's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/melulu/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	proxy_mode = true
//	proxy_origin = "http://localhost:8787"
//	direct_origin = "https://api.example.com"
//	share_base = "https://melulu.app/"
//	request_timeout = "10s"
//
//	[paths]
//	home = "/api/home"
//	search = "/api/search"
//	detail = "/api/detail"
//	video = "/api/video"
//
//	[player]
//	command = "mpv"
//	args = ["--volume=60"]
//	native_hls = true
//
//	[log]
//	file = "~/.local/state/melulu/melulu.log"
//	level = "info"
//
// Every field is optional. proxy_mode selects which origin is used; direct
// mode has no default origin, so Validate rejects it until direct_origin is
// set. Blank [paths] entries take the defaults of the active mode. Tilde
// expansion is performed on the log file path.
package config
