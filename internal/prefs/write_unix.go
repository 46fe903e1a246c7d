//go:build !windows

package prefs

import "github.com/google/renameio/v2"

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	return renameio.WriteFile(path, data, 0o644)
}
