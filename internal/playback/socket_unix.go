//go:build !windows

package playback

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

func defaultSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("melulu-mpv-%d.sock", os.Getpid()))
}

func dialSocket(path string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("unix", path, timeout)
}

// prepareSocket removes a leftover socket file so mpv can bind the path.
func prepareSocket(path string) {
	_ = os.Remove(path)
}
