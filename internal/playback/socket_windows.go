//go:build windows

package playback

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\`

func defaultSocketPath() string {
	return fmt.Sprintf(`%smelulu-mpv-%d`, pipePrefix, os.Getpid())
}

func dialSocket(path string, timeout time.Duration) (net.Conn, error) {
	if !strings.HasPrefix(path, pipePrefix) {
		path = pipePrefix + filepath.Base(path)
	}
	return winio.DialPipe(path, &timeout)
}

// prepareSocket is a no-op: named pipes vanish with their server.
func prepareSocket(string) {}
