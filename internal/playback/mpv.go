package playback

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	defaultMPVCommand = "mpv"
	socketWaitSteps   = 30
	socketWaitStep    = 100 * time.Millisecond
	commandTimeout    = 3 * time.Second
)

// MPVOptions configures NewMPV.
type MPVOptions struct {
	Command string
	Args    []string
	// NativeHLS overrides HLS capability detection. mpv plays HLS through
	// ffmpeg, so the default is true.
	NativeHLS *bool
	// Socket is the IPC endpoint. Empty picks a per-process default.
	Socket string
	Logger *log.Logger
}

// MPV is a Capability backed by one idle mpv process. The process is started
// on first Load and reused for later sources.
type MPV struct {
	command   string
	args      []string
	nativeHLS bool
	socket    string
	logger    *log.Logger
	dial      func(path string, timeout time.Duration) (net.Conn, error)

	mu     sync.Mutex
	cmd    *exec.Cmd
	exited chan struct{}
}

var _ Capability = (*MPV)(nil)

// NewMPV returns an MPV capability. No process is started until Load.
func NewMPV(opts MPVOptions) *MPV {
	command := strings.TrimSpace(opts.Command)
	if command == "" {
		command = defaultMPVCommand
	}
	native := true
	if opts.NativeHLS != nil {
		native = *opts.NativeHLS
	}
	socket := strings.TrimSpace(opts.Socket)
	if socket == "" {
		socket = defaultSocketPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &MPV{
		command:   command,
		args:      append([]string(nil), opts.Args...),
		nativeHLS: native,
		socket:    socket,
		logger:    logger,
		dial:      dialSocket,
	}
}

func (m *MPV) NativeHLS() bool { return m.nativeHLS }

// Socket returns the IPC endpoint in use.
func (m *MPV) Socket() string { return m.socket }

// Load replaces the current source with url, starting mpv if needed.
func (m *MPV) Load(ctx context.Context, url string) error {
	if err := m.ensureRunning(ctx); err != nil {
		return err
	}
	return m.send(ctx, "loadfile", url, "replace")
}

// Play clears the pause flag.
func (m *MPV) Play(ctx context.Context) error {
	return m.send(ctx, "set_property", "pause", false)
}

// Stop unloads the current source. It is a no-op when mpv is not reachable.
func (m *MPV) Stop(ctx context.Context) error {
	if !m.reachable() {
		return nil
	}
	return m.send(ctx, "stop")
}

func (m *MPV) ToggleFullscreen(ctx context.Context) error {
	return m.send(ctx, "cycle", "fullscreen")
}

// Close quits mpv if this process started it.
func (m *MPV) Close() error {
	m.mu.Lock()
	cmd, exited := m.cmd, m.exited
	m.cmd = nil
	m.mu.Unlock()
	if cmd == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := m.send(ctx, "quit"); err != nil {
		m.logger.Debug("mpv quit", "error", err)
	}
	select {
	case <-exited:
		return nil
	case <-ctx.Done():
		if cmd.Process != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}

func (m *MPV) reachable() bool {
	conn, err := m.dial(m.socket, 200*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (m *MPV) ensureRunning(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.reachable() {
		return nil
	}
	if m.cmd != nil {
		select {
		case <-m.exited:
			m.cmd = nil
		default:
		}
	}
	if m.cmd == nil {
		if err := m.startLocked(); err != nil {
			return err
		}
	}

	for i := 0; i < socketWaitSteps; i++ {
		if m.reachable() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			m.cmd = nil
			return fmt.Errorf("mpv exited before its ipc socket was ready")
		case <-time.After(socketWaitStep):
		}
	}
	return fmt.Errorf("timeout waiting for mpv socket %s", m.socket)
}

func (m *MPV) startLocked() error {
	path, err := exec.LookPath(m.command)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", m.command, err)
	}
	prepareSocket(m.socket)

	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--no-terminal",
		"--input-ipc-server=" + m.socket,
	}
	args = append(args, m.args...)
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()
	m.cmd = cmd
	m.exited = exited
	m.logger.Info("mpv started", "pid", cmd.Process.Pid, "socket", m.socket)
	return nil
}

type mpvReply struct {
	Error string `json:"error"`
	Event string `json:"event"`
}

// send writes one IPC command and waits for its reply, skipping any events
// mpv interleaves.
func (m *MPV) send(ctx context.Context, args ...any) error {
	timeout := commandTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	conn, err := m.dial(m.socket, timeout)
	if err != nil {
		return fmt.Errorf("connect to mpv: %w", err)
	}
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	payload, err := json.Marshal(map[string]any{"command": args})
	if err != nil {
		return fmt.Errorf("encode mpv command: %w", err)
	}
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write mpv command: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var reply mpvReply
		if err := json.Unmarshal(scanner.Bytes(), &reply); err != nil {
			continue
		}
		if reply.Event != "" {
			continue
		}
		if reply.Error != "" && reply.Error != "success" {
			return fmt.Errorf("mpv %v: %s", args[0], reply.Error)
		}
		return nil
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read mpv reply: %w", err)
	}
	return fmt.Errorf("read mpv reply: %w", io.ErrUnexpectedEOF)
}
