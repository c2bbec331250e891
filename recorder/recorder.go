// Package recorder captures an interactive shell session to an
// asciicast stream. It puts the controlling terminal in raw mode,
// runs the command on a pty and tees everything the pty produces to
// both the real terminal and the cast writer.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/thiscantbeserious/agr/asciicast"
)

// MarkerKey is the raw-mode key that drops a marker event into the
// recording: Ctrl-].
const MarkerKey = 0x1d

// Options configures one recording session.
type Options struct {
	// Command to record. Empty runs a login shell from $SHELL.
	Command []string

	// Output receives the cast stream.
	Output io.Writer

	// Title lands in the cast header.
	Title string

	// CaptureInput also records keystrokes as "i" events.
	CaptureInput bool
}

// Session is one live recording. The zero value is not usable;
// construct with Start.
type Session struct {
	cast   *asciicast.Writer
	castMu sync.Mutex // output, input and winch goroutines all write

	ptmx  *os.File
	cmd   *exec.Cmd
	start time.Time
	opts  Options

	orig *term.State

	// wg joins the winch goroutine so no resize event lands after
	// wait starts tearing the session down. The input pump is not
	// on it: a raw-mode stdin read has no portable cancellation,
	// so that goroutine exits with the process.
	wg     sync.WaitGroup
	quitCh chan struct{}
}

// Record runs the whole session and blocks until the recorded
// command exits. It returns the command's exit code.
func Record(opts Options) (int, error) {
	s, err := start(opts)
	if err != nil {
		return 0, err
	}
	return s.wait()
}

func start(opts Options) (*Session, error) {
	cmd := buildCmd(opts.Command)

	cols, rows := termSize()

	s := &Session{
		cast:   asciicast.NewWriter(opts.Output),
		cmd:    cmd,
		start:  time.Now(),
		opts:   opts,
		quitCh: make(chan struct{}),
	}

	h := asciicast.Header{
		Term:      &asciicast.TermInfo{Cols: cols, Rows: rows, Type: os.Getenv("TERM")},
		Timestamp: s.start.Unix(),
		Title:     opts.Title,
		Command:   cmd.Path,
		Env:       map[string]string{"SHELL": os.Getenv("SHELL"), "TERM": os.Getenv("TERM")},
	}
	if err := s.cast.WriteHeader(h); err != nil {
		return nil, err
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, fmt.Errorf("couldn't start pty: %w", err)
	}
	s.ptmx = ptmx

	// Fd() flips the descriptor to blocking mode, undo that so
	// reads keep honoring deadlines
	if err := syscall.SetNonblock(int(ptmx.Fd()), true); err != nil {
		slog.Debug("couldn't set ptmx non-blocking", "err", err)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		orig, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			ptmx.Close()
			return nil, fmt.Errorf("couldn't make terminal raw: %w", err)
		}
		s.orig = orig
	}

	s.wg.Add(1)
	go s.handleWinCh()
	go s.handleInput()

	return s, nil
}

// wait pumps pty output until the command exits, then cleans up.
func (s *Session) wait() (int, error) {
	buf := make([]byte, 32*1024)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				slog.Debug("local echo failed", "err", werr)
			}
			s.event(func(e time.Duration) error { return s.cast.Output(e, buf[:n]) })
		}
		if err != nil {
			// the pty master returns EIO once the child is gone
			break
		}
	}

	close(s.quitCh)
	s.wg.Wait()
	s.ptmx.Close()

	err := s.cmd.Wait()
	code := s.cmd.ProcessState.ExitCode()
	s.event(func(e time.Duration) error { return s.cast.Exit(e, code) })

	if s.orig != nil {
		if rerr := term.Restore(int(os.Stdin.Fd()), s.orig); rerr != nil {
			slog.Error("couldn't restore terminal state", "err", rerr)
		}
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return code, fmt.Errorf("waiting for command: %w", err)
	}
	return code, nil
}

func (s *Session) handleWinCh() {
	defer s.wg.Done()

	sig := make(chan os.Signal, 10)
	signal.Notify(sig, syscall.SIGWINCH)
	defer signal.Stop(sig)

	for {
		select {
		case <-sig:
			w, h, err := term.GetSize(int(os.Stdin.Fd()))
			if err != nil {
				slog.Debug("couldn't read terminal size", "err", err)
				continue
			}
			if err := pty.Setsize(s.ptmx, &pty.Winsize{Cols: uint16(w), Rows: uint16(h)}); err != nil {
				slog.Debug("couldn't propagate size to pty", "err", err)
			}
			s.event(func(e time.Duration) error { return s.cast.Resize(e, w, h) })
		case <-s.quitCh:
			return
		}
	}
}

func (s *Session) handleInput() {
	char := make([]byte, 1)
	for {
		select {
		case <-s.quitCh:
			return
		default:
		}

		n, err := os.Stdin.Read(char)
		if err != nil || n == 0 {
			return
		}

		if char[0] == MarkerKey {
			s.event(func(e time.Duration) error { return s.cast.Marker(e, "") })
			continue
		}

		if _, err := s.ptmx.Write(char[:n]); err != nil {
			slog.Debug("pty write failed", "err", err)
			return
		}
		if s.opts.CaptureInput {
			s.event(func(e time.Duration) error { return s.cast.Input(e, char[:n]) })
		}
	}
}

// event serializes cast writes across the pumping goroutines.
func (s *Session) event(write func(time.Duration) error) {
	s.castMu.Lock()
	defer s.castMu.Unlock()
	if err := write(time.Since(s.start)); err != nil {
		slog.Error("cast write failed", "err", err)
	}
}

// buildCmd prepares the recorded command: the explicit argv, or a
// login shell the way interactive terminals spawn one.
func buildCmd(argv []string) *exec.Cmd {
	if len(argv) > 0 {
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Env = os.Environ()
		return cmd
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell)
	cmd.Args = []string{"-" + filepath.Base(shell)}
	cmd.Env = os.Environ()
	return cmd
}

func termSize() (cols, rows int) {
	if w, h, err := term.GetSize(int(os.Stdin.Fd())); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}
