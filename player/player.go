// Package player replays asciicast recordings inside the live
// terminal. Output events are fed through the vt emulator and the
// resulting grid is painted with termenv, so a recording made at any
// size plays back correctly in any terminal.
//
// Seeking never rewinds the emulator: the screen state at time T is
// reproduced by replaying from the start, which the emulator does in
// microseconds for any realistic cast.
package player

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/thiscantbeserious/agr/asciicast"
	"github.com/thiscantbeserious/agr/vt"
)

const seekStep = 5.0 // seconds, for the arrow keys

// Options tune one playback run.
type Options struct {
	// Speed is the playback speed multiplier, 1.0 plays realtime.
	Speed float64

	// IdleLimit caps the gap between two events in seconds. Zero
	// means no cap.
	IdleLimit float64
}

// Player holds the playback position over a loaded cast.
type Player struct {
	cast  *asciicast.Cast
	times []float64 // absolute event times, parallel to cast.Events
	term  *vt.Terminal

	speed     float64
	idleLimit float64
	paused    bool

	idx   int     // next event to apply
	clock float64 // playback position in seconds
}

func New(cast *asciicast.Cast, opts Options) (*Player, error) {
	if opts.Speed <= 0 {
		opts.Speed = 1.0
	}

	cols, rows := cast.Header.Size()
	t, err := vt.NewTerminal(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("cast geometry: %w", err)
	}

	return &Player{
		cast:      cast,
		times:     cast.Times(),
		term:      t,
		speed:     opts.Speed,
		idleLimit: opts.IdleLimit,
	}, nil
}

// apply feeds one event into the emulator.
func (p *Player) apply(e asciicast.Event) {
	switch e.Code {
	case asciicast.EventOutput:
		p.term.Advance([]byte(e.Data))
	case asciicast.EventResize:
		cols, rows, err := e.ResizeDims()
		if err != nil {
			slog.Debug("skipping malformed resize event", "err", err)
			return
		}
		if err := p.term.Resize(rows, cols); err != nil {
			slog.Debug("skipping resize event", "err", err)
		}
	}
	// input, markers and exit don't alter the screen
}

// step applies the next event and advances the clock. Reports false
// when the cast is exhausted.
func (p *Player) step() bool {
	if p.idx >= len(p.cast.Events) {
		return false
	}
	p.clock = p.times[p.idx]
	p.apply(p.cast.Events[p.idx])
	p.idx++
	return true
}

// delayToNext is the wall-clock wait before the next event, with
// speed and idle cap applied.
func (p *Player) delayToNext() time.Duration {
	if p.idx >= len(p.cast.Events) {
		return 0
	}

	gap := p.times[p.idx] - p.clock
	if gap < 0 {
		gap = 0
	}
	if p.idleLimit > 0 && gap > p.idleLimit {
		gap = p.idleLimit
	}
	return time.Duration(gap / p.speed * float64(time.Second))
}

// seekTo rebuilds the screen as of the target time by replaying from
// the start.
func (p *Player) seekTo(target float64) {
	if target < 0 {
		target = 0
	}
	if d := p.cast.Duration(); target > d {
		target = d
	}

	cols, rows := p.cast.Header.Size()
	t, err := vt.NewTerminal(rows, cols)
	if err != nil {
		slog.Debug("seek rebuild failed", "err", err)
		return
	}
	p.term = t

	p.idx = 0
	for p.idx < len(p.cast.Events) && p.times[p.idx] <= target {
		p.apply(p.cast.Events[p.idx])
		p.idx++
	}
	p.clock = target
}

// nextMarker returns the time of the first marker after the current
// position.
func (p *Player) nextMarker() (float64, bool) {
	for _, m := range p.cast.Markers() {
		if m.Time > p.clock {
			return m.Time, true
		}
	}
	return 0, false
}

// prevMarker returns the last marker strictly before the current
// position, with a small grace so repeated presses walk backwards.
func (p *Player) prevMarker() (float64, bool) {
	found := false
	var at float64
	for _, m := range p.cast.Markers() {
		if m.Time < p.clock-0.5 {
			at = m.Time
			found = true
		}
	}
	return at, found
}

func (p *Player) status() string {
	state := "playing"
	if p.paused {
		state = "paused "
	}
	return fmt.Sprintf(" %s  %6.1fs / %.1fs  %.2gx  [space] pause  [←→] seek  [[/]] marker  [+/-] speed  [q] quit",
		state, p.clock, p.cast.Duration(), p.speed)
}

// Run plays the cast interactively until it ends or the viewer
// quits.
func (p *Player) Run() error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("playback needs a terminal")
	}

	orig, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("couldn't make terminal raw: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, orig); err != nil {
			slog.Error("couldn't restore terminal state", "err", err)
		}
	}()

	out := termenv.NewOutput(os.Stdout)
	out.AltScreen()
	out.HideCursor()
	defer func() {
		out.ShowCursor()
		out.ExitAltScreen()
	}()

	r := newRenderer(out)
	keys := make(chan key, 16)
	go readKeys(os.Stdin, keys)

	r.draw(p.term, p.status())
	for {
		if p.paused || p.idx >= len(p.cast.Events) {
			k, ok := <-keys
			if !ok || p.handleKey(k) {
				return nil
			}
			r.draw(p.term, p.status())
			continue
		}

		timer := time.NewTimer(p.delayToNext())
		select {
		case k, ok := <-keys:
			timer.Stop()
			if !ok || p.handleKey(k) {
				return nil
			}
		case <-timer.C:
			p.step()
		}
		r.draw(p.term, p.status())
	}
}

// handleKey applies one key press, reporting true on quit.
func (p *Player) handleKey(k key) bool {
	switch k {
	case keyQuit:
		return true
	case keyPause:
		p.paused = !p.paused
	case keyFaster:
		if p.speed < 16 {
			p.speed *= 2
		}
	case keySlower:
		if p.speed > 0.125 {
			p.speed /= 2
		}
	case keyBack:
		p.seekTo(p.clock - seekStep)
	case keyForward:
		p.seekTo(p.clock + seekStep)
	case keyNextMarker:
		if at, ok := p.nextMarker(); ok {
			p.seekTo(at)
		}
	case keyPrevMarker:
		if at, ok := p.prevMarker(); ok {
			p.seekTo(at)
		}
	}
	return false
}
