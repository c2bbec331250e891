package analyze

import (
	"log/slog"
	"strings"

	"github.com/thiscantbeserious/agr/asciicast"
	"github.com/thiscantbeserious/agr/vt"
)

// stallGap is the pause, in seconds, after which the line under the
// cursor counts as finished even without a newline.
const stallGap = 2.0

// Story replays output through the terminal emulator and emits a
// chronological transcript of the session: control sequences and
// cursor games disappear, spatial layout survives. Lines scrolled off
// the screen are captured the moment they leave; lines still on
// screen are emitted once the cursor moves past them. Redrawn lines
// are deduplicated so TUI repaints don't repeat themselves.
type Story struct {
	term     *vt.Terminal
	stable   int
	lastRow  int
	lastTime float64
	seen     map[string]struct{}
	scrolled []string
}

func NewStory(cols, rows int) (*Story, error) {
	term, err := vt.NewTerminal(rows, cols)
	if err != nil {
		return nil, err
	}

	s := &Story{term: term, seen: make(map[string]struct{})}
	term.OnScrollOut(func(line string) { s.scrolled = append(s.scrolled, line) })
	return s, nil
}

func (s *Story) Apply(events []asciicast.Event) []asciicast.Event {
	out := make([]asciicast.Event, 0, len(events))

	emit := func(time float64, lines []string) {
		fresh := s.filterNew(lines)
		if len(fresh) > 0 {
			out = append(out, asciicast.Event{
				Time: time,
				Code: asciicast.EventOutput,
				Data: strings.Join(fresh, "\n") + "\n",
			})
		}
	}

	for _, e := range events {
		switch e.Code {
		case asciicast.EventOutput:
			s.scrolled = s.scrolled[:0]
			s.term.Advance([]byte(e.Data))

			if len(s.scrolled) > 0 {
				emit(e.Time, s.scrolled)
			}

			row, _ := s.term.Cursor()

			// Rows the cursor moved past are finished.
			var done []string
			for s.stable < row && s.stable < s.term.Rows() {
				done = append(done, s.term.PlainLine(s.stable))
				s.stable++
			}

			// The cursor's own row is surfaced when the cursor
			// jumped back up (redraw or prompt) or after a long
			// pause, without advancing the high-water mark: the
			// line may still grow, and the dedupe set absorbs
			// re-emits.
			settled := row < s.lastRow || e.Time-s.lastTime > stallGap
			if settled && row < s.term.Rows() {
				done = append(done, s.term.PlainLine(row))
			}

			emit(e.Time, done)
			s.lastRow = row
			s.lastTime = e.Time

		case asciicast.EventResize:
			if cols, rows, err := e.ResizeDims(); err == nil {
				if rerr := s.term.Resize(rows, cols); rerr != nil {
					slog.Debug("resize skipped", "err", rerr)
				}
			} else {
				slog.Debug("malformed resize event", "err", err)
			}
			out = append(out, e)

		default:
			out = append(out, e)
		}
	}

	// Flush the final screen; the dedupe set drops everything the
	// story already told.
	var tail []string
	for r := 0; r < s.term.Rows(); r++ {
		tail = append(tail, s.term.PlainLine(r))
	}
	emit(s.lastTime, tail)

	return out
}

// filterNew drops blank lines and lines already in the story.
func (s *Story) filterNew(lines []string) []string {
	var out []string
	for _, line := range lines {
		key := strings.TrimRight(line, " ")
		if strings.TrimSpace(key) == "" {
			continue
		}
		if _, dup := s.seen[key]; dup {
			continue
		}
		s.seen[key] = struct{}{}
		out = append(out, line)
	}
	return out
}
