// Package analyze distills a recorded session into clean text. It
// strips terminal control sequences by replaying output through the
// emulator, collapses progress-line rewrites, normalizes whitespace
// and splits the result into time-gap segments suitable for feeding
// to downstream tooling.
package analyze

import (
	"strings"

	"github.com/thiscantbeserious/agr/asciicast"
)

// Transform rewrites an event stream in place of the previous one.
// Event times are absolute seconds from the session start; markers,
// input and resize events pass through every transform untouched.
type Transform interface {
	Apply(events []asciicast.Event) []asciicast.Event
}

// DedupeProgress collapses lines that rewrite themselves with
// carriage returns, the way spinners and progress bars do. Only the
// final state of each line survives, stamped with the time the line
// started.
type DedupeProgress struct {
	// Collapsed counts how many rewritten lines were folded away,
	// valid after Apply.
	Collapsed int
}

func (d *DedupeProgress) Apply(events []asciicast.Event) []asciicast.Event {
	out := make([]asciicast.Event, 0, len(events))

	var line strings.Builder
	var lineStart float64
	var rewritten bool

	flush := func() {
		if line.Len() == 0 {
			return
		}
		out = append(out, asciicast.Event{Time: lineStart, Code: asciicast.EventOutput, Data: line.String()})
		line.Reset()
	}

	for _, e := range events {
		if e.Code != asciicast.EventOutput {
			flush()
			out = append(out, e)
			continue
		}

		for _, r := range e.Data {
			switch r {
			case '\r':
				rewritten = true
				line.Reset()
				lineStart = e.Time
			case '\n':
				if line.Len() > 0 {
					line.WriteRune('\n')
					flush()
				} else {
					out = append(out, asciicast.Event{Time: e.Time, Code: asciicast.EventOutput, Data: "\n"})
				}
				if rewritten {
					d.Collapsed++
				}
				rewritten = false
			default:
				if line.Len() == 0 {
					lineStart = e.Time
				}
				line.WriteRune(r)
			}
		}
	}

	flush()
	return out
}

// NormalizeWhitespace collapses runs of spaces and tabs to a single
// space and caps consecutive newlines.
type NormalizeWhitespace struct {
	// MaxNewlines is the longest run of newlines kept; zero means
	// the default of 2.
	MaxNewlines int
}

func (n NormalizeWhitespace) Apply(events []asciicast.Event) []asciicast.Event {
	maxNL := n.MaxNewlines
	if maxNL < 1 {
		maxNL = 2
	}

	for i, e := range events {
		if e.Code != asciicast.EventOutput {
			continue
		}

		var sb strings.Builder
		sb.Grow(len(e.Data))
		var prevSpace bool
		var newlines int

		for _, r := range e.Data {
			switch {
			case r == '\n':
				newlines++
				if newlines <= maxNL {
					sb.WriteRune(r)
				}
				prevSpace = false
			case r == ' ' || r == '\t':
				newlines = 0
				if !prevSpace {
					sb.WriteRune(' ')
					prevSpace = true
				}
			default:
				newlines = 0
				prevSpace = false
				sb.WriteRune(r)
			}
		}
		events[i].Data = sb.String()
	}
	return events
}

// DropEmpty removes output events with nothing but whitespace in
// them. Markers, input and resize events always survive.
type DropEmpty struct{}

func (DropEmpty) Apply(events []asciicast.Event) []asciicast.Event {
	out := events[:0]
	for _, e := range events {
		if e.Code == asciicast.EventOutput && strings.TrimSpace(e.Data) == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
