package analyze

import (
	"strings"

	"github.com/thiscantbeserious/agr/asciicast"
)

// Options tunes the extraction pipeline.
type Options struct {
	// Screen replays output through the emulator (best for TUI
	// sessions). Off, a plain carriage-return dedupe runs instead.
	Screen bool

	// MaxNewlines caps consecutive blank lines, default 2.
	MaxNewlines int

	// SegmentGap is the silence, in seconds, that starts a new
	// segment. Zero means the default of 2.
	SegmentGap float64
}

func DefaultOptions() Options {
	return Options{Screen: true, MaxNewlines: 2, SegmentGap: 2.0}
}

// Segment is one coherent stretch of session output, bounded by
// markers and long pauses.
type Segment struct {
	Start, End float64
	Label      string // label of the marker that opened it, if any
	Text       string
	Tokens     int
}

// Stats summarizes how much the pipeline stripped.
type Stats struct {
	Events     int
	RawBytes   int
	CleanBytes int
}

// Result is an extracted session.
type Result struct {
	Segments []Segment
	Stats    Stats
}

// Text joins every segment, blank-line separated.
func (r Result) Text() string {
	parts := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		parts = append(parts, strings.TrimRight(s.Text, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// estimateTokens approximates LLM token counts at four bytes per
// token, close enough for budget decisions.
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Extract runs the pipeline over a loaded cast and returns the
// cleaned, segmented content.
func Extract(cast *asciicast.Cast, opts Options) (Result, error) {
	if opts.SegmentGap <= 0 {
		opts.SegmentGap = 2.0
	}

	// Work on absolute times regardless of the cast version.
	times := cast.Times()
	events := make([]asciicast.Event, len(cast.Events))
	var raw int
	for i, e := range cast.Events {
		events[i] = asciicast.Event{Time: times[i], Code: e.Code, Data: e.Data}
		if e.Code == asciicast.EventOutput {
			raw += len(e.Data)
		}
	}

	var pipeline []Transform
	if opts.Screen {
		cols, rows := cast.Header.Size()
		story, err := NewStory(cols, rows)
		if err != nil {
			return Result{}, err
		}
		pipeline = append(pipeline, story)
	} else {
		pipeline = append(pipeline, &DedupeProgress{})
	}
	pipeline = append(pipeline,
		NormalizeWhitespace{MaxNewlines: opts.MaxNewlines},
		DropEmpty{},
	)

	for _, tr := range pipeline {
		events = tr.Apply(events)
	}

	res := Result{
		Segments: segment(events, opts.SegmentGap),
		Stats:    Stats{Events: len(events), RawBytes: raw},
	}
	for _, s := range res.Segments {
		res.Stats.CleanBytes += len(s.Text)
	}
	return res, nil
}

// segment splits cleaned output on markers and long pauses. A marker
// always opens a fresh segment carrying its label.
func segment(events []asciicast.Event, gap float64) []Segment {
	var out []Segment
	var cur *Segment
	var lastTime float64
	var nextLabel string

	open := func(t float64) *Segment {
		out = append(out, Segment{Start: t, End: t, Label: nextLabel})
		nextLabel = ""
		return &out[len(out)-1]
	}

	for _, e := range events {
		switch e.Code {
		case asciicast.EventMarker:
			nextLabel = e.Data
			cur = nil
		case asciicast.EventOutput:
			if cur == nil || e.Time-lastTime > gap {
				cur = open(e.Time)
			}
			cur.Text += e.Data
			cur.End = e.Time
			lastTime = e.Time
		}
	}

	for i := range out {
		out[i].Tokens = estimateTokens(out[i].Text)
	}
	return out
}
