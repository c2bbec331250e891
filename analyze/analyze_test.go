package analyze

import (
	"strings"
	"testing"

	"github.com/thiscantbeserious/agr/asciicast"
)

func out(t float64, data string) asciicast.Event {
	return asciicast.Event{Time: t, Code: asciicast.EventOutput, Data: data}
}

func TestDedupeProgressCollapsesRewrites(t *testing.T) {
	d := &DedupeProgress{}
	got := d.Apply([]asciicast.Event{
		out(0.1, "\r⠋ Building..."),
		out(0.2, "\r⠙ Building..."),
		out(0.3, "\r⠹ Building..."),
		out(0.4, "\r✓ Build complete\n"),
	})

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0].Data, "Build complete") {
		t.Errorf("data = %q, want the final frame", got[0].Data)
	}
	if got[0].Time != 0.4 {
		t.Errorf("time = %v, want the line start 0.4", got[0].Time)
	}
	if d.Collapsed != 1 {
		t.Errorf("Collapsed = %d, want 1", d.Collapsed)
	}
}

func TestDedupeProgressKeepsMarkers(t *testing.T) {
	d := &DedupeProgress{}
	got := d.Apply([]asciicast.Event{
		out(0.1, "line1\n"),
		{Time: 0.2, Code: asciicast.EventMarker, Data: "checkpoint"},
		out(0.3, "line2\n"),
	})

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3: %v", len(got), got)
	}
	if got[1].Code != asciicast.EventMarker || got[1].Data != "checkpoint" {
		t.Errorf("marker mangled: %v", got[1])
	}
}

func TestDedupeProgressKeepsPlainLines(t *testing.T) {
	d := &DedupeProgress{}
	got := d.Apply([]asciicast.Event{
		out(0.1, "first\n"),
		out(0.2, "second\n"),
		out(0.3, "third"),
	})

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3: %v", len(got), got)
	}
	if got[2].Data != "third" {
		t.Errorf("trailing unterminated line = %q, want %q", got[2].Data, "third")
	}
	if d.Collapsed != 0 {
		t.Errorf("Collapsed = %d, want 0", d.Collapsed)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"hello    world", "hello world"},
		{"line1\n\n\n\n\nline2", "line1\n\nline2"},
		{"hello\t\tworld", "hello world"},
		{"mixed \t space", "mixed space"},
	}

	for i, c := range cases {
		got := NormalizeWhitespace{}.Apply([]asciicast.Event{out(0.1, c.in)})
		if got[0].Data != c.want {
			t.Errorf("%d: %q = %q, want %q", i, c.in, got[0].Data, c.want)
		}
	}
}

func TestDropEmpty(t *testing.T) {
	got := DropEmpty{}.Apply([]asciicast.Event{
		out(0.1, "hello"),
		out(0.2, "   \n\t  "),
		{Time: 0.3, Code: asciicast.EventMarker, Data: ""},
		out(0.4, ""),
		out(0.5, "world"),
	})

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3: %v", len(got), got)
	}
	if got[1].Code != asciicast.EventMarker {
		t.Errorf("marker dropped: %v", got)
	}
}

func TestStoryCleansSession(t *testing.T) {
	s, err := NewStory(20, 4)
	if err != nil {
		t.Fatalf("NewStory: %v", err)
	}

	got := s.Apply([]asciicast.Event{
		out(0.1, "$ make\r\n"),
		out(0.2, "\r⠋ building"),
		out(0.3, "\r\x1b[K✓ built\r\n"),
		out(0.4, "$ \x1b[1mdone\x1b[0m\r\n"),
	})

	var text strings.Builder
	for _, e := range got {
		text.WriteString(e.Data)
	}

	want := []string{"$ make", "✓ built", "$ done"}
	lines := strings.Split(strings.TrimRight(text.String(), "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if strings.Contains(text.String(), "\x1b") {
		t.Error("escape sequences leaked into the story")
	}
	if strings.Contains(text.String(), "⠋") {
		t.Error("spinner frame leaked into the story")
	}
}

func TestStoryCapturesScrolledLines(t *testing.T) {
	s, err := NewStory(10, 2)
	if err != nil {
		t.Fatalf("NewStory: %v", err)
	}

	got := s.Apply([]asciicast.Event{
		out(0.1, "a\r\nb\r\nc\r\nd\r\n"),
	})

	var text strings.Builder
	for _, e := range got {
		text.WriteString(e.Data)
	}
	if want := "a\nb\nc\nd\n"; text.String() != want {
		t.Errorf("story = %q, want %q", text.String(), want)
	}
}

func TestStoryDedupesRedraws(t *testing.T) {
	s, err := NewStory(20, 3)
	if err != nil {
		t.Fatalf("NewStory: %v", err)
	}

	// the same status line painted twice must appear once
	got := s.Apply([]asciicast.Event{
		out(0.1, "\x1b[1;1Hstatus: ok\r\n"),
		out(0.2, "\x1b[1;1Hstatus: ok\r\n"),
	})

	var count int
	for _, e := range got {
		count += strings.Count(e.Data, "status: ok")
	}
	if count != 1 {
		t.Errorf("status line appeared %d times, want 1", count)
	}
}

func TestExtractSegments(t *testing.T) {
	cast := &asciicast.Cast{
		Header: asciicast.Header{Version: 2, Width: 80, Height: 24},
		Events: []asciicast.Event{
			out(0.1, "one\n"),
			out(0.2, "two\n"),
			{Time: 5.0, Code: asciicast.EventMarker, Data: "phase two"},
			out(5.1, "three\n"),
			out(9.0, "four\n"),
		},
	}

	opts := DefaultOptions()
	opts.Screen = false
	res, err := Extract(cast, opts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(res.Segments) != 3 {
		t.Fatalf("segments = %d, want 3: %+v", len(res.Segments), res.Segments)
	}

	cases := []struct {
		label, text string
		start       float64
	}{
		{"", "one\ntwo\n", 0.1},
		{"phase two", "three\n", 5.1},
		{"", "four\n", 9.0},
	}
	for i, c := range cases {
		s := res.Segments[i]
		if s.Label != c.label || s.Text != c.text || s.Start != c.start {
			t.Errorf("%d: segment = %+v, want %+v", i, s, c)
		}
		if want := (len(c.text) + 3) / 4; s.Tokens != want {
			t.Errorf("%d: tokens = %d, want %d", i, s.Tokens, want)
		}
	}

	if res.Stats.RawBytes != 19 || res.Stats.CleanBytes != 19 {
		t.Errorf("stats = %+v, want 19 raw and clean bytes", res.Stats)
	}
}

func TestExtractScreenMode(t *testing.T) {
	cast := &asciicast.Cast{
		Header: asciicast.Header{Version: 3, Term: &asciicast.TermInfo{Cols: 30, Rows: 4}},
		Events: []asciicast.Event{
			// v3 times are deltas
			out(0.1, "\x1b[32m$ ls\x1b[0m\r\n"),
			out(0.1, "a.txt  b.txt\r\n"),
		},
	}

	res, err := Extract(cast, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	text := res.Text()
	if strings.Contains(text, "\x1b") {
		t.Errorf("escapes leaked: %q", text)
	}
	if !strings.Contains(text, "$ ls") || !strings.Contains(text, "a.txt b.txt") {
		t.Errorf("text = %q", text)
	}
}
