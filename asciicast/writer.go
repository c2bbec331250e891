package asciicast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Writer streams a v3 cast: one JSON line per call, flushed
// immediately so a crash mid-recording still leaves a playable file.
// Callers pass time elapsed since recording start; the writer turns
// that into the on-disk relative offsets. Not safe for concurrent
// use.
type Writer struct {
	bw          *bufio.Writer
	prev        time.Duration
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteHeader emits the header line. It must be called exactly once,
// before any event. The version field is forced to 3.
func (w *Writer) WriteHeader(h Header) error {
	if w.wroteHeader {
		return fmt.Errorf("header already written")
	}

	h.Version = 3
	if h.Term == nil {
		h.Term = &TermInfo{Cols: h.Width, Rows: h.Height}
	}
	// geometry lives in term for v3, never in width/height
	h.Width, h.Height = 0, 0

	if err := w.writeLine(h); err != nil {
		return fmt.Errorf("writing cast header: %w", err)
	}
	w.wroteHeader = true
	return nil
}

// WriteEvent emits one event. elapsed is the time since recording
// start; successive calls must not go backwards.
func (w *Writer) WriteEvent(elapsed time.Duration, code, data string) error {
	if !w.wroteHeader {
		return fmt.Errorf("event before header")
	}
	if elapsed < w.prev {
		elapsed = w.prev
	}

	dt := elapsed - w.prev
	w.prev = elapsed

	if err := w.writeLine(Event{Time: dt.Seconds(), Code: code, Data: data}); err != nil {
		return fmt.Errorf("writing cast event: %w", err)
	}
	return nil
}

func (w *Writer) Output(elapsed time.Duration, data []byte) error {
	return w.WriteEvent(elapsed, EventOutput, string(data))
}

func (w *Writer) Input(elapsed time.Duration, data []byte) error {
	return w.WriteEvent(elapsed, EventInput, string(data))
}

func (w *Writer) Marker(elapsed time.Duration, label string) error {
	return w.WriteEvent(elapsed, EventMarker, label)
}

func (w *Writer) Resize(elapsed time.Duration, cols, rows int) error {
	return w.WriteEvent(elapsed, EventResize, fmt.Sprintf("%dx%d", cols, rows))
}

func (w *Writer) Exit(elapsed time.Duration, status int) error {
	return w.WriteEvent(elapsed, EventExit, fmt.Sprintf("%d", status))
}

func (w *Writer) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(data); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	return w.bw.Flush()
}
