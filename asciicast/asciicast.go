// Package asciicast reads and writes terminal recordings in the
// asciicast JSON-lines formats. Version 3 is the native format
// (relative event times, term object in the header); version 2 files
// (absolute times, width/height in the header) load transparently.
//
// Reference: https://docs.asciinema.org/manual/asciicast/v3/
package asciicast

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Event type codes as they appear on the wire.
const (
	EventOutput = "o"
	EventInput  = "i"
	EventMarker = "m"
	EventResize = "r"
	EventExit   = "x"
)

// TermInfo is the v3 header's term object.
type TermInfo struct {
	Cols    int    `json:"cols"`
	Rows    int    `json:"rows"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
}

// Header is the first JSON line of a cast file. Width/Height carry
// the v2 geometry, Term the v3 geometry; Size hides the difference.
type Header struct {
	Version       int               `json:"version"`
	Width         int               `json:"width,omitempty"`
	Height        int               `json:"height,omitempty"`
	Term          *TermInfo         `json:"term,omitempty"`
	Timestamp     int64             `json:"timestamp,omitempty"`
	IdleTimeLimit float64           `json:"idle_time_limit,omitempty"`
	Command       string            `json:"command,omitempty"`
	Title         string            `json:"title,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
}

// Size returns the recorded terminal geometry regardless of format
// version, falling back to 80x24 when the header carries none.
func (h Header) Size() (cols, rows int) {
	if h.Term != nil && h.Term.Cols > 0 && h.Term.Rows > 0 {
		return h.Term.Cols, h.Term.Rows
	}
	if h.Width > 0 && h.Height > 0 {
		return h.Width, h.Height
	}
	return 80, 24
}

// Event is one recorded event line: [time, code, data]. Time is
// relative to the previous event in v3 files and absolute from the
// start in v2 files; Cast.Times normalizes.
type Event struct {
	Time float64
	Code string
	Data string
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Time, e.Code, e.Data})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var arr []any
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) < 3 {
		return fmt.Errorf("event needs 3 elements, got %d", len(arr))
	}

	t, ok := arr[0].(float64)
	if !ok {
		return fmt.Errorf("event time %v is not a number", arr[0])
	}
	code, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("event code %v is not a string", arr[1])
	}
	d, ok := arr[2].(string)
	if !ok {
		return fmt.Errorf("event data %v is not a string", arr[2])
	}

	e.Time, e.Code, e.Data = t, code, d
	return nil
}

// ResizeDims parses the COLSxROWS payload of an "r" event.
func (e Event) ResizeDims() (cols, rows int, err error) {
	c, r, ok := strings.Cut(e.Data, "x")
	if !ok {
		return 0, 0, fmt.Errorf("malformed resize payload %q", e.Data)
	}
	if cols, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("malformed resize payload %q: %v", e.Data, err)
	}
	if rows, err = strconv.Atoi(r); err != nil {
		return 0, 0, fmt.Errorf("malformed resize payload %q: %v", e.Data, err)
	}
	return cols, rows, nil
}

// Cast is a fully loaded recording.
type Cast struct {
	Header Header
	Events []Event
}

// Times returns the absolute time in seconds of every event,
// regardless of whether the file stored relative (v3) or absolute
// (v2) offsets.
func (c *Cast) Times() []float64 {
	out := make([]float64, len(c.Events))

	if c.Header.Version >= 3 {
		var cum float64
		for i, e := range c.Events {
			cum += e.Time
			out[i] = cum
		}
		return out
	}

	for i, e := range c.Events {
		out[i] = e.Time
	}
	return out
}

// Duration is the absolute time of the last event, in seconds.
func (c *Cast) Duration() float64 {
	times := c.Times()
	if len(times) == 0 {
		return 0
	}
	return times[len(times)-1]
}

// Marker is an "m" event resolved to its absolute time.
type Marker struct {
	Time  float64
	Label string
	Index int // position in Cast.Events
}

// Markers collects every marker event with cumulative times resolved.
func (c *Cast) Markers() []Marker {
	var out []Marker
	times := c.Times()
	for i, e := range c.Events {
		if e.Code == EventMarker {
			out = append(out, Marker{Time: times[i], Label: e.Data, Index: i})
		}
	}
	return out
}
