package asciicast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// event lines are rarely long, but a burst of output between two
// reads of the pty can produce one big "o" event
const maxLineBytes = 16 * 1024 * 1024

// Load reads a whole cast file from disk.
func Load(path string) (*Cast, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cast: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read parses a v2 or v3 cast from r. Blank lines are skipped; a
// malformed event line fails the whole load with its line number.
func Read(r io.Reader) (*Cast, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		return nil, fmt.Errorf("empty cast file")
	}

	var h Header
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	if h.Version != 2 && h.Version != 3 {
		return nil, fmt.Errorf("unsupported cast version %d", h.Version)
	}

	c := &Cast{Header: h}
	line := 1
	for sc.Scan() {
		line++
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}

		var e Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.Events = append(c.Events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading events: %w", err)
	}

	return c, nil
}
