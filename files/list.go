package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/thiscantbeserious/agr/asciicast"
)

// Entry describes one recording found in the recordings directory.
// Title and Duration come from peeking at the cast file; a file that
// fails to parse still lists, with those fields zeroed.
type Entry struct {
	Path     string
	Name     string
	Title    string
	Size     int64
	ModTime  time.Time
	Duration float64 // seconds, 0 when unknown
	Cols     int
	Rows     int
}

// List returns the .cast files under dir, newest first. A missing
// directory is an empty listing, not an error.
func List(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing recordings: %w", err)
	}

	var out []Entry
	for _, de := range des {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".cast") {
			continue
		}

		info, err := de.Info()
		if err != nil {
			slog.Debug("stat failed, skipping", "name", de.Name(), "err", err)
			continue
		}

		e := Entry{
			Path:    filepath.Join(dir, de.Name()),
			Name:    de.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}

		if c, err := asciicast.Load(e.Path); err == nil {
			e.Title = c.Header.Title
			e.Duration = c.Duration()
			e.Cols, e.Rows = c.Header.Size()
		} else {
			slog.Debug("unreadable cast listed without metadata", "path", e.Path, "err", err)
		}

		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ModTime.After(out[j].ModTime)
	})
	return out, nil
}

// Latest returns the most recent recording, or an error when the
// directory holds none.
func Latest(dir string) (Entry, error) {
	entries, err := List(dir)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("no recordings in %s", dir)
	}
	return entries[0], nil
}
