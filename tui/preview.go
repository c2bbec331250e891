package tui

import (
	"log/slog"

	"github.com/thiscantbeserious/agr/asciicast"
	"github.com/thiscantbeserious/agr/files"
	"github.com/thiscantbeserious/agr/vt"
)

// Preview replays a cast headlessly and returns the final screen as
// plain text lines, trailing blank lines trimmed.
func Preview(path string) ([]string, error) {
	c, err := asciicast.Load(path)
	if err != nil {
		return nil, err
	}

	cols, rows := c.Header.Size()
	term, err := vt.NewTerminal(rows, cols)
	if err != nil {
		return nil, err
	}

	for _, e := range c.Events {
		switch e.Code {
		case asciicast.EventOutput:
			term.Advance([]byte(e.Data))
		case asciicast.EventResize:
			if cols, rows, err := e.ResizeDims(); err == nil {
				if err := term.Resize(rows, cols); err != nil {
					slog.Debug("preview skipping resize", "err", err)
				}
			}
		}
	}

	lines := make([]string, term.Rows())
	for r := range lines {
		lines[r] = term.PlainLine(r)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// CachedPreview is Preview behind the sqlite cache. A nil cache just
// renders.
func CachedPreview(cache *PreviewCache, e files.Entry) ([]string, error) {
	mtime := e.ModTime.UnixNano()
	if cache != nil {
		if lines, ok := cache.Get(e.Path, mtime); ok {
			return lines, nil
		}
	}

	lines, err := Preview(e.Path)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if err := cache.Put(e.Path, mtime, lines); err != nil {
			slog.Debug("preview cache write failed", "err", err)
		}
	}
	return lines, nil
}
