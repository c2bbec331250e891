package tui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/thiscantbeserious/agr/files"
)

// Browser is the interactive recording list. Run returns the path
// the user chose to play, or "" when they quit without choosing;
// playback itself happens after the screen is torn down.
type Browser struct {
	screen  tcell.Screen
	entries []files.Entry
	cache   *PreviewCache

	sel           int
	marked        map[string]bool
	confirmDelete bool
	status        string
}

func NewBrowser(entries []files.Entry, cache *PreviewCache) (*Browser, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}

	return &Browser{screen: screen, entries: entries, cache: cache, marked: make(map[string]bool)}, nil
}

// Run owns the event loop until the user picks a recording or quits.
func (b *Browser) Run() (string, error) {
	defer b.screen.Fini()

	for {
		b.draw()

		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventResize:
			b.screen.Sync()
		case *tcell.EventKey:
			if b.confirmDelete {
				b.handleConfirmKey(ev)
				continue
			}
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Rune() == 'q':
				return "", nil
			case ev.Key() == tcell.KeyUp || ev.Rune() == 'k':
				b.move(-1)
			case ev.Key() == tcell.KeyDown || ev.Rune() == 'j':
				b.move(1)
			case ev.Key() == tcell.KeyEnter:
				if e, ok := b.selected(); ok {
					return e.Path, nil
				}
			case ev.Rune() == ' ':
				b.toggleMark()
			case ev.Rune() == 'd':
				if len(b.targets()) > 0 {
					b.confirmDelete = true
				}
			}
		}
	}
}

func (b *Browser) handleConfirmKey(ev *tcell.EventKey) {
	b.confirmDelete = false
	if ev.Rune() != 'y' && ev.Rune() != 'Y' {
		b.status = "delete cancelled"
		return
	}
	b.deleteTargets()
}

// toggleMark flips the mark on the current entry and steps down one,
// so repeated presses sweep a range.
func (b *Browser) toggleMark() {
	e, ok := b.selected()
	if !ok {
		return
	}
	if b.marked[e.Path] {
		delete(b.marked, e.Path)
	} else {
		b.marked[e.Path] = true
	}
	b.move(1)
}

// targets returns the entries a delete would act on: every marked
// entry, or just the selection when nothing is marked.
func (b *Browser) targets() []files.Entry {
	if len(b.marked) > 0 {
		var out []files.Entry
		for _, e := range b.entries {
			if b.marked[e.Path] {
				out = append(out, e)
			}
		}
		return out
	}
	if e, ok := b.selected(); ok {
		return []files.Entry{e}
	}
	return nil
}

func (b *Browser) deleteTargets() {
	var removed, failed int
	for _, e := range b.targets() {
		if err := os.Remove(e.Path); err != nil {
			slog.Debug("delete failed", "path", e.Path, "err", err)
			failed++
			continue
		}
		if b.cache != nil {
			if err := b.cache.Forget(e.Path); err != nil {
				slog.Debug("cache forget failed", "err", err)
			}
		}
		delete(b.marked, e.Path)

		for i, cur := range b.entries {
			if cur.Path == e.Path {
				b.entries = append(b.entries[:i], b.entries[i+1:]...)
				break
			}
		}
		removed++
	}

	if b.sel >= len(b.entries) && b.sel > 0 {
		b.sel = len(b.entries) - 1
	}

	b.status = fmt.Sprintf("deleted %d recording(s)", removed)
	if failed > 0 {
		b.status = fmt.Sprintf("deleted %d, failed %d", removed, failed)
	}
}

func (b *Browser) move(delta int) {
	b.sel += delta
	if b.sel < 0 {
		b.sel = 0
	}
	if b.sel >= len(b.entries) {
		b.sel = len(b.entries) - 1
	}
}

func (b *Browser) selected() (files.Entry, bool) {
	if b.sel < 0 || b.sel >= len(b.entries) {
		return files.Entry{}, false
	}
	return b.entries[b.sel], true
}

var (
	styleDefault  = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleDim      = tcell.StyleDefault.Dim(true)
	styleBar      = tcell.StyleDefault.Reverse(true).Bold(true)
)

func (b *Browser) draw() {
	b.screen.Clear()
	w, h := b.screen.Size()

	listW := w * 2 / 5
	if listW < 20 {
		listW = w / 2
	}

	b.drawList(listW, h-1)
	b.drawPreview(listW+1, w, h-1)
	b.drawStatus(w, h-1)

	b.screen.Show()
}

func (b *Browser) drawList(width, height int) {
	if len(b.entries) == 0 {
		drawText(b.screen, 1, 1, styleDim, "no recordings yet; try `agr rec`")
		return
	}

	// keep the selection visible
	top := 0
	if b.sel >= height {
		top = b.sel - height + 1
	}

	for i := top; i < len(b.entries) && i-top < height; i++ {
		e := b.entries[i]
		style := styleDefault
		if i == b.sel {
			style = styleSelected
		}

		mark := " "
		if b.marked[e.Path] {
			mark = "*"
		}
		label := fmt.Sprintf("%s %s  %s  %s", mark, e.ModTime.Format("2006-01-02 15:04"), fmtDuration(e.Duration), e.Name)
		drawText(b.screen, 0, i-top, style, pad(label, width))
	}
}

func (b *Browser) drawPreview(x, w, h int) {
	e, ok := b.selected()
	if !ok {
		return
	}

	for row := 0; row < h; row++ {
		b.screen.SetContent(x-1, row, tcell.RuneVLine, nil, styleDim)
	}

	lines, err := CachedPreview(b.cache, e)
	if err != nil {
		drawText(b.screen, x+1, 0, styleDim, fmt.Sprintf("unreadable: %v", err))
		return
	}

	if e.Title != "" {
		drawText(b.screen, x+1, 0, styleDefault.Bold(true), e.Title)
	}
	for i, line := range lines {
		if i+1 >= h {
			break
		}
		drawText(b.screen, x+1, i+1, styleDefault, clip(line, w-x-1))
	}
}

func (b *Browser) drawStatus(w, y int) {
	msg := b.status
	if b.confirmDelete {
		switch tg := b.targets(); len(tg) {
		case 0:
		case 1:
			msg = fmt.Sprintf("delete %s? [y/N]", tg[0].Name)
		default:
			msg = fmt.Sprintf("delete %d recordings? [y/N]", len(tg))
		}
	}
	if msg == "" {
		msg = "[enter] play  [space] mark  [d] delete  [q] quit"
	}
	drawText(b.screen, 0, y, styleBar, pad(" "+msg, w))
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		col += w
	}
}

// pad and clip size strings by display width so wide glyphs keep the
// panes aligned.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

func fmtDuration(secs float64) string {
	if secs <= 0 {
		return "  --:--"
	}
	d := time.Duration(secs * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%3d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
