// Package vt is a headless VT100-style terminal emulator used to
// replay recorded session output. It consumes a byte stream (or
// pre-parsed Actions), maintains a grid of styled cells with full
// scroll-region (DECSTBM) support and exposes the grid and cursor for
// rendering. It never fails on malformed input: bad parameters are
// normalized to the nearest valid value, unknown sequences are
// deliberate no-ops.
//
// Origin mode (DECOM) is not implemented; DECSTBM always homes the
// cursor to absolute (0, 0). Known limitation.
package vt

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidSize is returned when a terminal is constructed or
// resized with a dimension below one. This is the only error the
// emulator surfaces; everything else is normalized.
var ErrInvalidSize = fmt.Errorf("terminal dimensions must be at least 1x1")

// Terminal owns the screen state for one playback session: the cell
// grid, cursor, scroll region and current pen. It is mutated by
// exactly one caller feeding it actions in stream order; it never
// blocks and performs no I/O. Snapshot the grid if another viewer
// needs it.
type Terminal struct {
	p  *parser
	fb *framebuffer

	cur, savedCur cursor
	curF          Format
	rg            region
	tabs          []bool

	// scrollOut, when set, observes each line pushed off the top
	// of the scroll region by an upward scroll, in order.
	scrollOut func(line string)

	// wrapNext defers the autowrap triggered by printing in the
	// last column until the next glyph arrives, so the cursor
	// stays in bounds between actions.
	wrapNext bool

	// pend holds an incomplete UTF-8 tail between Advance calls.
	pend []byte
}

func NewTerminal(rows, cols int) (*Terminal, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%dx%d: %w", cols, rows, ErrInvalidSize)
	}

	return &Terminal{
		p:    newParser(),
		fb:   newFramebuffer(rows, cols),
		rg:   fullRegion(rows),
		tabs: defaultTabStops(cols),
	}, nil
}

// defaultTabStops places a stop every 8 columns, the hardware default.
func defaultTabStops(cols int) []bool {
	tabs := make([]bool, cols)
	for c := 8; c < cols; c += 8 {
		tabs[c] = true
	}
	return tabs
}

// OnScrollOut registers an observer for lines scrolled off the top of
// the region, for callers that reconstruct session history from a
// replay. Pass nil to unregister.
func (t *Terminal) OnScrollOut(fn func(line string)) {
	t.scrollOut = fn
}

func (t *Terminal) Rows() int { return t.fb.getNumRows() }
func (t *Terminal) Cols() int { return t.fb.getNumCols() }

func (t *Terminal) Cursor() (row, col int) {
	return t.cur.row, t.cur.col
}

// Region returns the current scroll region, 0-indexed inclusive.
func (t *Terminal) Region() (top, bottom int) {
	return t.rg.top, t.rg.bottom
}

func (t *Terminal) CellAt(row, col int) (Cell, error) {
	return t.fb.getCell(row, col)
}

// Line returns a copy of one grid row, or nil when out of range.
func (t *Terminal) Line(row int) []Cell {
	if row < 0 || row >= t.fb.getNumRows() {
		return nil
	}
	out := make([]Cell, t.fb.getNumCols())
	copy(out, t.fb.data[row])
	return out
}

// PlainLine returns one row as text with trailing blanks trimmed and
// wide-glyph spacers dropped.
func (t *Terminal) PlainLine(row int) string {
	if row < 0 || row >= t.fb.getNumRows() {
		return ""
	}

	var sb strings.Builder
	for _, c := range t.fb.data[row] {
		if c.Spacer() {
			continue
		}
		sb.WriteRune(c.Rune())
	}
	return strings.TrimRight(sb.String(), " ")
}

// Advance feeds raw session output through the parser and applies
// every resulting action. Partial UTF-8 sequences at the end of data
// are held until the next call; stray non-UTF-8 bytes pass through as
// single runes the way a real terminal shows them.
func (t *Terminal) Advance(data []byte) {
	t.pend = append(t.pend, data...)

	for len(t.pend) > 0 {
		r, sz := utf8.DecodeRune(t.pend)
		if r == utf8.RuneError && sz == 1 {
			if !utf8.FullRune(t.pend) && len(t.pend) < utf8.UTFMax {
				return // wait for the rest of the rune
			}
			r = rune(t.pend[0])
		}
		t.pend = t.pend[sz:]

		for _, a := range t.p.parse(r) {
			t.Apply(a)
		}
	}
}

// Apply dispatches one control action to the engine that implements
// it. Unknown or deliberately unsupported actions fall through to the
// no-op branch; dispatch never fails.
func (t *Terminal) Apply(a Action) {
	switch a.Kind {
	case ActionPrint:
		t.print(a.R)
	case ActionLineFeed, ActionIndex:
		t.lineFeed()
	case ActionNextLine:
		t.lineFeed()
		t.cur.col = 0
	case ActionReverseIndex:
		t.reverseIndex()
	case ActionCarriageReturn:
		t.wrapNext = false
		t.cur.col = 0
	case ActionBackspace:
		t.cursorMoveAbs(t.cur.row, t.cur.col-1)
	case ActionTab:
		t.tab()
	case ActionCursorUp, ActionCursorDown, ActionCursorForward, ActionCursorBack,
		ActionCursorNextLine, ActionCursorPrevLine, ActionCursorCol, ActionCursorRow, ActionCursorTo:
		t.applyCursor(a)
	case ActionEraseDisplay, ActionEraseLine, ActionEraseChars:
		t.applyErase(a)
	case ActionInsertChars, ActionDeleteChars, ActionInsertLines, ActionDeleteLines:
		t.applyEdit(a)
	case ActionTabSet:
		t.tabs[t.cur.col] = true
	case ActionTabClear:
		t.clearTabs(a.rawParam(0, 0))
	case ActionSetStyle:
		t.curF = applyFormat(t.curF, &parameters{items: a.Params})
	case ActionSetRegion:
		t.setRegion(a)
	case ActionScrollUp:
		t.scrollUpRegion(t.rg, a.param(0, 1))
	case ActionScrollDown:
		t.fb.scrollDown(t.rg, a.param(0, 1))
	case ActionSaveCursor:
		t.savedCur = t.cur
	case ActionRestoreCursor:
		t.cursorMoveAbs(t.savedCur.row, t.savedCur.col)
	case ActionReset:
		t.reset()
	case ActionResize:
		if err := t.Resize(a.rawParam(0, t.Rows()), a.rawParam(1, t.Cols())); err != nil {
			slog.Debug("resize action dropped", "err", err)
		}
	case ActionBell, ActionIgnore, ActionNone:
		// deliberate no-ops: unsupported sequences must not
		// interrupt playback
	default:
		slog.Debug("unhandled action", "kind", a.Kind, "params", a.Params, "rune", a.R)
	}
}

// lineFeed moves the cursor down one row. At the bottom margin the
// cursor stays put and the region content scrolls up instead. Below
// the region it just moves, clamped to the last row.
func (t *Terminal) lineFeed() {
	t.wrapNext = false
	switch {
	case t.cur.row == t.rg.bottom:
		t.scrollUpRegion(t.rg, 1)
	case t.cur.row < t.fb.getNumRows()-1:
		t.cur.row++
	}
}

// reverseIndex is the mirror of lineFeed: up one row, scrolling the
// region down when already at the top margin.
func (t *Terminal) reverseIndex() {
	t.wrapNext = false
	switch {
	case t.cur.row == t.rg.top:
		t.fb.scrollDown(t.rg, 1)
	case t.cur.row > 0:
		t.cur.row--
	}
}

// scrollUpRegion reports the lines about to fall off the top margin
// to the scroll-out observer, then performs the scroll.
func (t *Terminal) scrollUpRegion(rg region, n int) {
	if t.scrollOut != nil && n > 0 {
		lost := n
		if lost > rg.rows() {
			lost = rg.rows()
		}
		for i := 0; i < lost; i++ {
			t.scrollOut(t.PlainLine(rg.top + i))
		}
	}
	t.fb.scrollUp(rg, n)
}

// tab advances to the next tab stop, or the last column when none
// remain. Stops default to every 8 columns; HTS adds one at the
// cursor, TBC removes one or all.
func (t *Terminal) tab() {
	next := t.fb.getNumCols() - 1
	for c := t.cur.col + 1; c < next; c++ {
		if t.tabs[c] {
			next = c
			break
		}
	}
	t.cursorMoveAbs(t.cur.row, next)
}

func (t *Terminal) clearTabs(mode int) {
	switch mode {
	case 0:
		t.tabs[t.cur.col] = false
	case 3:
		t.tabs = make([]bool, t.fb.getNumCols())
	}
}

func (t *Terminal) print(r rune) {
	rw := runewidth.RuneWidth(r)
	if rw == 0 {
		t.combine(r)
		return
	}

	nc := t.fb.getNumCols()
	if t.wrapNext || t.cur.col+rw > nc {
		t.cur.col = 0
		t.lineFeed()
	}

	row, col := t.cur.row, t.cur.col
	t.clearFrags(row, col)
	c := newCell(r, t.curF)

	if rw > 1 && col+1 < nc {
		t.clearFrags(row, col+1)
		t.fb.setCell(row, col+1, fragCell(0, t.curF, FRAG_SECONDARY))
		c.frag = FRAG_PRIMARY
	}

	t.fb.setCell(row, col, c)

	if col+rw < nc {
		t.cur.col = col + rw
	} else {
		t.cur.col = nc - 1
		t.wrapNext = true
	}
}

// combine folds a zero-width rune into the glyph it follows.
func (t *Terminal) combine(r rune) {
	row, col := t.cur.row, t.cur.col
	if !t.wrapNext {
		col--
	}
	if col < 0 {
		slog.Debug("combining rune with nothing to combine with", "r", r)
		return
	}

	c, err := t.fb.getCell(row, col)
	if err != nil {
		return
	}
	if c.Spacer() && col > 0 {
		col--
		c, _ = t.fb.getCell(row, col)
	}

	merged := []rune(norm.NFC.String(string(c.Rune()) + string(r)))
	c.r = merged[0]
	t.fb.setCell(row, col, c)
}

// clearFrags keeps wide glyphs whole: overwriting either half of a
// fragment pair blanks the other half.
func (t *Terminal) clearFrags(row, col int) {
	c, err := t.fb.getCell(row, col)
	if err != nil {
		return
	}
	switch c.frag {
	case FRAG_PRIMARY:
		t.fb.setCell(row, col+1, defaultCell())
	case FRAG_SECONDARY:
		t.fb.setCell(row, col-1, defaultCell())
	}
}

func (t *Terminal) applyCursor(a Action) {
	n := a.param(0, 1)
	row, col := t.cur.row, t.cur.col

	switch a.Kind {
	case ActionCursorUp:
		row -= n
	case ActionCursorDown:
		row += n
	case ActionCursorForward:
		col += n
	case ActionCursorBack:
		col -= n
	case ActionCursorNextLine:
		row += n
		col = 0
	case ActionCursorPrevLine:
		row -= n
		col = 0
	case ActionCursorCol:
		col = n - 1 // 0 based columns
	case ActionCursorRow:
		row = n - 1 // 0 based rows
	case ActionCursorTo:
		row = n - 1
		col = a.param(1, 1) - 1
	}

	// Plain cursor motion is clamped to the screen, never to the
	// scroll region. Only line-feed, reverse-index and explicit
	// scrolls care about the margins.
	t.cursorMoveAbs(row, col)
}

func (t *Terminal) cursorMoveAbs(row, col int) {
	t.wrapNext = false
	t.cur.row = clampInt(row, 0, t.fb.getNumRows()-1)
	t.cur.col = clampInt(col, 0, t.fb.getNumCols()-1)
}

func (t *Terminal) applyErase(a Action) {
	nr := t.fb.getNumRows()
	nc := t.fb.getNumCols()

	switch a.Kind {
	case ActionEraseDisplay:
		switch a.rawParam(0, 0) {
		case 0: // cursor to end of screen, inclusive
			t.fb.resetCells(t.cur.row, t.cur.col, nc)
			t.fb.resetRows(t.cur.row+1, nr-1)
		case 1: // start of screen to cursor, inclusive
			t.fb.resetRows(0, t.cur.row-1)
			t.fb.resetCells(t.cur.row, 0, t.cur.col+1)
		case 2, 3: // entire screen; 3 would also wipe scrollback we don't keep
			t.fb.resetRows(0, nr-1)
		}
	case ActionEraseLine:
		switch a.rawParam(0, 0) {
		case 0:
			t.fb.resetCells(t.cur.row, t.cur.col, nc)
		case 1:
			t.fb.resetCells(t.cur.row, 0, t.cur.col+1)
		case 2:
			t.fb.resetCells(t.cur.row, 0, nc)
		}
	case ActionEraseChars:
		n := a.param(0, 1)
		t.fb.resetCells(t.cur.row, t.cur.col, t.cur.col+n)
	}
}

func (t *Terminal) applyEdit(a Action) {
	n := a.param(0, 1)

	switch a.Kind {
	case ActionInsertChars:
		t.fb.insertCells(t.cur.row, t.cur.col, n)
	case ActionDeleteChars:
		t.fb.deleteCells(t.cur.row, t.cur.col, n)
	case ActionInsertLines, ActionDeleteLines:
		// IL/DL act on the sub-region from the cursor row to the
		// bottom margin, and only when the cursor is inside the
		// scroll region.
		if !t.rg.contains(t.cur.row) {
			return
		}
		sub := region{top: t.cur.row, bottom: t.rg.bottom}
		if a.Kind == ActionInsertLines {
			t.fb.scrollDown(sub, n)
		} else {
			t.fb.scrollUp(sub, n)
		}
	}
}

func (t *Terminal) setRegion(a Action) {
	t.rg = normalizeRegion(a.param(0, 1), a.param(1, t.fb.getNumRows()), t.fb.getNumRows())
	// https://vt100.net/docs/vt510-rm/DECSTBM.html
	// DECSTBM homes the cursor. Without origin mode that is the
	// absolute top left.
	t.cursorMoveAbs(0, 0)
}

// Resize rebuilds the grid for new dimensions, preserving top-left
// content. The scroll region is unconditionally reset to the full
// screen and the cursor clamped into bounds.
func (t *Terminal) Resize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%dx%d: %w", cols, rows, ErrInvalidSize)
	}

	t.fb.resize(rows, cols)
	t.rg = fullRegion(rows)
	t.tabs = defaultTabStops(cols)
	t.cursorMoveAbs(t.cur.row, t.cur.col)
	return nil
}

// reset implements RIS: blank grid at the current size, default pen,
// full-screen region, cursor home.
func (t *Terminal) reset() {
	rows, cols := t.fb.getNumRows(), t.fb.getNumCols()
	t.fb = newFramebuffer(rows, cols)
	t.cur = cursor{}
	t.savedCur = cursor{}
	t.curF = defFmt
	t.rg = fullRegion(rows)
	t.tabs = defaultTabStops(cols)
	t.wrapNext = false
}
