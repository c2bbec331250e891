package vt

import (
	"strings"
	"testing"
)

func mustTerminal(t *testing.T, rows, cols int) *Terminal {
	t.Helper()
	term, err := NewTerminal(rows, cols)
	if err != nil {
		t.Fatalf("NewTerminal(%d, %d): %v", rows, cols, err)
	}
	return term
}

// fill writes one printable rune per row so scroll tests can watch
// rows move.
func fillRows(term *Terminal, runes string) {
	for i, r := range runes {
		term.Apply(Action{Kind: ActionCursorTo, Params: []int{i + 1, 1}})
		term.Apply(Action{Kind: ActionPrint, R: r})
	}
}

func screen(term *Terminal) []string {
	out := make([]string, term.Rows())
	for r := range out {
		out[r] = term.PlainLine(r)
	}
	return out
}

func TestNewTerminal(t *testing.T) {
	cases := []struct {
		rows, cols int
		wantErr    bool
	}{
		{24, 80, false},
		{1, 1, false},
		{0, 80, true},
		{24, 0, true},
		{-1, -1, true},
	}

	for i, c := range cases {
		_, err := NewTerminal(c.rows, c.cols)
		if (err != nil) != c.wantErr {
			t.Errorf("%d: NewTerminal(%d, %d) err = %v, wantErr %t", i, c.rows, c.cols, err, c.wantErr)
		}
	}
}

func TestSetRegion(t *testing.T) {
	cases := []struct {
		rows         int
		params       []int
		wantT, wantB int
	}{
		// 1-indexed params map to 0-indexed inclusive margins.
		{5, []int{2, 4}, 1, 3},
		{24, []int{1, 24}, 0, 23},
		// missing and zero params default to the full screen
		{24, nil, 0, 23},
		{24, []int{0, 0}, 0, 23},
		{24, []int{5}, 4, 23},
		// degenerate or reversed regions fall back to full screen
		{24, []int{5, 3}, 0, 23},
		{24, []int{7, 7}, 0, 23},
		// out-of-range margins clamp before validation
		{10, []int{3, 99}, 2, 9},
		{10, []int{0, 99}, 0, 9},
	}

	for i, c := range cases {
		term := mustTerminal(t, c.rows, 10)
		term.Apply(Action{Kind: ActionCursorTo, Params: []int{3, 5}})
		term.Apply(Action{Kind: ActionSetRegion, Params: c.params})

		top, bottom := term.Region()
		if top != c.wantT || bottom != c.wantB {
			t.Errorf("%d: region = (%d, %d), want (%d, %d)", i, top, bottom, c.wantT, c.wantB)
		}

		if row, col := term.Cursor(); row != 0 || col != 0 {
			t.Errorf("%d: cursor = (%d, %d), want home after region change", i, row, col)
		}
	}
}

func TestLineFeedAtBottomMarginScrolls(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")

	// region rows 1..3, cursor to the bottom margin
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{2, 4}})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{4, 1}})

	term.Apply(Action{Kind: ActionLineFeed})

	want := []string{"A", "C", "D", "", "E"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}

	if row, _ := term.Cursor(); row != 3 {
		t.Errorf("cursor row = %d, want pinned at bottom margin 3", row)
	}
}

func TestLineFeedBelowRegion(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{1, 3}})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{4, 1}})

	term.Apply(Action{Kind: ActionLineFeed})

	// no scroll, plain move, clamped at the last row afterwards
	if row, _ := term.Cursor(); row != 4 {
		t.Errorf("cursor row = %d, want 4", row)
	}
	term.Apply(Action{Kind: ActionLineFeed})
	if row, _ := term.Cursor(); row != 4 {
		t.Errorf("cursor row after second feed = %d, want clamped 4", row)
	}
	if got := screen(term); got[0] != "A" || got[4] != "E" {
		t.Errorf("content moved unexpectedly: %q", got)
	}
}

func TestReverseIndex(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{2, 4}})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{2, 1}})

	term.Apply(Action{Kind: ActionReverseIndex})

	want := []string{"A", "", "B", "C", "E"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
	if row, _ := term.Cursor(); row != 1 {
		t.Errorf("cursor row = %d, want pinned at top margin 1", row)
	}
}

func TestScrollUpFullScreen(t *testing.T) {
	term := mustTerminal(t, 4, 10)
	fillRows(term, "ABCD")

	term.Apply(Action{Kind: ActionScrollUp, Params: []int{2}})

	want := []string{"C", "D", "", ""}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestScrollDownWithinRegion(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{2, 4}})

	term.Apply(Action{Kind: ActionScrollDown, Params: []int{1}})

	want := []string{"A", "", "B", "C", "E"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestScrollCountClamping(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{2, 4}})

	// more rows than the region holds just blanks the region
	term.Apply(Action{Kind: ActionScrollUp, Params: []int{99}})

	want := []string{"A", "", "", "", "E"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestResizeResetsRegion(t *testing.T) {
	term := mustTerminal(t, 24, 80)
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{5, 10}})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{20, 60}})

	if err := term.Resize(10, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}

	if top, bottom := term.Region(); top != 0 || bottom != 9 {
		t.Errorf("region = (%d, %d), want full screen (0, 9)", top, bottom)
	}
	if row, col := term.Cursor(); row != 9 || col != 39 {
		t.Errorf("cursor = (%d, %d), want clamped (9, 39)", row, col)
	}
	if term.Rows() != 10 || term.Cols() != 40 {
		t.Errorf("size = %dx%d, want 40x10", term.Cols(), term.Rows())
	}
}

func TestResizePreservesTopLeft(t *testing.T) {
	term := mustTerminal(t, 4, 10)
	fillRows(term, "ABCD")

	if err := term.Resize(2, 5); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := screen(term); got[0] != "A" || got[1] != "B" {
		t.Errorf("shrunk screen = %q, want rows A, B kept", got)
	}

	if err := term.Resize(6, 20); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	got := screen(term)
	if got[0] != "A" || got[1] != "B" {
		t.Errorf("regrown screen = %q, want rows A, B kept", got)
	}
	for r := 2; r < 6; r++ {
		if got[r] != "" {
			t.Errorf("row %d = %q, want blank padding", r, got[r])
		}
	}
}

func TestResizeRejectsBadDims(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	for i, c := range [][2]int{{0, 10}, {5, 0}, {-3, 10}} {
		if err := term.Resize(c[0], c[1]); err == nil {
			t.Errorf("%d: Resize(%d, %d) = nil, want error", i, c[0], c[1])
		}
	}
	// failed resize leaves the grid untouched
	if term.Rows() != 5 || term.Cols() != 10 {
		t.Errorf("size changed after failed resize: %dx%d", term.Cols(), term.Rows())
	}
}

func TestCursorMovesClampNotRegion(t *testing.T) {
	term := mustTerminal(t, 24, 80)
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{5, 10}})

	cases := []struct {
		a            Action
		wantR, wantC int
	}{
		// moves may leave the scroll region freely
		{Action{Kind: ActionCursorTo, Params: []int{20, 40}}, 19, 39},
		{Action{Kind: ActionCursorUp, Params: []int{99}}, 0, 39},
		{Action{Kind: ActionCursorDown, Params: []int{99}}, 23, 39},
		{Action{Kind: ActionCursorBack, Params: []int{99}}, 23, 0},
		{Action{Kind: ActionCursorForward, Params: []int{99}}, 23, 79},
		{Action{Kind: ActionCursorTo, Params: []int{999, 999}}, 23, 79},
		{Action{Kind: ActionCursorCol, Params: []int{5}}, 23, 4},
		{Action{Kind: ActionCursorRow, Params: []int{1}}, 0, 4},
		// missing params default to 1
		{Action{Kind: ActionCursorTo}, 0, 0},
		{Action{Kind: ActionCursorDown}, 1, 0},
	}

	for i, c := range cases {
		term.Apply(c.a)
		if row, col := term.Cursor(); row != c.wantR || col != c.wantC {
			t.Errorf("%d: cursor = (%d, %d), want (%d, %d)", i, row, col, c.wantR, c.wantC)
		}
	}
}

func TestPrintAndWrap(t *testing.T) {
	term := mustTerminal(t, 3, 5)
	term.Advance([]byte("abcdefg"))

	if got := term.PlainLine(0); got != "abcde" {
		t.Errorf("row 0 = %q, want %q", got, "abcde")
	}
	if got := term.PlainLine(1); got != "fg" {
		t.Errorf("row 1 = %q, want %q", got, "fg")
	}
	if row, col := term.Cursor(); row != 1 || col != 2 {
		t.Errorf("cursor = (%d, %d), want (1, 2)", row, col)
	}
}

func TestWrapDefersUntilNextGlyph(t *testing.T) {
	term := mustTerminal(t, 3, 5)
	term.Advance([]byte("abcde"))

	// cursor parks on the last column, no wrap yet
	if row, col := term.Cursor(); row != 0 || col != 4 {
		t.Errorf("cursor = (%d, %d), want (0, 4)", row, col)
	}

	// carriage return cancels the pending wrap
	term.Advance([]byte("\rX"))
	if got := term.PlainLine(0); got != "Xbcde" {
		t.Errorf("row 0 = %q, want %q", got, "Xbcde")
	}
	if got := term.PlainLine(1); got != "" {
		t.Errorf("row 1 = %q, want empty", got)
	}
}

func TestWrapAtBottomMarginScrolls(t *testing.T) {
	term := mustTerminal(t, 3, 5)
	term.Advance([]byte("abcdefghijklmnopq"))

	want := []string{"fghij", "klmno", "pq"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestWideRunes(t *testing.T) {
	term := mustTerminal(t, 2, 6)
	term.Advance([]byte("日本"))

	c0, _ := term.CellAt(0, 0)
	c1, _ := term.CellAt(0, 1)
	if !c0.Wide() || c0.Rune() != '日' {
		t.Errorf("cell (0,0) = %v, want wide 日", c0)
	}
	if !c1.Spacer() {
		t.Errorf("cell (0,1) = %v, want spacer", c1)
	}
	if row, col := term.Cursor(); row != 0 || col != 4 {
		t.Errorf("cursor = (%d, %d), want (0, 4)", row, col)
	}
	if got := term.PlainLine(0); got != "日本" {
		t.Errorf("row 0 = %q, want %q", got, "日本")
	}
}

func TestWideRuneWrapsWholeGlyph(t *testing.T) {
	// 5 columns: the second wide glyph would straddle the edge and
	// must wrap as a unit.
	term := mustTerminal(t, 2, 5)
	term.Advance([]byte("ab日本"))

	if got := term.PlainLine(0); got != "ab日" {
		t.Errorf("row 0 = %q, want %q", got, "ab日")
	}
	if got := term.PlainLine(1); got != "本" {
		t.Errorf("row 1 = %q, want %q", got, "本")
	}
}

func TestOverwriteWideFragment(t *testing.T) {
	term := mustTerminal(t, 2, 6)
	term.Advance([]byte("日"))
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{1, 2}})
	term.Advance([]byte("x"))

	// writing over the spacer blanks the primary half too
	c0, _ := term.CellAt(0, 0)
	if c0.Rune() != ' ' || c0.frag != FRAG_NONE {
		t.Errorf("cell (0,0) = %v, want blanked", c0)
	}
	if got := term.PlainLine(0); got != " x" {
		t.Errorf("row 0 = %q, want %q", got, " x")
	}
}

func TestCombiningRune(t *testing.T) {
	term := mustTerminal(t, 2, 10)
	term.Advance([]byte("é"))

	c, _ := term.CellAt(0, 0)
	if c.Rune() != 'é' {
		t.Errorf("cell rune = %q, want composed é", c.Rune())
	}
	if row, col := term.Cursor(); row != 0 || col != 1 {
		t.Errorf("cursor = (%d, %d), want (0, 1) after combining", row, col)
	}
}

func TestSplitUTF8AcrossAdvance(t *testing.T) {
	term := mustTerminal(t, 2, 10)
	b := []byte("héllo")
	term.Advance(b[:2]) // cuts é in half
	term.Advance(b[2:])

	if got := term.PlainLine(0); got != "héllo" {
		t.Errorf("row 0 = %q, want %q", got, "héllo")
	}
}

func TestEraseLineModes(t *testing.T) {
	cases := []struct {
		params []int
		want   string
	}{
		{[]int{0}, "ab"},    // cursor to end
		{nil, "ab"},         // default mode 0
		{[]int{1}, "   de"}, // start through cursor
		{[]int{2}, ""},      // whole line
	}

	for i, c := range cases {
		term := mustTerminal(t, 2, 5)
		term.Advance([]byte("abcde"))
		term.Apply(Action{Kind: ActionCursorTo, Params: []int{1, 3}})
		term.Apply(Action{Kind: ActionEraseLine, Params: c.params})

		if got := term.PlainLine(0); got != c.want {
			t.Errorf("%d: line = %q, want %q", i, got, c.want)
		}
	}
}

func TestEraseDisplayModes(t *testing.T) {
	cases := []struct {
		params []int
		want   []string
	}{
		{[]int{0}, []string{"aaaaa", "bb", "", ""}},
		{[]int{1}, []string{"", "   bb", "ccccc", "ddddd"}},
		{[]int{2}, []string{"", "", "", ""}},
	}

	for i, c := range cases {
		term := mustTerminal(t, 4, 5)
		term.Advance([]byte("aaaaabbbbbcccccddddd"))
		term.Apply(Action{Kind: ActionCursorTo, Params: []int{2, 3}})
		term.Apply(Action{Kind: ActionEraseDisplay, Params: c.params})

		got := screen(term)
		for r := range c.want {
			if got[r] != c.want[r] {
				t.Errorf("%d: row %d = %q, want %q", i, r, got[r], c.want[r])
			}
		}
	}
}

func TestInsertDeleteChars(t *testing.T) {
	term := mustTerminal(t, 1, 8)
	term.Advance([]byte("abcdef"))
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{1, 3}})

	term.Apply(Action{Kind: ActionInsertChars, Params: []int{2}})
	if got := term.PlainLine(0); got != "ab  cdef" {
		t.Errorf("after ICH: %q, want %q", got, "ab  cdef")
	}

	term.Apply(Action{Kind: ActionDeleteChars, Params: []int{2}})
	if got := term.PlainLine(0); got != "abcdef" {
		t.Errorf("after DCH: %q, want %q", got, "abcdef")
	}
}

func TestEraseChars(t *testing.T) {
	term := mustTerminal(t, 1, 8)
	term.Advance([]byte("abcdef"))
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{1, 2}})
	term.Apply(Action{Kind: ActionEraseChars, Params: []int{3}})

	if got := term.PlainLine(0); got != "a   ef" {
		t.Errorf("after ECH: %q, want %q", got, "a   ef")
	}
}

func TestInsertDeleteLines(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{1, 4}})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{2, 1}})

	term.Apply(Action{Kind: ActionInsertLines, Params: []int{1}})
	want := []string{"A", "", "B", "C", "E"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("after IL: row %d = %q, want %q", r, got[r], want[r])
		}
	}

	term.Apply(Action{Kind: ActionDeleteLines, Params: []int{1}})
	want = []string{"A", "B", "C", "", "E"}
	got = screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("after DL: row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestInsertLinesOutsideRegionNoop(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	fillRows(term, "ABCDE")
	term.Apply(Action{Kind: ActionSetRegion, Params: []int{2, 4}})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{5, 1}})

	term.Apply(Action{Kind: ActionInsertLines, Params: []int{1}})

	want := []string{"A", "B", "C", "D", "E"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	term := mustTerminal(t, 24, 80)
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{5, 10}})
	term.Apply(Action{Kind: ActionSaveCursor})
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{20, 40}})
	term.Apply(Action{Kind: ActionRestoreCursor})

	if row, col := term.Cursor(); row != 4 || col != 9 {
		t.Errorf("cursor = (%d, %d), want restored (4, 9)", row, col)
	}
}

func TestStyledPrint(t *testing.T) {
	term := mustTerminal(t, 2, 10)
	term.Advance([]byte("\x1b[1;31mX\x1b[0mY"))

	cx, _ := term.CellAt(0, 0)
	if !cx.Format().Has(AttrBold) {
		t.Errorf("X not bold: %v", cx.Format())
	}
	if fg := cx.Format().Fg(); fg.Mode != ColorBasic || fg.Idx != 1 {
		t.Errorf("X fg = %v, want basic red", fg)
	}

	cy, _ := term.CellAt(0, 1)
	if cy.Format() != defFmt {
		t.Errorf("Y format = %v, want default after reset", cy.Format())
	}
}

func TestReset(t *testing.T) {
	term := mustTerminal(t, 5, 10)
	term.Advance([]byte("\x1b[2;4r\x1b[1mhello"))
	term.Apply(Action{Kind: ActionReset})

	if top, bottom := term.Region(); top != 0 || bottom != 4 {
		t.Errorf("region = (%d, %d), want full screen", top, bottom)
	}
	if row, col := term.Cursor(); row != 0 || col != 0 {
		t.Errorf("cursor = (%d, %d), want home", row, col)
	}
	for r := 0; r < 5; r++ {
		if got := term.PlainLine(r); got != "" {
			t.Errorf("row %d = %q, want blank", r, got)
		}
	}
	if term.curF != defFmt {
		t.Errorf("pen = %v, want default", term.curF)
	}
}

func TestFullStreamRegionScroll(t *testing.T) {
	// a tmux-like status line setup: region over the top 4 of 5
	// rows, then enough output to push the first line out while
	// the bottom row stays put.
	term := mustTerminal(t, 5, 20)
	term.Apply(Action{Kind: ActionCursorTo, Params: []int{5, 1}})
	term.Advance([]byte("status"))
	term.Advance([]byte("\x1b[1;4r"))
	term.Advance([]byte("one\r\ntwo\r\nthree\r\nfour\r\nfive"))

	want := []string{"two", "three", "four", "five", "status"}
	got := screen(term)
	for r := range want {
		if got[r] != want[r] {
			t.Errorf("row %d = %q, want %q", r, got[r], want[r])
		}
	}
}

func TestAdvanceIgnoresUnsupported(t *testing.T) {
	term := mustTerminal(t, 2, 10)
	// OSC title, private mode set and charset selection all pass
	// straight through without disturbing the grid.
	term.Advance([]byte("\x1b]0;title\x07\x1b[?25l\x1b(Bok"))

	if got := term.PlainLine(0); got != "ok" {
		t.Errorf("row 0 = %q, want %q", got, "ok")
	}
}

func TestPlainLineTrimsTrailing(t *testing.T) {
	term := mustTerminal(t, 1, 10)
	term.Advance([]byte("a b  "))
	if got := term.PlainLine(0); got != "a b" {
		t.Errorf("PlainLine = %q, want %q", got, "a b")
	}
	if got := term.PlainLine(9); got != "" {
		t.Errorf("out of range PlainLine = %q, want empty", got)
	}
}

func TestLineCopyIsolated(t *testing.T) {
	term := mustTerminal(t, 1, 5)
	term.Advance([]byte("abc"))

	line := term.Line(0)
	line[0] = newCell('z', defFmt)
	if got := term.PlainLine(0); !strings.HasPrefix(got, "a") {
		t.Errorf("mutating Line copy leaked into the grid: %q", got)
	}
	if term.Line(7) != nil {
		t.Error("Line out of range should be nil")
	}
}

func TestTabDefaultStops(t *testing.T) {
	cases := []struct {
		col, want int
	}{
		{0, 8},
		{7, 8},
		{8, 16},
		{72, 79},
		{79, 79},
	}

	for i, c := range cases {
		term := mustTerminal(t, 1, 80)
		term.Apply(Action{Kind: ActionCursorCol, Params: []int{c.col + 1}})
		term.Apply(Action{Kind: ActionTab})
		if _, col := term.Cursor(); col != c.want {
			t.Errorf("%d: tab from %d landed on %d, want %d", i, c.col, col, c.want)
		}
	}
}

func TestTabSetAndClear(t *testing.T) {
	term := mustTerminal(t, 1, 80)

	// ESC H at column 3 adds a stop there.
	term.Advance([]byte("\x1b[4G\x1bH\r\t"))
	if _, col := term.Cursor(); col != 3 {
		t.Errorf("after HTS, tab landed on %d, want 3", col)
	}

	// TBC 0 removes it again; the next stop is the default at 8.
	term.Advance([]byte("\x1b[0g\r\t"))
	if _, col := term.Cursor(); col != 8 {
		t.Errorf("after TBC 0, tab landed on %d, want 8", col)
	}

	// TBC 3 wipes every stop: tab goes straight to the last column.
	term.Advance([]byte("\x1b[3g\r\t"))
	if _, col := term.Cursor(); col != 79 {
		t.Errorf("after TBC 3, tab landed on %d, want 79", col)
	}
}

func TestResizeRestoresDefaultTabStops(t *testing.T) {
	term := mustTerminal(t, 1, 80)
	term.Advance([]byte("\x1b[3g")) // clear all stops

	if err := term.Resize(1, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	term.Advance([]byte("\r\t"))
	if _, col := term.Cursor(); col != 8 {
		t.Errorf("after resize, tab landed on %d, want 8", col)
	}
}

func TestScrollOutObserver(t *testing.T) {
	term := mustTerminal(t, 3, 10)
	var lost []string
	term.OnScrollOut(func(line string) { lost = append(lost, line) })

	term.Advance([]byte("aa\r\nbb\r\ncc\r\n"))

	want := []string{"aa"}
	if len(lost) != len(want) || lost[0] != want[0] {
		t.Errorf("scrolled-out lines = %v, want %v", lost, want)
	}

	// An explicit scroll reports every line it discards.
	lost = nil
	term.Apply(Action{Kind: ActionScrollUp, Params: []int{2}})
	if len(lost) != 2 {
		t.Errorf("SU 2 reported %d lines, want 2", len(lost))
	}

	term.OnScrollOut(nil)
	term.Advance([]byte("\x1b[3;1Hdd\r\n"))
	if len(lost) != 2 {
		t.Errorf("unregistered observer still fired: %v", lost)
	}
}
