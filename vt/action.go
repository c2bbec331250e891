package vt

import "log/slog"

// ActionKind discriminates the control actions the parser can emit.
// The dispatcher treats anything it has no branch for as a deliberate
// no-op, so adding a kind here without wiring it is safe.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionPrint
	ActionBell
	ActionBackspace
	ActionTab
	ActionLineFeed
	ActionCarriageReturn
	ActionCursorUp
	ActionCursorDown
	ActionCursorForward
	ActionCursorBack
	ActionCursorNextLine
	ActionCursorPrevLine
	ActionCursorCol
	ActionCursorRow
	ActionCursorTo
	ActionEraseDisplay
	ActionEraseLine
	ActionEraseChars
	ActionInsertChars
	ActionDeleteChars
	ActionInsertLines
	ActionDeleteLines
	ActionTabSet
	ActionTabClear
	ActionSetStyle
	ActionSetRegion
	ActionScrollUp
	ActionScrollDown
	ActionReverseIndex
	ActionIndex
	ActionNextLine
	ActionSaveCursor
	ActionRestoreCursor
	ActionReset
	ActionResize
	ActionIgnore
)

var actionNames = map[ActionKind]string{
	ActionNone:           "none",
	ActionPrint:          "print",
	ActionBell:           "bell",
	ActionBackspace:      "backspace",
	ActionTab:            "tab",
	ActionLineFeed:       "line-feed",
	ActionCarriageReturn: "carriage-return",
	ActionCursorUp:       "cursor-up",
	ActionCursorDown:     "cursor-down",
	ActionCursorForward:  "cursor-forward",
	ActionCursorBack:     "cursor-back",
	ActionCursorNextLine: "cursor-next-line",
	ActionCursorPrevLine: "cursor-prev-line",
	ActionCursorCol:      "cursor-col",
	ActionCursorRow:      "cursor-row",
	ActionCursorTo:       "cursor-to",
	ActionEraseDisplay:   "erase-display",
	ActionEraseLine:      "erase-line",
	ActionEraseChars:     "erase-chars",
	ActionInsertChars:    "insert-chars",
	ActionDeleteChars:    "delete-chars",
	ActionInsertLines:    "insert-lines",
	ActionDeleteLines:    "delete-lines",
	ActionTabSet:         "tab-set",
	ActionTabClear:       "tab-clear",
	ActionSetStyle:       "set-style",
	ActionSetRegion:      "set-region",
	ActionScrollUp:       "scroll-up",
	ActionScrollDown:     "scroll-down",
	ActionReverseIndex:   "reverse-index",
	ActionIndex:          "index",
	ActionNextLine:       "next-line",
	ActionSaveCursor:     "save-cursor",
	ActionRestoreCursor:  "restore-cursor",
	ActionReset:          "reset",
	ActionResize:         "resize",
	ActionIgnore:         "ignore",
}

func (k ActionKind) String() string {
	if n, ok := actionNames[k]; ok {
		return n
	}
	return "unknown"
}

// Action is one recognized control event. R carries the glyph for
// ActionPrint; Params the raw numeric parameters (still 1-indexed
// where the control sequence is 1-indexed: normalization is the
// dispatcher's job).
type Action struct {
	Kind   ActionKind
	R      rune
	Params []int
}

// param returns the i-th parameter or def when absent or zero where
// zero means "default" (the common CSI convention for counts).
func (a Action) param(i, def int) int {
	if i >= len(a.Params) || a.Params[i] == 0 {
		return def
	}
	return a.Params[i]
}

// rawParam is param without the zero-means-default rule, for
// selectors like erase modes where 0 is meaningful.
func (a Action) rawParam(i, def int) int {
	if i >= len(a.Params) {
		return def
	}
	return a.Params[i]
}

// parameters accumulates CSI numeric parameters during parsing.
type parameters struct {
	items []int
}

func newParams() *parameters {
	return &parameters{items: make([]int, 0, 16)}
}

func (p *parameters) addItem(item int) {
	p.items = append(p.items, item)
}

func (p *parameters) alterItem(val int) {
	p.items[len(p.items)-1] = val
}

func (p *parameters) lastItem() int {
	if len(p.items) == 0 {
		return 0
	}
	return p.items[len(p.items)-1]
}

func (p *parameters) numItems() int {
	return len(p.items)
}

func (p *parameters) reset() {
	p.items = p.items[:0]
}

func (p *parameters) consumeItem() (int, bool) {
	if len(p.items) == 0 {
		slog.Debug("consumed from empty params")
		return 0, false
	}
	n := p.items[0]
	p.items = p.items[1:]
	return n, true
}

// snapshot copies the accumulated parameters out of the parser's
// reusable storage so an Action can own them.
func (p *parameters) snapshot() []int {
	if len(p.items) == 0 {
		return nil
	}
	out := make([]int, len(p.items))
	copy(out, p.items)
	return out
}
