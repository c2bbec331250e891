package vt

import (
	"fmt"
	"log/slog"
	"strings"
)

// Style attribute bits.
const (
	AttrBold = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReversed
	AttrInvisible
	AttrStrikeout
)

var attrNames = map[uint16]string{
	AttrBold:      "bold",
	AttrFaint:     "faint",
	AttrItalic:    "italic",
	AttrUnderline: "underline",
	AttrBlink:     "blink",
	AttrReversed:  "reversed",
	AttrInvisible: "invisible",
	AttrStrikeout: "strikeout",
}

var defFmt = Format{}

// Format is the rendition applied to a cell: foreground, background
// and a bitmap of the Attr* bits. The zero value is the default pen.
// Comparable with ==.
type Format struct {
	fg, bg Color
	attrs  uint16
}

func (f Format) Fg() Color { return f.fg }
func (f Format) Bg() Color { return f.bg }

func (f Format) Has(attr uint16) bool {
	return (f.attrs & attr) != 0
}

func (f *Format) setAttr(attr uint16, val bool) {
	if val {
		f.attrs |= attr
	} else {
		f.attrs &^= attr
	}
}

func (f Format) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fg:%s bg:%s", f.fg, f.bg)
	for _, a := range []uint16{AttrBold, AttrFaint, AttrItalic, AttrUnderline, AttrBlink, AttrReversed, AttrInvisible, AttrStrikeout} {
		if f.Has(a) {
			sb.WriteByte(' ')
			sb.WriteString(attrNames[a])
		}
	}
	return sb.String()
}

// applyFormat folds one SGR parameter list into the current pen. An
// empty parameter list means reset, per ECMA-48.
func applyFormat(curF Format, params *parameters) Format {
	if params.numItems() == 0 {
		return defFmt
	}

	f := curF
	for {
		item, ok := params.consumeItem()
		if !ok {
			break
		}

		switch {
		case item == SGR_RESET:
			f = defFmt
		case item == SGR_INTENSITY_BOLD:
			f.setAttr(AttrBold, true)
		case item == SGR_INTENSITY_FAINT:
			f.setAttr(AttrFaint, true)
		case item == SGR_INTENSITY_NORMAL:
			f.setAttr(AttrBold|AttrFaint, false)
		case item == SGR_ITALIC_ON || item == SGR_ITALIC_OFF:
			f.setAttr(AttrItalic, item < 10)
		case item == SGR_UNDERLINE_ON || item == SGR_UNDERLINE_OFF:
			f.setAttr(AttrUnderline, item < 10)
		case item == SGR_BLINK_ON || item == SGR_BLINK_OFF:
			f.setAttr(AttrBlink, item < 10)
		case item == SGR_REVERSED_ON || item == SGR_REVERSED_OFF:
			f.setAttr(AttrReversed, item < 10)
		case item == SGR_INVISIBLE_ON || item == SGR_INVISIBLE_OFF:
			f.setAttr(AttrInvisible, item < 10)
		case item == SGR_STRIKEOUT_ON || item == SGR_STRIKEOUT_OFF:
			f.setAttr(AttrStrikeout, item < 10)
		case item == FG_DEF:
			f.fg = Color{}
		case item == BG_DEF:
			f.bg = Color{}
		case (item >= FG_BLACK && item <= FG_WHITE) || (item >= FG_BRIGHT_BLACK && item <= FG_BRIGHT_WHITE):
			f.fg = colorFromSGR(item)
		case item == SET_FG:
			f.fg = colorFromParams(params, f.fg)
		case (item >= BG_BLACK && item <= BG_WHITE) || (item >= BG_BRIGHT_BLACK && item <= BG_BRIGHT_WHITE):
			f.bg = colorFromSGR(item)
		case item == SET_BG:
			f.bg = colorFromParams(params, f.bg)
		default:
			slog.Debug("unimplemented SGR parameter", "param", item)
		}
	}

	return f
}
