package vt

import "fmt"

// Wide rune bookkeeping. A two column glyph occupies a primary cell
// followed by a secondary placeholder the renderer must skip.
const (
	FRAG_NONE = iota
	FRAG_PRIMARY
	FRAG_SECONDARY
)

// Cell is one screen position: a glyph plus its rendition. Value
// type; writes replace the whole cell, nothing mutates one in place.
type Cell struct {
	r    rune
	f    Format
	frag uint8
}

func defaultCell() Cell {
	return Cell{r: ' '}
}

func newCell(r rune, f Format) Cell {
	return Cell{r: r, f: f}
}

func fragCell(r rune, f Format, frag uint8) Cell {
	return Cell{r: r, f: f, frag: frag}
}

func (c Cell) Rune() rune {
	if c.r == 0 {
		return ' '
	}
	return c.r
}

func (c Cell) Format() Format { return c.f }

// Wide reports whether this cell is the primary half of a two column
// glyph. Spacer reports the trailing half.
func (c Cell) Wide() bool   { return c.frag == FRAG_PRIMARY }
func (c Cell) Spacer() bool { return c.frag == FRAG_SECONDARY }

func (c Cell) Equal(other Cell) bool {
	return c == other
}

func (c Cell) String() string {
	return fmt.Sprintf("%q (%s)", string(c.Rune()), c.f)
}

func newRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = defaultCell()
	}
	return row
}
