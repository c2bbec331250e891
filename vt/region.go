package vt

import (
	"fmt"
	"log/slog"
)

// region is the vertical scroll window set via DECSTBM. Invariant:
// 0 <= top < bottom <= rows-1, both inclusive. A freshly created or
// resized terminal always carries the full screen region.
type region struct {
	top, bottom int
}

func fullRegion(rows int) region {
	return region{top: 0, bottom: rows - 1}
}

func (rg region) contains(row int) bool {
	return rg.top <= row && row <= rg.bottom
}

func (rg region) rows() int {
	return rg.bottom - rg.top + 1
}

func (rg region) equal(other region) bool {
	return rg == other
}

func (rg region) String() string {
	return fmt.Sprintf("(%d,%d)", rg.top, rg.bottom)
}

// normalizeRegion converts 1-indexed DECSTBM parameters to a valid
// region. Missing top defaults to the first row, missing or zero
// bottom to the last. Both are clamped in bounds and anything still
// degenerate (top >= bottom) falls back to the full screen rather
// than leaving a half-applied region.
func normalizeRegion(top, bottom, rows int) region {
	if top < 1 {
		top = 1
	}
	if bottom < 1 || bottom > rows {
		bottom = rows
	}

	t, b := top-1, bottom-1
	if t >= b {
		slog.Debug("degenerate scroll region, using full screen", "top", top, "bottom", bottom)
		return fullRegion(rows)
	}

	return region{top: t, bottom: b}
}
