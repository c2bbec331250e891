package vt

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRegionProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("normalized region always satisfies 0 <= top <= bottom < rows", prop.ForAll(
		func(top, bottom, rows int) bool {
			rg := normalizeRegion(top, bottom, rows)
			return 0 <= rg.top && rg.top <= rg.bottom && rg.bottom < rows
		},
		gen.IntRange(-10, 200),
		gen.IntRange(-10, 200),
		gen.IntRange(1, 100),
	))

	properties.Property("degenerate input falls back to the full screen", prop.ForAll(
		func(top, rows int) bool {
			rg := normalizeRegion(top, top, rows)
			return rg.equal(fullRegion(rows))
		},
		gen.IntRange(1, 100),
		gen.IntRange(2, 100),
	))

	properties.TestingRun(t)
}

func TestScrollProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 300
	properties := gopter.NewProperties(params)

	rows, cols := 12, 6

	mark := func() *framebuffer {
		f := newFramebuffer(rows, cols)
		for r := 0; r < rows; r++ {
			f.setCell(r, 0, newCell(rune('a'+r), defFmt))
		}
		return f
	}

	outsideUntouched := func(f, orig *framebuffer, rg region) bool {
		for r := 0; r < rows; r++ {
			if rg.contains(r) {
				continue
			}
			for c := 0; c < cols; c++ {
				got, _ := f.getCell(r, c)
				want, _ := orig.getCell(r, c)
				if !got.Equal(want) {
					return false
				}
			}
		}
		return true
	}

	properties.Property("scrolling preserves grid dimensions and rows outside the region", prop.ForAll(
		func(top, span, n int, up bool) bool {
			rg := region{top: top, bottom: top + span}
			if rg.bottom > rows-1 {
				rg.bottom = rows - 1
			}

			f := mark()
			orig := f.copy()
			if up {
				f.scrollUp(rg, n)
			} else {
				f.scrollDown(rg, n)
			}

			if f.getNumRows() != rows || f.getNumCols() != cols {
				return false
			}
			for r := 0; r < rows; r++ {
				if len(f.data[r]) != cols {
					return false
				}
			}
			return outsideUntouched(f, orig, rg)
		},
		gen.IntRange(0, rows-2),
		gen.IntRange(1, rows-1),
		gen.IntRange(-3, 30),
		gen.Bool(),
	))

	properties.Property("scrolling a full region height clears the region", prop.ForAll(
		func(top, span int) bool {
			rg := region{top: top, bottom: top + span}
			if rg.bottom > rows-1 {
				rg.bottom = rows - 1
			}

			f := mark()
			f.scrollUp(rg, rg.rows())
			for r := rg.top; r <= rg.bottom; r++ {
				for c := 0; c < cols; c++ {
					got, _ := f.getCell(r, c)
					if !got.Equal(defaultCell()) {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, rows-2),
		gen.IntRange(1, rows-1),
	))

	properties.TestingRun(t)
}

func TestTerminalRobustness(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("arbitrary byte soup never breaks the cursor or grid invariants", prop.ForAll(
		func(data []byte) bool {
			term, err := NewTerminal(6, 10)
			if err != nil {
				return false
			}
			term.Advance(data)

			row, col := term.Cursor()
			if row < 0 || row >= term.Rows() || col < 0 || col >= term.Cols() {
				return false
			}
			top, bottom := term.Region()
			if top < 0 || top > bottom || bottom >= term.Rows() {
				return false
			}
			for r := 0; r < term.Rows(); r++ {
				if len(term.Line(r)) != term.Cols() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("resize keeps cursor and region in bounds", prop.ForAll(
		func(rows, cols int, data []byte) bool {
			term, err := NewTerminal(24, 80)
			if err != nil {
				return false
			}
			term.Advance(data)
			if err := term.Resize(rows, cols); err != nil {
				return false
			}

			row, col := term.Cursor()
			top, bottom := term.Region()
			return row < rows && col < cols && top == 0 && bottom == rows-1
		},
		gen.IntRange(1, 50),
		gen.IntRange(1, 120),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
