package vt

import (
	"errors"
	"fmt"
)

var errInvalidCell = errors.New("invalid framebuffer cell")

// framebuffer owns the cell grid. Invariant: len(data) never changes
// outside resize, and every row holds exactly getNumCols() cells
// after any mutation.
type framebuffer struct {
	data [][]Cell
}

func newFramebuffer(rows, cols int) *framebuffer {
	d := make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		d[r] = newRow(cols)
	}
	return &framebuffer{data: d}
}

func (f *framebuffer) getNumRows() int {
	return len(f.data)
}

func (f *framebuffer) getNumCols() int {
	return len(f.data[0])
}

func (f *framebuffer) validPoint(row, col int) bool {
	return row >= 0 && row < f.getNumRows() && col >= 0 && col < f.getNumCols()
}

func (f *framebuffer) setCell(row, col int, c Cell) {
	if f.validPoint(row, col) {
		f.data[row][col] = c
	}
}

func (f *framebuffer) getCell(row, col int) (Cell, error) {
	if f.validPoint(row, col) {
		return f.data[row][col], nil
	}
	return defaultCell(), fmt.Errorf("coordinates (%d, %d): %w", row, col, errInvalidCell)
}

// resetRows blanks rows from through to, inclusive. Out of range
// requests are trimmed rather than rejected.
func (f *framebuffer) resetRows(from, to int) {
	if from < 0 {
		from = 0
	}
	if last := f.getNumRows() - 1; to > last {
		to = last
	}

	nc := f.getNumCols()
	for i := from; i <= to; i++ {
		f.data[i] = newRow(nc)
	}
}

// resetCells blanks columns [from, to) of one row.
func (f *framebuffer) resetCells(row, from, to int) {
	if row < 0 || row >= f.getNumRows() {
		return
	}
	if from < 0 {
		from = 0
	}
	if nc := f.getNumCols(); to > nc {
		to = nc
	}

	for col := from; col < to; col++ {
		f.data[row][col] = defaultCell()
	}
}

// scrollUp shifts the contents of rg up by n rows: the top n rows of
// the region are discarded and n blank rows appear at the bottom.
// Rows outside the region are untouched and the grid height never
// changes. n is clamped to the region height; n <= 0 is a no-op.
func (f *framebuffer) scrollUp(rg region, n int) {
	if n <= 0 {
		return
	}
	if h := rg.rows(); n > h {
		n = h
	}

	nc := f.getNumCols()
	for r := rg.top; r+n <= rg.bottom; r++ {
		f.data[r] = f.data[r+n]
	}
	for r := rg.bottom - n + 1; r <= rg.bottom; r++ {
		f.data[r] = newRow(nc)
	}
}

// scrollDown is the mirror of scrollUp: the bottom n rows of the
// region are discarded and n blank rows appear at the top.
func (f *framebuffer) scrollDown(rg region, n int) {
	if n <= 0 {
		return
	}
	if h := rg.rows(); n > h {
		n = h
	}

	nc := f.getNumCols()
	for r := rg.bottom; r-n >= rg.top; r-- {
		f.data[r] = f.data[r-n]
	}
	for r := rg.top; r < rg.top+n; r++ {
		f.data[r] = newRow(nc)
	}
}

// insertCells shifts cells at and right of col one position right,
// dropping the last cell of the row, and blanks col.
func (f *framebuffer) insertCells(row, col, n int) {
	if row < 0 || row >= f.getNumRows() || n <= 0 {
		return
	}

	r := f.data[row]
	nc := len(r)
	if col < 0 || col >= nc {
		return
	}
	if n > nc-col {
		n = nc - col
	}

	copy(r[col+n:], r[col:nc-n])
	for i := col; i < col+n; i++ {
		r[i] = defaultCell()
	}
}

// deleteCells removes n cells at col, shifting the remainder of the
// row left and back-filling with blanks.
func (f *framebuffer) deleteCells(row, col, n int) {
	if row < 0 || row >= f.getNumRows() || n <= 0 {
		return
	}

	r := f.data[row]
	nc := len(r)
	if col < 0 || col >= nc {
		return
	}
	if n > nc-col {
		n = nc - col
	}

	copy(r[col:], r[col+n:])
	for i := nc - n; i < nc; i++ {
		r[i] = defaultCell()
	}
}

// resize rebuilds the grid to the new dimensions, keeping whatever
// content fits from the top-left origin and padding the rest with
// blanks. Deterministic, no reflow.
func (f *framebuffer) resize(rows, cols int) {
	d := make([][]Cell, rows)
	for r := 0; r < rows; r++ {
		d[r] = newRow(cols)
		if r < len(f.data) {
			copy(d[r], f.data[r])
		}
	}
	f.data = d
}

func (f *framebuffer) copy() *framebuffer {
	d := make([][]Cell, len(f.data))
	for r, row := range f.data {
		d[r] = make([]Cell, len(row))
		copy(d[r], row)
	}
	return &framebuffer{data: d}
}
