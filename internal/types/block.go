package types

import (
	"fmt"
	"math"
)

// Block is one field's 2-D array of bars: rows are sessions, columns instruments.
// Numeric fields live in the float64 storage; label fields in the string storage.
type Block struct {
	Field Field
	rows  int
	cols  int
	data  []float64
	label []string
}

// NewBlock allocates a rows x cols block initialised to the field's fill value.
func NewBlock(field Field, rows int, cols int) *Block {
	b := &Block{
		Field: field,
		rows:  rows,
		cols:  cols,
	}

	if field.IsLabelField() {
		b.label = make([]string, rows*cols)

		return b
	}

	b.data = make([]float64, rows*cols)

	fill := field.FillValue()
	if fill != 0 {
		for i := range b.data {
			b.data[i] = fill
		}
	}

	return b
}

// NewBlockFromRows builds a numeric block from row-major values.
func NewBlockFromRows(field Field, values [][]float64) *Block {
	cols := 0
	if len(values) > 0 {
		cols = len(values[0])
	}

	b := NewBlock(field, len(values), cols)
	for r, row := range values {
		copy(b.data[r*cols:(r+1)*cols], row)
	}

	return b
}

// Rows returns the number of sessions in the block.
func (b *Block) Rows() int { return b.rows }

// Cols returns the number of instruments in the block.
func (b *Block) Cols() int { return b.cols }

// At returns the numeric value at row r, column c.
func (b *Block) At(r, c int) float64 {
	return b.data[r*b.cols+c]
}

// Set stores a numeric value at row r, column c.
func (b *Block) Set(r, c int, v float64) {
	b.data[r*b.cols+c] = v
}

// Label returns the label at row r, column c.
func (b *Block) Label(r, c int) string {
	return b.label[r*b.cols+c]
}

// SetLabel stores a label at row r, column c.
func (b *Block) SetLabel(r, c int, s string) {
	b.label[r*b.cols+c] = s
}

// Column copies column c into a new slice.
func (b *Block) Column(c int) []float64 {
	out := make([]float64, b.rows)
	for r := 0; r < b.rows; r++ {
		out[r] = b.data[r*b.cols+c]
	}

	return out
}

// LabelColumn copies the labels of column c into a new slice.
func (b *Block) LabelColumn(c int) []string {
	out := make([]string, b.rows)
	for r := 0; r < b.rows; r++ {
		out[r] = b.label[r*b.cols+c]
	}

	return out
}

// SetColumn overwrites column c with values, which must have Rows() entries.
func (b *Block) SetColumn(c int, values []float64) {
	for r := 0; r < b.rows; r++ {
		b.data[r*b.cols+c] = values[r]
	}
}

// SetLabelColumn overwrites the labels of column c.
func (b *Block) SetLabelColumn(c int, values []string) {
	for r := 0; r < b.rows; r++ {
		b.label[r*b.cols+c] = values[r]
	}
}

// ScatterColumns copies every column of src into the columns of b named by positions,
// and every row of src into the rows of b named by rowPositions (nil means identity).
func (b *Block) ScatterColumns(src *Block, rowPositions []int, positions []int) error {
	if len(positions) != src.cols {
		return fmt.Errorf("scatter: %d target columns for %d source columns", len(positions), src.cols)
	}

	if rowPositions == nil && src.rows != b.rows {
		return fmt.Errorf("scatter: source has %d rows, target has %d", src.rows, b.rows)
	}

	if rowPositions != nil && len(rowPositions) != src.rows {
		return fmt.Errorf("scatter: %d target rows for %d source rows", len(rowPositions), src.rows)
	}

	for r := 0; r < src.rows; r++ {
		tr := r
		if rowPositions != nil {
			tr = rowPositions[r]
		}

		for c, tc := range positions {
			if b.label != nil {
				b.label[tr*b.cols+tc] = src.label[r*src.cols+c]
			} else {
				b.data[tr*b.cols+tc] = src.data[r*src.cols+c]
			}
		}
	}

	return nil
}

// Matrix returns the numeric values as row-major nested slices.
func (b *Block) Matrix() [][]float64 {
	out := make([][]float64, b.rows)
	for r := range out {
		out[r] = make([]float64, b.cols)
		copy(out[r], b.data[r*b.cols:(r+1)*b.cols])
	}

	return out
}

// Labels returns the labels as row-major nested slices.
func (b *Block) Labels() [][]string {
	out := make([][]string, b.rows)
	for r := range out {
		out[r] = make([]string, b.cols)
		copy(out[r], b.label[r*b.cols:(r+1)*b.cols])
	}

	return out
}

// ConcatColumns joins single-field column vectors of equal length into a block,
// keeping the argument order as column order.
func ConcatColumns(field Field, columns [][]float64) (*Block, error) {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0])
	}

	out := NewBlock(field, rows, len(columns))
	for c, column := range columns {
		if len(column) != rows {
			return nil, fmt.Errorf("concat: column %d has %d rows, expected %d", c, len(column), rows)
		}

		for r, v := range column {
			out.data[r*out.cols+c] = v
		}
	}

	return out, nil
}

// ForwardFill replaces NaNs down each column with the last seen value.
func (b *Block) ForwardFill() {
	for c := 0; c < b.cols; c++ {
		last := math.NaN()
		for r := 0; r < b.rows; r++ {
			idx := r*b.cols + c
			if math.IsNaN(b.data[idx]) {
				b.data[idx] = last
			} else {
				last = b.data[idx]
			}
		}
	}
}
