package feature

import (
	"errors"
	"fmt"
	"math"
)

// Floor is the log-domain value written into masked cells: ln(2^-52), the
// natural logarithm of float64 machine epsilon.
const Floor = -52 * math.Ln2

// ErrShape is returned when data and dimensions disagree.
var ErrShape = errors.New("feature: invalid tensor shape")

// Layout names the axis order of the two inner tensor axes.
type Layout int

const (
	// ChannelTimeFreq stores frames in rows and frequency bins in columns.
	ChannelTimeFreq Layout = iota

	// ChannelFreqTime stores frequency bins in rows and frames in columns.
	ChannelFreqTime
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == ChannelTimeFreq || l == ChannelFreqTime
}

// String returns a short axis description.
func (l Layout) String() string {
	switch l {
	case ChannelTimeFreq:
		return "CTF"
	case ChannelFreqTime:
		return "CFT"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// Tensor is a dense [channel, row, col] float64 array.
type Tensor struct {
	data     []float64
	channels int
	rows     int
	cols     int
}

// New returns a zero-filled tensor. Negative dimensions are treated as 0.
func New(channels, rows, cols int) *Tensor {
	channels, rows, cols = max(channels, 0), max(rows, 0), max(cols, 0)
	return &Tensor{
		data:     make([]float64, channels*rows*cols),
		channels: channels,
		rows:     rows,
		cols:     cols,
	}
}

// FromSlice wraps data without copying.
// Mutations through the tensor are visible in data and vice versa.
func FromSlice(data []float64, channels, rows, cols int) (*Tensor, error) {
	if channels < 0 || rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: negative dimension (%d, %d, %d)", ErrShape, channels, rows, cols)
	}
	if len(data) != channels*rows*cols {
		return nil, fmt.Errorf("%w: %d values for shape (%d, %d, %d)",
			ErrShape, len(data), channels, rows, cols)
	}
	return &Tensor{data: data, channels: channels, rows: rows, cols: cols}, nil
}

// Shape returns the channel, row and column counts.
func (t *Tensor) Shape() (channels, rows, cols int) {
	return t.channels, t.rows, t.cols
}

// Channels returns the size of the channel axis.
func (t *Tensor) Channels() int { return t.channels }

// Rows returns the size of the first inner axis.
func (t *Tensor) Rows() int { return t.rows }

// Cols returns the size of the second inner axis.
func (t *Tensor) Cols() int { return t.cols }

// Data returns the underlying storage.
func (t *Tensor) Data() []float64 { return t.data }

// Channel returns the rows*cols plane of channel c.
// The slice aliases the tensor storage.
func (t *Tensor) Channel(c int) []float64 {
	n := t.rows * t.cols
	return t.data[c*n : (c+1)*n : (c+1)*n]
}

// Row returns row r of channel c.
func (t *Tensor) Row(c, r int) []float64 {
	off := (c*t.rows + r) * t.cols
	return t.data[off : off+t.cols : off+t.cols]
}

// At returns the value at (c, r, k).
func (t *Tensor) At(c, r, k int) float64 {
	return t.data[(c*t.rows+r)*t.cols+k]
}

// Set stores v at (c, r, k).
func (t *Tensor) Set(c, r, k int, v float64) {
	t.data[(c*t.rows+r)*t.cols+k] = v
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{data: data, channels: t.channels, rows: t.rows, cols: t.cols}
}

// Fill sets every cell to v.
func (t *Tensor) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// FillBox sets the half-open box rows [r0, r1) × cols [k0, k1) of channel c
// to v. Bounds are clamped to the tensor; an empty box is a no-op.
func (t *Tensor) FillBox(c, r0, r1, k0, k1 int, v float64) {
	r0, r1 = clampRange(r0, r1, t.rows)
	k0, k1 = clampRange(k0, k1, t.cols)
	if r0 >= r1 || k0 >= k1 {
		return
	}
	for r := r0; r < r1; r++ {
		row := t.Row(c, r)[k0:k1]
		for i := range row {
			row[i] = v
		}
	}
}

// SameShape reports whether o has the same dimensions as t.
func (t *Tensor) SameShape(o *Tensor) bool {
	return o != nil && t.channels == o.channels && t.rows == o.rows && t.cols == o.cols
}

// Equal reports whether o has the same shape and bit-identical values.
func (t *Tensor) Equal(o *Tensor) bool {
	if !t.SameShape(o) {
		return false
	}
	for i, v := range t.data {
		if math.Float64bits(v) != math.Float64bits(o.data[i]) {
			return false
		}
	}
	return true
}

func clampRange(lo, hi, n int) (int, int) {
	lo = min(max(lo, 0), n)
	hi = min(max(hi, 0), n)
	return lo, hi
}
