package augment

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-seld/feature"
)

// Direction is the sign of a frequency shift.
type Direction int

const (
	// ShiftUp moves content towards higher bins and clears the lowest bins.
	ShiftUp Direction = iota

	// ShiftDown moves content towards lower bins and clears the highest bins.
	ShiftDown
)

// String returns "up" or "down".
func (d Direction) String() string {
	switch d {
	case ShiftUp:
		return "up"
	case ShiftDown:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// FrequencyBandShifter shifts every channel along the frequency axis by a
// random number of bins and zero-fills the vacated edge.
type FrequencyBandShifter struct {
	p          float64
	shiftRange int
	layout     feature.Layout
	rnd        sampler
	log        logrus.FieldLogger
}

// NewFrequencyBandShifter creates a shifter. Defaults: shift range 10,
// p = 1, layout feature.ChannelFreqTime.
func NewFrequencyBandShifter(opts ...Option) (*FrequencyBandShifter, error) {
	cfg, err := applyOptions(1, opts)
	if err != nil {
		return nil, err
	}

	return &FrequencyBandShifter{
		p:          cfg.p,
		shiftRange: cfg.shiftRange,
		layout:     cfg.layout,
		rnd:        sampler{rng: cfg.rng},
		log:        cfg.logger.WithField("op", "frequency_shift"),
	}, nil
}

// Apply draws a shift in [0, range) and a direction, shifts x in place and
// returns it.
func (s *FrequencyBandShifter) Apply(x *feature.Tensor) (*feature.Tensor, error) {
	if x == nil {
		err := fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
		s.log.WithError(err).Warn("rejected input")
		return nil, err
	}

	if !s.rnd.proceed(s.p) {
		return x, nil
	}

	k := s.rnd.index(s.shiftRange)
	dir := Direction(s.rnd.index(2))
	bins := s.bins(x)

	shiftFrequency(x, s.layout, min(k, bins), dir)

	if debugEnabled(s.log) {
		s.log.WithFields(logrus.Fields{
			"shift":     k,
			"direction": dir.String(),
		}).Debug("shifted")
	}

	return x, nil
}

// Shift moves x by k bins in direction dir, without the probability gate.
// Shifts of at least the bin count clear the whole frequency axis.
func (s *FrequencyBandShifter) Shift(x *feature.Tensor, k int, dir Direction) error {
	if x == nil {
		return fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}

	if k < 0 || (dir != ShiftUp && dir != ShiftDown) {
		return fmt.Errorf("%w: shift %d %v", ErrInvalidParams, k, dir)
	}

	shiftFrequency(x, s.layout, min(k, s.bins(x)), dir)

	return nil
}

// bins returns the number of frequency bins of x under the shifter layout.
func (s *FrequencyBandShifter) bins(x *feature.Tensor) int {
	if s.layout == feature.ChannelTimeFreq {
		return x.Cols()
	}
	return x.Rows()
}

func shiftFrequency(x *feature.Tensor, layout feature.Layout, k int, dir Direction) {
	if k == 0 {
		return
	}

	channels, rows, cols := x.Shape()
	for c := range channels {
		if layout == feature.ChannelFreqTime {
			// Frequency rows are contiguous blocks of cols values.
			shiftBlock(x.Channel(c), k*cols, dir)
			continue
		}
		for r := range rows {
			shiftBlock(x.Row(c, r), k, dir)
		}
	}
}

// shiftBlock moves buf by n elements and clears the n vacated elements.
func shiftBlock(buf []float64, n int, dir Direction) {
	if n >= len(buf) {
		clear(buf)
		return
	}

	if dir == ShiftUp {
		copy(buf[n:], buf[:len(buf)-n])
		clear(buf[:n])
		return
	}

	copy(buf[:len(buf)-n], buf[n:])
	clear(buf[len(buf)-n:])
}
