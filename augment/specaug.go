package augment

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-seld/feature"
)

// SpectroTemporalMasker floors random time stripes and pairs of random
// frequency stripes in a [channel, time, frequency] tensor.
//
// For every signal channel the time axis is split into whole segments of the
// time-mask step; each segment gets one time stripe of length [0, maxLen)
// placed inside it. Independently, each whole segment of the frequency-mask
// step gets two frequency stripes spanning that segment's frames. Trailing
// auxiliary channels and frames past the last whole segment are untouched.
type SpectroTemporalMasker struct {
	p          float64
	timeMaxLen int
	timeStep   int
	freqMaxLen int
	freqStep   int
	aux        int
	rnd        sampler
	log        logrus.FieldLogger
}

// NewSpectroTemporalMasker creates a masker. Defaults: time mask 35/100,
// frequency mask 30/100, 3 auxiliary channels, p = 0.5.
func NewSpectroTemporalMasker(opts ...Option) (*SpectroTemporalMasker, error) {
	cfg, err := applyOptions(defaultProbability, opts)
	if err != nil {
		return nil, err
	}

	return &SpectroTemporalMasker{
		p:          cfg.p,
		timeMaxLen: cfg.timeMaxLen,
		timeStep:   cfg.timeStep,
		freqMaxLen: cfg.freqMaxLen,
		freqStep:   cfg.freqStep,
		aux:        cfg.auxChannels,
		rnd:        sampler{rng: cfg.rng},
		log:        cfg.logger.WithField("op", "spectro_temporal_mask"),
	}, nil
}

// Apply masks x in place and returns it.
func (m *SpectroTemporalMasker) Apply(x *feature.Tensor) (*feature.Tensor, error) {
	err := checkMaskInput(x, m.freqMaxLen)
	if err != nil {
		m.log.WithError(err).Warn("rejected input")
		return nil, err
	}

	if !m.rnd.proceed(m.p) {
		return x, nil
	}

	channels, frames, bins := x.Shape()
	signal := channels - m.aux

	for ch := 0; ch < signal; ch++ {
		for seg := 0; seg < frames/m.timeStep; seg++ {
			n := m.rnd.length(m.timeMaxLen)
			r0 := seg*m.timeStep + m.rnd.start(m.timeStep-n)
			x.FillBox(ch, r0, r0+n, 0, bins, feature.Floor)
		}

		for seg := 0; seg < frames/m.freqStep; seg++ {
			n0 := m.rnd.length(m.freqMaxLen)
			n1 := m.rnd.length(m.freqMaxLen)
			k0 := m.rnd.start(bins - n0)
			k1 := m.rnd.start(bins - n1)

			r0 := seg * m.freqStep
			x.FillBox(ch, r0, r0+m.freqStep, k0, k0+n0, feature.Floor)
			x.FillBox(ch, r0, r0+m.freqStep, k1, k1+n1, feature.Floor)
		}
	}

	if debugEnabled(m.log) {
		m.log.WithFields(logrus.Fields{
			"channels": max(signal, 0),
			"frames":   frames,
			"bins":     bins,
		}).Debug("masked")
	}

	return x, nil
}

func checkMaskInput(x *feature.Tensor, freqMaxLen int) error {
	if x == nil {
		return fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}

	if bins := x.Cols(); bins < freqMaxLen {
		return fmt.Errorf("%w: %d frequency bins, freq mask max len %d", ErrShapeMismatch, bins, freqMaxLen)
	}

	return nil
}
