package augment

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-seld/feature"
)

// BoxCutoffMasker floors one random time×frequency rectangle per time
// segment and signal channel of a [channel, time, frequency] tensor.
type BoxCutoffMasker struct {
	p          float64
	timeMaxLen int
	timeStep   int
	freqMaxLen int
	aux        int
	rnd        sampler
	log        logrus.FieldLogger
}

// NewBoxCutoffMasker creates a masker. Defaults: time mask 35/100, frequency
// mask max length 30, 3 auxiliary channels, p = 0.5. The frequency-mask step
// is not used.
func NewBoxCutoffMasker(opts ...Option) (*BoxCutoffMasker, error) {
	cfg, err := applyOptions(defaultProbability, opts)
	if err != nil {
		return nil, err
	}

	return &BoxCutoffMasker{
		p:          cfg.p,
		timeMaxLen: cfg.timeMaxLen,
		timeStep:   cfg.timeStep,
		freqMaxLen: cfg.freqMaxLen,
		aux:        cfg.auxChannels,
		rnd:        sampler{rng: cfg.rng},
		log:        cfg.logger.WithField("op", "box_cutoff"),
	}, nil
}

// Apply masks x in place and returns it.
func (m *BoxCutoffMasker) Apply(x *feature.Tensor) (*feature.Tensor, error) {
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
	boxes := 0

	for ch := 0; ch < signal; ch++ {
		for seg := 0; seg < frames/m.timeStep; seg++ {
			nt := m.rnd.length(m.timeMaxLen)
			t0 := seg*m.timeStep + m.rnd.start(m.timeStep-nt)
			nf := m.rnd.length(m.freqMaxLen)
			f0 := m.rnd.start(bins - nf)

			x.FillBox(ch, t0, t0+nt, f0, f0+nf, feature.Floor)
			boxes++
		}
	}

	if debugEnabled(m.log) {
		m.log.WithField("boxes", boxes).Debug("masked")
	}

	return x, nil
}
