package augment

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-seld/feature"
)

const (
	defaultTimeMaskMaxLen = 35
	defaultTimeMaskStep   = 100
	defaultFreqMaskMaxLen = 30
	defaultFreqMaskStep   = 100
	defaultAuxChannels    = 3
	defaultShiftRange     = 10
	defaultProbability    = 0.5
)

type config struct {
	p           float64
	timeMaxLen  int
	timeStep    int
	freqMaxLen  int
	freqStep    int
	auxChannels int
	shiftRange  int
	layout      feature.Layout
	rng         *rand.Rand
	logger      logrus.FieldLogger
}

func defaultConfig(p float64) config {
	return config{
		p:           p,
		timeMaxLen:  defaultTimeMaskMaxLen,
		timeStep:    defaultTimeMaskStep,
		freqMaxLen:  defaultFreqMaskMaxLen,
		freqStep:    defaultFreqMaskStep,
		auxChannels: defaultAuxChannels,
		shiftRange:  defaultShiftRange,
		layout:      feature.ChannelFreqTime,
	}
}

// Option configures an augmentation operator. Options that do not apply to
// an operator are accepted and ignored.
type Option func(*config) error

func applyOptions(p float64, opts []Option) (config, error) {
	cfg := defaultConfig(p)

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return config{}, err
		}
	}

	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}

	return cfg, nil
}

// WithProbability sets the probability in [0, 1] that an operator applies
// its perturbation.
func WithProbability(p float64) Option {
	return func(cfg *config) error {
		if p < 0 || p > 1 || math.IsNaN(p) {
			return fmt.Errorf("%w: probability must be in [0, 1]: %f", ErrInvalidParams, p)
		}

		cfg.p = p

		return nil
	}
}

// WithTimeMask sets the exclusive maximum time-mask length and the time
// segment length (default 35, 100). The segment must be longer than the
// maximum mask. A maximum of 0 disables time masking.
func WithTimeMask(maxLen, step int) Option {
	return func(cfg *config) error {
		if maxLen < 0 || step <= 0 {
			return fmt.Errorf("%w: time mask max len %d, step %d", ErrInvalidParams, maxLen, step)
		}

		if step <= maxLen {
			return fmt.Errorf("%w: time mask step %d must exceed max len %d", ErrShapeMismatch, step, maxLen)
		}

		cfg.timeMaxLen = maxLen
		cfg.timeStep = step

		return nil
	}
}

// WithFreqMask sets the exclusive maximum frequency-mask length and the
// number of frames each pair of frequency masks spans (default 30, 100).
// A maximum of 0 disables frequency masking.
func WithFreqMask(maxLen, step int) Option {
	return func(cfg *config) error {
		if step <= 0 {
			return fmt.Errorf("%w: freq mask step %d", ErrInvalidParams, step)
		}

		err := WithFreqMaskMaxLen(maxLen)(cfg)
		if err != nil {
			return err
		}

		cfg.freqStep = step

		return nil
	}
}

// WithFreqMaskMaxLen sets only the exclusive maximum frequency-mask length.
func WithFreqMaskMaxLen(maxLen int) Option {
	return func(cfg *config) error {
		if maxLen < 0 {
			return fmt.Errorf("%w: freq mask max len %d", ErrInvalidParams, maxLen)
		}

		cfg.freqMaxLen = maxLen

		return nil
	}
}

// WithAuxChannels sets how many trailing channels the maskers leave
// untouched (default 3).
func WithAuxChannels(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("%w: aux channels %d", ErrInvalidParams, n)
		}

		cfg.auxChannels = n

		return nil
	}
}

// WithShiftRange sets the exclusive upper bound of the frequency shift in
// bins (default 10).
func WithShiftRange(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return fmt.Errorf("%w: shift range must be >= 1: %d", ErrInvalidParams, n)
		}

		cfg.shiftRange = n

		return nil
	}
}

// WithLayout sets the axis order of the tensors a FrequencyBandShifter
// receives (default feature.ChannelFreqTime).
func WithLayout(l feature.Layout) Option {
	return func(cfg *config) error {
		if !l.Valid() {
			return fmt.Errorf("%w: layout %v", ErrInvalidParams, l)
		}

		cfg.layout = l

		return nil
	}
}

// WithRNG sets the random number generator. The operator takes ownership;
// do not share rng with operators used on other goroutines.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng
		return nil
	}
}

// WithSeed seeds a dedicated PCG generator for reproducible draws.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.rng = rand.New(rand.NewPCG(seed, 0))
		return nil
	}
}

// WithLogger sets the structured logger. Operators log their draws at debug
// level. The default logger discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *config) error {
		cfg.logger = logger
		return nil
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// debugEnabled reports whether log would emit a debug entry.
func debugEnabled(log logrus.FieldLogger) bool {
	switch l := log.(type) {
	case *logrus.Entry:
		return l.Logger == nil || l.Logger.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	default:
		return true
	}
}
