package augment

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-seld/feature"
	"github.com/cwbudde/algo-seld/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig(0.5)

	assert.Equal(t, 0.5, cfg.p)
	assert.Equal(t, 35, cfg.timeMaxLen)
	assert.Equal(t, 100, cfg.timeStep)
	assert.Equal(t, 30, cfg.freqMaxLen)
	assert.Equal(t, 100, cfg.freqStep)
	assert.Equal(t, 3, cfg.auxChannels)
	assert.Equal(t, 10, cfg.shiftRange)
	assert.Equal(t, feature.ChannelFreqTime, cfg.layout)
	assert.Nil(t, cfg.rng)
	assert.Nil(t, cfg.logger)
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"negative probability", WithProbability(-0.1), ErrInvalidParams},
		{"probability above one", WithProbability(1.5), ErrInvalidParams},
		{"NaN probability", WithProbability(math.NaN()), ErrInvalidParams},
		{"negative time max len", WithTimeMask(-1, 10), ErrInvalidParams},
		{"zero time step", WithTimeMask(0, 0), ErrInvalidParams},
		{"time step equals max len", WithTimeMask(50, 50), ErrShapeMismatch},
		{"time step below max len", WithTimeMask(60, 50), ErrShapeMismatch},
		{"negative freq max len", WithFreqMask(-2, 100), ErrInvalidParams},
		{"zero freq step", WithFreqMask(10, 0), ErrInvalidParams},
		{"negative freq max len only", WithFreqMaskMaxLen(-1), ErrInvalidParams},
		{"negative aux channels", WithAuxChannels(-1), ErrInvalidParams},
		{"zero shift range", WithShiftRange(0), ErrInvalidParams},
		{"invalid layout", WithLayout(feature.Layout(9)), ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(0.5)
			assert.ErrorIs(t, tt.opt(&cfg), tt.want)
		})
	}
}

func TestOptionHappyPaths(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	logger := logrus.New()

	cfg, err := applyOptions(0.5, []Option{
		WithProbability(1),
		WithTimeMask(0, 1),
		WithFreqMask(5, 20),
		WithAuxChannels(0),
		WithShiftRange(3),
		WithLayout(feature.ChannelTimeFreq),
		WithRNG(rng),
		WithLogger(logger),
		nil,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.p)
	assert.Equal(t, 0, cfg.timeMaxLen)
	assert.Equal(t, 1, cfg.timeStep)
	assert.Equal(t, 5, cfg.freqMaxLen)
	assert.Equal(t, 20, cfg.freqStep)
	assert.Equal(t, 0, cfg.auxChannels)
	assert.Equal(t, 3, cfg.shiftRange)
	assert.Equal(t, feature.ChannelTimeFreq, cfg.layout)
	assert.Same(t, rng, cfg.rng)
	assert.Same(t, logger, cfg.logger)
}

func TestApplyOptionsFillsDefaults(t *testing.T) {
	cfg, err := applyOptions(1, nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.rng)
	assert.NotNil(t, cfg.logger)
}

func TestConstructorsPropagateOptionErrors(t *testing.T) {
	bad := WithProbability(2)

	_, err := NewSpectroTemporalMasker(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = NewBoxCutoffMasker(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = NewSpatialRotationAugmentor(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = NewFrequencyBandShifter(bad)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestSamplerGate(t *testing.T) {
	s := sampler{rng: rand.New(rand.NewPCG(3, 0))}
	for range 1000 {
		require.False(t, s.proceed(0))
		require.True(t, s.proceed(1))
	}
}

func TestSamplerDegenerateRangesSkipDraws(t *testing.T) {
	a := sampler{rng: rand.New(rand.NewPCG(9, 0))}
	b := sampler{rng: rand.New(rand.NewPCG(9, 0))}

	assert.Zero(t, a.length(0))
	assert.Zero(t, a.start(1))
	assert.Zero(t, a.start(0))

	assert.Equal(t, b.index(1000), a.index(1000), "degenerate draws must not advance the generator")
}

func TestOperatorsLogDraws(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	a, err := NewSpatialRotationAugmentor(WithProbability(1), WithSeed(1), WithLogger(logger))
	require.NoError(t, err)

	_, _, err = a.Apply(testutil.RandomTensor(1, 4, 2, 2), nil, FormatMIC)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"op":"spatial_rotation"`)
	assert.Contains(t, buf.String(), `"format":"mic"`)

	buf.Reset()
	_, _, err = a.Apply(testutil.RandomTensor(1, 4, 2, 2), nil, Format("binaural"))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}

func TestDebugEnabled(t *testing.T) {
	logger := logrus.New()
	assert.False(t, debugEnabled(logger))
	assert.False(t, debugEnabled(logger.WithField("op", "x")))
	assert.False(t, debugEnabled(discardLogger().WithField("op", "x")))

	logger.SetLevel(logrus.DebugLevel)
	assert.True(t, debugEnabled(logger))
	assert.True(t, debugEnabled(logger.WithField("op", "x")))
}

func TestDefaultLoggerSkipsDrawFields(t *testing.T) {
	x := testutil.RandomTensor(1, 4, 200, 64)

	cutoff, err := NewBoxCutoffMasker(WithProbability(1), WithSeed(3))
	require.NoError(t, err)
	shifter, err := NewFrequencyBandShifter(WithSeed(3))
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(20, func() {
		_, _ = cutoff.Apply(x)
		_, _ = shifter.Apply(x)
	})
	assert.Zero(t, allocs)
}
