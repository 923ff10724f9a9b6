package augment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-seld/feature"
	"github.com/cwbudde/algo-seld/internal/testutil"
)

// requireMaskedOrUntouched checks that every cell of got either equals the
// floor sentinel or is bit-identical to orig, and returns the masked count.
func requireMaskedOrUntouched(t *testing.T, orig, got *feature.Tensor) int {
	t.Helper()
	require.True(t, orig.SameShape(got))

	masked := 0
	for i, v := range got.Data() {
		if v == feature.Floor {
			masked++
			continue
		}
		require.Equalf(t, math.Float64bits(orig.Data()[i]), math.Float64bits(v), "cell %d changed to %v", i, v)
	}
	return masked
}

func TestSpectroTemporalMaskerProbabilityZero(t *testing.T) {
	m, err := NewSpectroTemporalMasker(WithProbability(0), WithSeed(1))
	require.NoError(t, err)

	for i := range 20 {
		x := testutil.RandomTensor(uint64(i), 7, 300, 64)
		orig := x.Clone()
		y, err := m.Apply(x)
		require.NoError(t, err)
		assert.Same(t, x, y)
		assert.True(t, orig.Equal(y))
	}
}

func TestSpectroTemporalMaskerMasksSignalChannelsOnly(t *testing.T) {
	for seed := range uint64(10) {
		m, err := NewSpectroTemporalMasker(WithProbability(1), WithSeed(seed))
		require.NoError(t, err)

		x := testutil.RandomTensor(seed, 7, 250, 64)
		orig := x.Clone()

		y, err := m.Apply(x)
		require.NoError(t, err)
		assert.Same(t, x, y)

		assert.Positive(t, requireMaskedOrUntouched(t, orig, x))
		for c := 4; c < 7; c++ {
			assert.Equalf(t, orig.Channel(c), x.Channel(c), "aux channel %d modified", c)
		}
		for c := range 7 {
			for r := 200; r < 250; r++ {
				require.Equalf(t, orig.Row(c, r), x.Row(c, r), "tail frame %d of channel %d modified", r, c)
			}
		}
	}
}

func TestSpectroTemporalMaskerTimeStripes(t *testing.T) {
	const step, maxLen = 50, 20

	m, err := NewSpectroTemporalMasker(
		WithProbability(1),
		WithTimeMask(maxLen, step),
		WithFreqMask(0, 100),
		WithAuxChannels(0),
		WithSeed(7),
	)
	require.NoError(t, err)

	x := testutil.RandomTensor(7, 2, 200, 16)
	_, err = m.Apply(x)
	require.NoError(t, err)

	for c := range 2 {
		for seg := range 4 {
			var masked []int
			for r := seg * step; r < (seg+1)*step; r++ {
				n := testutil.CountEqual(x.Row(c, r), feature.Floor)
				require.Contains(t, []int{0, 16}, n, "frames are masked across all bins")
				if n == 16 {
					masked = append(masked, r)
				}
			}
			assert.Less(t, len(masked), maxLen)
			for i := 1; i < len(masked); i++ {
				assert.Equal(t, masked[i-1]+1, masked[i], "time stripe is contiguous")
			}
		}
	}
}

func TestSpectroTemporalMaskerFrequencyStripes(t *testing.T) {
	const step, maxLen, bins = 40, 10, 32

	m, err := NewSpectroTemporalMasker(
		WithProbability(1),
		WithTimeMask(0, 100),
		WithFreqMask(maxLen, step),
		WithAuxChannels(1),
		WithSeed(3),
	)
	require.NoError(t, err)

	x := testutil.RandomTensor(3, 3, 120, bins)
	orig := x.Clone()
	_, err = m.Apply(x)
	require.NoError(t, err)
	assert.Equal(t, orig.Channel(2), x.Channel(2))

	for c := range 2 {
		for seg := range 3 {
			first := x.Row(c, seg*step)
			for r := seg*step + 1; r < (seg+1)*step; r++ {
				for k := range bins {
					require.Equal(t, first[k] == feature.Floor, x.At(c, r, k) == feature.Floor,
						"frequency mask must span the whole segment")
				}
			}

			// At most two bands, each shorter than maxLen.
			masked := testutil.CountEqual(first, feature.Floor)
			assert.LessOrEqual(t, masked, 2*(maxLen-1))
		}
	}
}

func TestSpectroTemporalMaskerRejectsNarrowSpectrum(t *testing.T) {
	m, err := NewSpectroTemporalMasker(WithProbability(1))
	require.NoError(t, err)

	x := testutil.RandomTensor(1, 7, 200, 16)
	orig := x.Clone()

	_, err = m.Apply(x)
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.True(t, orig.Equal(x))

	_, err = m.Apply(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSpectroTemporalMaskerFewChannels(t *testing.T) {
	m, err := NewSpectroTemporalMasker(WithProbability(1), WithSeed(1))
	require.NoError(t, err)

	x := testutil.RandomTensor(1, 2, 200, 64)
	orig := x.Clone()
	_, err = m.Apply(x)
	require.NoError(t, err)
	assert.True(t, orig.Equal(x), "fewer channels than aux channels leaves everything alone")
}

func TestSpectroTemporalMaskerReproducible(t *testing.T) {
	run := func() *feature.Tensor {
		m, err := NewSpectroTemporalMasker(WithSeed(42))
		require.NoError(t, err)
		x := testutil.RandomTensor(1, 7, 300, 64)
		for range 5 {
			_, err = m.Apply(x)
			require.NoError(t, err)
		}
		return x
	}
	assert.True(t, run().Equal(run()))
}
