package testutil

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-seld/feature"
)

// RandomTensor returns a tensor of log-magnitude-like values in [-10, 10)
// drawn with a fixed seed. No value equals feature.Floor or 0.
func RandomTensor(seed uint64, channels, rows, cols int) *feature.Tensor {
	rng := rand.New(rand.NewPCG(seed, 0))
	x := feature.New(channels, rows, cols)
	data := x.Data()
	for i := range data {
		v := rng.Float64()*20 - 10
		if v == 0 {
			v = 1
		}
		data[i] = v
	}
	return x
}

// Ramp returns a tensor whose cells hold their own flat index plus 1.
func Ramp(channels, rows, cols int) *feature.Tensor {
	x := feature.New(channels, rows, cols)
	for i := range x.Data() {
		x.Data()[i] = float64(i + 1)
	}
	return x
}

// Constant returns a tensor with every cell set to v.
func Constant(v float64, channels, rows, cols int) *feature.Tensor {
	x := feature.New(channels, rows, cols)
	x.Fill(v)
	return x
}

// CountEqual returns how many values of data equal v exactly.
func CountEqual(data []float64, v float64) int {
	n := 0
	for _, d := range data {
		if d == v {
			n++
		}
	}
	return n
}

// EncodeFOA returns a 7-channel feature of a plane wave from direction d:
// W, Y, Z, X followed by the Iy, Iz, Ix intensity-vector channels, every
// cell of a channel holding the same gain.
func EncodeFOA(d feature.DOA, rows, cols int) *feature.Tensor {
	x, y, z := d.Cartesian()
	gains := []float64{1, y, z, x, y, z, x}

	t := feature.New(len(gains), rows, cols)
	for c, g := range gains {
		plane := t.Channel(c)
		for i := range plane {
			plane[i] = g
		}
	}
	return t
}

// MICCapsules are the (azimuth, elevation) positions in degrees of the
// tetrahedral array capsules M1..M4.
var MICCapsules = []feature.DOA{
	{Azimuth: 45, Elevation: 35},
	{Azimuth: -45, Elevation: -35},
	{Azimuth: 135, Elevation: -35},
	{Azimuth: -135, Elevation: 35},
}

// EncodeMIC returns a 4-channel feature of a plane wave from direction d
// using a cardioid gain 1 + cos(angle between capsule and source) per capsule.
func EncodeMIC(d feature.DOA, rows, cols int) *feature.Tensor {
	sx, sy, sz := d.Cartesian()

	t := feature.New(len(MICCapsules), rows, cols)
	for c, capsule := range MICCapsules {
		cx, cy, cz := capsule.Cartesian()
		g := 1 + cx*sx + cy*sy + cz*sz
		plane := t.Channel(c)
		for i := range plane {
			plane[i] = g
		}
	}
	return t
}

// AngleDiff returns the absolute difference of two azimuths in degrees,
// taking wrap-around into account.
func AngleDiff(a, b float64) float64 {
	return math.Abs(feature.WrapAzimuth(a - b))
}
