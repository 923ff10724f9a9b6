package augment

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-seld/feature"
)

// AngleMap is the affine label transform θ → Scale·θ + Offset in degrees.
// Scale is +1 or -1.
type AngleMap struct {
	Scale  float64
	Offset float64
}

var identityMap = AngleMap{Scale: 1}

// Map applies m to deg.
func (m AngleMap) Map(deg float64) float64 {
	return m.Scale*deg + m.Offset
}

// Then returns the map that applies m first and next second.
func (m AngleMap) Then(next AngleMap) AngleMap {
	return AngleMap{
		Scale:  next.Scale * m.Scale,
		Offset: next.Scale*m.Offset + next.Offset,
	}
}

// IsIdentity reports whether m leaves every angle unchanged modulo 360.
func (m AngleMap) IsIdentity() bool {
	return m.Scale == 1 && math.Mod(m.Offset, 360) == 0
}

func (m AngleMap) equivalent(o AngleMap) bool {
	return m.Scale == o.Scale && math.Mod(m.Offset-o.Offset, 360) == 0
}

// Element is one rotation/reflection of the recording rig: a signed channel
// gather plus the matching label transform.
//
// Output channel d is Sign[d] * input channel Source[d] for the first
// len(Source) channels; later channels are left alone. Mapped azimuths are
// wrapped into [-180, 180).
type Element struct {
	Name      string
	Source    []int
	Sign      []float64
	Azimuth   AngleMap
	Elevation AngleMap
}

// Channels returns the number of leading channels e acts on.
func (e Element) Channels() int { return len(e.Source) }

// IsIdentity reports whether e changes neither channels nor labels.
func (e Element) IsIdentity() bool {
	if len(e.Sign) != len(e.Source) {
		return false
	}
	for d, src := range e.Source {
		if src != d || e.Sign[d] != 1 {
			return false
		}
	}
	return e.Azimuth.IsIdentity() && e.Elevation.IsIdentity()
}

// Then returns the element that applies e first and next second. Both must
// be valid signed permutations of the same channel count.
func (e Element) Then(next Element) (Element, error) {
	err := e.validate()
	if err != nil {
		return Element{}, err
	}

	err = next.validate()
	if err != nil {
		return Element{}, err
	}

	n := len(e.Source)
	if len(next.Source) != n {
		return Element{}, fmt.Errorf("%w: cannot compose %q (%d channels) with %q (%d channels)",
			ErrInvalidParams, e.Name, n, next.Name, len(next.Source))
	}

	out := Element{
		Name:      e.Name + "+" + next.Name,
		Source:    make([]int, n),
		Sign:      make([]float64, n),
		Azimuth:   e.Azimuth.Then(next.Azimuth),
		Elevation: e.Elevation.Then(next.Elevation),
	}
	for d := range n {
		mid := next.Source[d]
		out.Source[d] = e.Source[mid]
		out.Sign[d] = next.Sign[d] * e.Sign[mid]
	}
	return out, nil
}

// Equivalent reports whether e and o perform the same transform, ignoring
// names and azimuth offsets that differ by whole turns.
func (e Element) Equivalent(o Element) bool {
	return slices.Equal(e.Source, o.Source) &&
		slices.Equal(e.Sign, o.Sign) &&
		e.Azimuth.equivalent(o.Azimuth) &&
		e.Elevation.equivalent(o.Elevation)
}

// Clone returns a copy of e that shares no slices with it.
func (e Element) Clone() Element {
	e.Source = slices.Clone(e.Source)
	e.Sign = slices.Clone(e.Sign)
	return e
}

// validate checks that Source is a permutation of [0, n) and that every
// Sign is ±1.
func (e Element) validate() error {
	n := len(e.Source)
	if len(e.Sign) != n {
		return fmt.Errorf("%w: element %q has %d signs for %d channels", ErrInvalidParams, e.Name, len(e.Sign), n)
	}

	seen := make([]bool, n)
	for d, src := range e.Source {
		if src < 0 || src >= n || seen[src] {
			return fmt.Errorf("%w: element %q source %d is not a permutation of [0, %d)", ErrInvalidParams, e.Name, d, n)
		}
		seen[src] = true

		if s := e.Sign[d]; s != 1 && s != -1 {
			return fmt.Errorf("%w: element %q sign %v", ErrInvalidParams, e.Name, s)
		}
	}
	return nil
}

// Apply transforms the channels of x and the labels in place. Azimuths are
// only rewritten (and wrapped) when the azimuth map is not the identity.
func (e Element) Apply(x *feature.Tensor, labels []feature.DOA) error {
	err := e.validate()
	if err != nil {
		return err
	}

	if x == nil || x.Channels() < len(e.Source) {
		return fmt.Errorf("%w: element %q needs %d channels", ErrShapeMismatch, e.Name, len(e.Source))
	}

	e.applyChannels(x)

	mapAzimuth := !e.Azimuth.IsIdentity()
	mapElevation := !e.Elevation.IsIdentity()

	for i := range labels {
		if mapAzimuth {
			labels[i].Azimuth = feature.WrapAzimuth(e.Azimuth.Map(labels[i].Azimuth))
		}
		if mapElevation {
			labels[i].Elevation = e.Elevation.Map(labels[i].Elevation)
		}
	}

	return nil
}

func (e Element) applyChannels(x *feature.Tensor) {
	var moved []int
	for d, src := range e.Source {
		if src != d {
			moved = append(moved, src)
		}
	}

	if len(moved) == 0 {
		for d, sign := range e.Sign {
			if sign != 1 {
				vecmath.ScaleBlockInPlace(x.Channel(d), sign)
			}
		}
		return
	}

	// Gather sources into scratch first: a swap overwrites its own input.
	scratch := scratchPool.SnapshotChannels(x, moved)
	defer scratchPool.Put(scratch)

	plane := x.Rows() * x.Cols()
	snap := scratch.Values()
	slot := 0

	for d, src := range e.Source {
		if src == d {
			if e.Sign[d] != 1 {
				vecmath.ScaleBlockInPlace(x.Channel(d), e.Sign[d])
			}
			continue
		}
		vecmath.ScaleBlock(x.Channel(d), snap[slot*plane:(slot+1)*plane], e.Sign[d])
		slot++
	}
}

var scratchPool = feature.NewPool()

// Table is a fixed set of rotation elements indexed by the drawn integer.
type Table []Element

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, e := range t {
		out[i] = e.Clone()
	}
	return out
}

// Index returns the position of the element equivalent to e, or -1.
func (t Table) Index(e Element) int {
	for i, cand := range t {
		if cand.Equivalent(e) {
			return i
		}
	}
	return -1
}

// Identity returns the position of the identity element, or -1.
func (t Table) Identity() int {
	for i, e := range t {
		if e.IsIdentity() {
			return i
		}
	}
	return -1
}

// FOA channel layout: W, Y, Z, X followed by the intensity vector Iy, Iz, Ix.
// Channels 1,3 and 4,6 are the horizontal pairs; 2 and 5 are vertical.
const foaChannels = 7

func foaKeep() []int { return []int{0, 1, 2, 3, 4, 5, 6} }
func foaSwap() []int { return []int{0, 3, 2, 1, 6, 5, 4} }

func foaSign(y, z, x float64) []float64 {
	return []float64{1, y, z, x, y, z, x}
}

// Every entry owns its slices; the tables are only handed out as clones.
var (
	foaAzimuthTable = Table{
		{Name: "foa-azi-0", Source: foaSwap(), Sign: foaSign(-1, 1, 1), Azimuth: AngleMap{1, -90}, Elevation: identityMap},
		{Name: "foa-azi-1", Source: foaKeep(), Sign: foaSign(1, 1, 1), Azimuth: identityMap, Elevation: identityMap},
		{Name: "foa-azi-2", Source: foaSwap(), Sign: foaSign(1, 1, -1), Azimuth: AngleMap{1, 90}, Elevation: identityMap},
		{Name: "foa-azi-3", Source: foaKeep(), Sign: foaSign(-1, 1, -1), Azimuth: AngleMap{1, 180}, Elevation: identityMap},
		{Name: "foa-azi-4", Source: foaSwap(), Sign: foaSign(-1, 1, -1), Azimuth: AngleMap{-1, -90}, Elevation: identityMap},
		{Name: "foa-azi-5", Source: foaKeep(), Sign: foaSign(-1, 1, 1), Azimuth: AngleMap{-1, 0}, Elevation: identityMap},
		{Name: "foa-azi-6", Source: foaSwap(), Sign: foaSign(1, 1, 1), Azimuth: AngleMap{-1, 90}, Elevation: identityMap},
		{Name: "foa-azi-7", Source: foaKeep(), Sign: foaSign(1, 1, -1), Azimuth: AngleMap{-1, 180}, Elevation: identityMap},
	}

	foaElevationTable = Table{
		{Name: "foa-ele-0", Source: foaKeep(), Sign: foaSign(1, 1, 1), Azimuth: identityMap, Elevation: identityMap},
		{Name: "foa-ele-1", Source: foaKeep(), Sign: foaSign(1, -1, 1), Azimuth: identityMap, Elevation: AngleMap{-1, 0}},
	}
)

// FOAAzimuth returns the eight horizontal rotations/reflections of a
// 7-channel FOA + intensity-vector feature. Index 1 is the identity.
func FOAAzimuth() Table { return foaAzimuthTable.Clone() }

// FOAElevation returns the vertical reflection group. Index 0 is the identity.
func FOAElevation() Table { return foaElevationTable.Clone() }

// MIC channel layout: tetrahedral capsules M1 (45°, 35°), M2 (-45°, -35°),
// M3 (135°, -35°), M4 (-135°, 35°).
const micChannels = 4

func micSign() []float64 { return []float64{1, 1, 1, 1} }

var micTable = Table{
	{Name: "mic-0", Source: []int{2, 0, 3, 1}, Sign: micSign(), Azimuth: AngleMap{1, -90}, Elevation: AngleMap{-1, 0}},
	{Name: "mic-1", Source: []int{3, 1, 2, 0}, Sign: micSign(), Azimuth: AngleMap{-1, -90}, Elevation: identityMap},
	{Name: "mic-2", Source: []int{0, 1, 2, 3}, Sign: micSign(), Azimuth: identityMap, Elevation: identityMap},
	{Name: "mic-3", Source: []int{1, 0, 3, 2}, Sign: micSign(), Azimuth: AngleMap{-1, 0}, Elevation: AngleMap{-1, 0}},
	{Name: "mic-4", Source: []int{1, 3, 0, 2}, Sign: micSign(), Azimuth: AngleMap{1, 90}, Elevation: AngleMap{-1, 0}},
	{Name: "mic-5", Source: []int{0, 2, 1, 3}, Sign: micSign(), Azimuth: AngleMap{-1, 90}, Elevation: identityMap},
	// M1<->M4 with M2<->M3 is a half turn; no 90° turn maps the capsules onto each other.
	{Name: "mic-6", Source: []int{3, 2, 1, 0}, Sign: micSign(), Azimuth: AngleMap{1, 180}, Elevation: identityMap},
	{Name: "mic-7", Source: []int{2, 3, 0, 1}, Sign: micSign(), Azimuth: AngleMap{-1, 180}, Elevation: AngleMap{-1, 0}},
}

// MIC returns the eight symmetries of the tetrahedral array that map
// capsules onto capsules. Index 2 is the identity.
func MIC() Table { return micTable.Clone() }

// FOAElement returns the combined element for an azimuth index in [0, 8)
// followed by an elevation index in [0, 2).
func FOAElement(azimuthIdx, elevationIdx int) (Element, error) {
	if azimuthIdx < 0 || azimuthIdx >= len(foaAzimuthTable) {
		return Element{}, fmt.Errorf("%w: foa azimuth index %d", ErrInvalidIndex, azimuthIdx)
	}
	if elevationIdx < 0 || elevationIdx >= len(foaElevationTable) {
		return Element{}, fmt.Errorf("%w: foa elevation index %d", ErrInvalidIndex, elevationIdx)
	}
	return foaAzimuthTable[azimuthIdx].Then(foaElevationTable[elevationIdx])
}

// MICElement returns a copy of the MIC table entry for idx in [0, 8).
func MICElement(idx int) (Element, error) {
	if idx < 0 || idx >= len(micTable) {
		return Element{}, fmt.Errorf("%w: mic index %d", ErrInvalidIndex, idx)
	}
	return micTable[idx].Clone(), nil
}
