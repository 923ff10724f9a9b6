package augment

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-seld/feature"
)

// Format selects the spatial audio representation.
type Format string

const (
	// FormatFOA is first-order ambisonics in ACN order W, Y, Z, X followed by
	// the Y, Z, X intensity-vector channels.
	FormatFOA Format = "foa"

	// FormatMIC is a 4-capsule tetrahedral microphone array.
	FormatMIC Format = "mic"
)

// ParseFormat converts "foa" or "mic" to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Valid reports whether f is FormatFOA or FormatMIC.
func (f Format) Valid() bool {
	return f == FormatFOA || f == FormatMIC
}

// checkSpatialInput validates format and channel count before anything is
// drawn or written.
func checkSpatialInput(x *feature.Tensor, format Format) error {
	if !format.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}

	if x == nil {
		return fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}

	switch c := x.Channels(); format {
	case FormatFOA:
		if c < foaChannels {
			return fmt.Errorf("%w: foa needs at least %d channels, got %d", ErrShapeMismatch, foaChannels, c)
		}
	case FormatMIC:
		if c != micChannels {
			return fmt.Errorf("%w: mic needs exactly %d channels, got %d", ErrShapeMismatch, micChannels, c)
		}
	}

	return nil
}

// SpatialRotationAugmentor applies a random element of the format's rotation
// group to a channel-first tensor and the matching transform to its DOA
// labels.
type SpatialRotationAugmentor struct {
	p   float64
	rnd sampler
	log logrus.FieldLogger
}

// NewSpatialRotationAugmentor creates an augmentor with p = 0.5 unless
// overridden.
func NewSpatialRotationAugmentor(opts ...Option) (*SpatialRotationAugmentor, error) {
	cfg, err := applyOptions(defaultProbability, opts)
	if err != nil {
		return nil, err
	}

	return &SpatialRotationAugmentor{
		p:   cfg.p,
		rnd: sampler{rng: cfg.rng},
		log: cfg.logger.WithField("op", "spatial_rotation"),
	}, nil
}

// Apply rotates x and labels in place with probability p and returns them.
//
// For FOA an azimuth index in [0, 8) and an elevation index in [0, 2) are
// drawn and applied in that order; for MIC a single index in [0, 8) is drawn.
// On error nothing has been modified.
func (a *SpatialRotationAugmentor) Apply(
	x *feature.Tensor, labels []feature.DOA, format Format,
) (*feature.Tensor, []feature.DOA, error) {
	err := checkSpatialInput(x, format)
	if err != nil {
		a.log.WithError(err).Warn("rejected input")
		return nil, nil, err
	}

	if !a.rnd.proceed(a.p) {
		return x, labels, nil
	}

	azimuthIdx, elevationIdx := 0, 0
	if format == FormatFOA {
		azimuthIdx = a.rnd.index(len(foaAzimuthTable))
		elevationIdx = a.rnd.index(len(foaElevationTable))
	} else {
		azimuthIdx = a.rnd.index(len(micTable))
	}

	return a.ApplyIndex(x, labels, format, azimuthIdx, elevationIdx)
}

// ApplyIndex applies the element selected by the given indices without
// consulting the probability gate. elevationIdx is ignored for MIC.
func (a *SpatialRotationAugmentor) ApplyIndex(
	x *feature.Tensor, labels []feature.DOA, format Format, azimuthIdx, elevationIdx int,
) (*feature.Tensor, []feature.DOA, error) {
	err := checkSpatialInput(x, format)
	if err != nil {
		return nil, nil, err
	}

	var elem Element
	if format == FormatFOA {
		elem, err = FOAElement(azimuthIdx, elevationIdx)
	} else {
		elem, err = MICElement(azimuthIdx)
	}

	if err != nil {
		return nil, nil, err
	}

	err = elem.Apply(x, labels)
	if err != nil {
		return nil, nil, err
	}

	if debugEnabled(a.log) {
		a.log.WithFields(logrus.Fields{
			"format":    string(format),
			"element":   elem.Name,
			"azimuth":   azimuthIdx,
			"elevation": elevationIdx,
			"labels":    len(labels),
		}).Debug("rotated")
	}

	return x, labels, nil
}

// Process implements [Stage].
func (a *SpatialRotationAugmentor) Process(
	x *feature.Tensor, labels []feature.DOA, format Format,
) (*feature.Tensor, []feature.DOA, error) {
	return a.Apply(x, labels, format)
}
