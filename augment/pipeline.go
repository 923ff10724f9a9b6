package augment

import (
	"fmt"

	"github.com/cwbudde/algo-seld/feature"
)

// TensorOperator is an augmentation that only touches the feature tensor.
// SpectroTemporalMasker, BoxCutoffMasker and FrequencyBandShifter implement it.
type TensorOperator interface {
	Apply(x *feature.Tensor) (*feature.Tensor, error)
}

// Stage is one step of a [Pipeline].
type Stage interface {
	Process(x *feature.Tensor, labels []feature.DOA, format Format) (*feature.Tensor, []feature.DOA, error)
}

// StageFunc adapts a function to [Stage].
type StageFunc func(x *feature.Tensor, labels []feature.DOA, format Format) (*feature.Tensor, []feature.DOA, error)

// Process calls f.
func (f StageFunc) Process(
	x *feature.Tensor, labels []feature.DOA, format Format,
) (*feature.Tensor, []feature.DOA, error) {
	return f(x, labels, format)
}

// TensorStage wraps a tensor-only operator; labels pass through unchanged.
func TensorStage(op TensorOperator) Stage {
	return StageFunc(func(x *feature.Tensor, labels []feature.DOA, _ Format) (*feature.Tensor, []feature.DOA, error) {
		y, err := op.Apply(x)
		return y, labels, err
	})
}

// Pipeline applies its stages in order to one training example. Each stage
// keeps its own probability gate and generator.
type Pipeline struct {
	format Format
	stages []Stage
}

// NewPipeline creates a pipeline for the given spatial format.
func NewPipeline(format Format, stages ...Stage) (*Pipeline, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}

	for i, st := range stages {
		if st == nil {
			return nil, fmt.Errorf("%w: stage %d is nil", ErrInvalidParams, i)
		}
	}

	return &Pipeline{format: format, stages: stages}, nil
}

// Format returns the spatial format passed to every stage.
func (p *Pipeline) Format() Format { return p.format }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Process runs all stages. The first failing stage stops the pipeline;
// earlier stages have already modified x and labels.
func (p *Pipeline) Process(x *feature.Tensor, labels []feature.DOA) (*feature.Tensor, []feature.DOA, error) {
	if x == nil {
		return nil, nil, fmt.Errorf("%w: nil tensor", ErrShapeMismatch)
	}

	var err error
	for i, st := range p.stages {
		x, labels, err = st.Process(x, labels, p.format)
		if err != nil {
			return nil, nil, fmt.Errorf("augment: stage %d: %w", i, err)
		}
	}

	return x, labels, nil
}
