package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-seld/feature"
)

// RequireTensorNearlyEqual fails t if got and want differ in shape or if
// any cell pair exceeds eps (absolute tolerance).
func RequireTensorNearlyEqual(t *testing.T, got, want *feature.Tensor, eps float64) {
	t.Helper()
	if !got.SameShape(want) {
		gc, gr, gk := got.Shape()
		wc, wr, wk := want.Shape()
		t.Fatalf("shape mismatch: got (%d, %d, %d), want (%d, %d, %d)", gc, gr, gk, wc, wr, wk)
	}
	diff, err := MaxAbsDiff(got.Data(), want.Data())
	if err != nil {
		t.Fatal(err)
	}
	if diff > eps {
		t.Fatalf("max abs diff %v > eps %v", diff, eps)
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	return vecmath.MaxAbs(diff), nil
}
