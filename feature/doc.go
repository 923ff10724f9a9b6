// Package feature provides the dense multi-channel spectrogram tensor and the
// direction-of-arrival labels that the augment package operates on.
//
// A [Tensor] stores values as one contiguous row-major []float64 with shape
// (channels, rows, cols). Which inner axis is time and which is frequency is a
// per-operator contract described by [Layout]. Channel planes returned by
// [Tensor.Channel] alias the tensor storage, so the usual DSP slice routines
// can operate on them directly.
//
// Masked or silent cells hold [Floor], the natural log of float64 machine
// epsilon.
package feature
