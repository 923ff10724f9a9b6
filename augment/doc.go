// Package augment provides stochastic data-augmentation operators for
// multi-channel spectrogram features used to train sound-event localization
// and detection (SELD) models.
//
// Included operators:
//   - SpectroTemporalMasker: SpecAugment-style time stripes and paired
//     frequency stripes per time segment.
//   - BoxCutoffMasker: one joint time×frequency box per time segment.
//   - SpatialRotationAugmentor: rotations and reflections of first-order
//     ambisonics (FOA) or tetrahedral microphone-array (MIC) channels with the
//     matching direction-of-arrival label transform.
//   - FrequencyBandShifter: shift along the frequency axis with a zero-filled
//     edge.
//
// Every operator is gated by a probability p: it applies its perturbation
// with probability p and otherwise returns the input unchanged. Operators
// mutate the input tensor (and labels) in place and return the same handles,
// so the caller must hold exclusive access to them for the duration of a call.
//
// # Randomness
//
// Each operator owns a *rand.Rand. Pass [WithRNG] or [WithSeed] for
// reproducible runs; without either, the operator seeds its own PCG
// generator. An operator is not safe for concurrent use: give every
// data-loading worker its own operator instances.
//
// # Rotation group
//
// The spatial rotations are modeled as fixed tables of [Element] values
// (channel gather index, channel sign, azimuth and elevation maps). Each table
// is closed under [Element.Then]; see [FOAAzimuth], [FOAElevation] and [MIC].
package augment
