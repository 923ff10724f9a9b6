package augment

import "errors"

// Errors returned by augmentation operators.
var (
	ErrUnsupportedFormat = errors.New("augment: unsupported audio format")
	ErrShapeMismatch     = errors.New("augment: shape mismatch")
	ErrInvalidParams     = errors.New("augment: invalid parameters")
	ErrInvalidIndex      = errors.New("augment: rotation index out of range")
)
