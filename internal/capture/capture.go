// Package capture acquires audio for classification, either from the
// microphone in fixed-length chunks or from user-supplied files.
package capture

import (
	"github.com/Ojas-Arora/SoundAware/internal/errors"
)

// Sentinel errors for capture operations. Callers distinguish these to decide
// whether to surface the failure to the user; no automatic retry happens here.
var (
	ErrPermissionDenied  = errors.Newf("microphone permission denied").Component("capture").Category(errors.CategoryCapture).Build()
	ErrDeviceError       = errors.Newf("audio capture device error").Component("capture").Category(errors.CategoryCapture).Build()
	ErrFormatUnsupported = errors.Newf("unsupported audio format").Component("capture").Category(errors.CategoryValidation).Build()
	ErrFileTooLarge      = errors.Newf("audio file exceeds size limit").Component("capture").Category(errors.CategoryLimit).Build()
)
