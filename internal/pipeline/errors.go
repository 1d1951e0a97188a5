package pipeline

import (
	"errors"

	"github.com/jmallik/capline/internal/caption"
)

var (
	// ErrNotFound means a referenced output or cache entry is absent,
	// e.g. a stale identifier.
	ErrNotFound = errors.New("output not found")

	// ErrUnsupportedInput means the file at the boundary is not a
	// recognized media type.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrExternalFailure means the transcription or rendering
	// collaborator failed. Details are logged, not surfaced.
	ErrExternalFailure = errors.New("external processing failed")
)

// IsUserError reports whether the caller can correct the failure
// (equivalent to a 4xx), as opposed to an internal or collaborator
// fault.
func IsUserError(err error) bool {
	var verr *caption.ValidationError
	return errors.Is(err, caption.ErrEmptyResult) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.As(err, &verr)
}
