package ingest

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected submission: missing source, unsupported
// format, or an oversized document. Rejections never leave partial state
// behind.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidationError reports whether err is a rejection rather than an
// infrastructure failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrCopyFailed marks an I/O failure while copying into managed storage.
// No partial catalog mutation accompanies it.
var ErrCopyFailed = errors.New("failed to copy file into managed storage")

func copyFailed(err error) error {
	return fmt.Errorf("%w: %v", ErrCopyFailed, err)
}
