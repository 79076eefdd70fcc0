package dto

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when no text could be recovered from a document.
var ErrEmptyDocument = errors.New("no text could be extracted from the document")

// AcquisitionError is a fatal failure of the OCR or vendor-extraction
// capability: retries exhausted or malformed output. The document should
// transition to a failed state for the caller to retry or escalate.
type AcquisitionError struct {
	Capability string // "tesseract", "vendor", "pdf"
	Attempts   int
	Err        error
}

func (e *AcquisitionError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s acquisition failed after %d attempts: %v", e.Capability, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s acquisition failed: %v", e.Capability, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// IsAcquisitionError reports whether err is (or wraps) an AcquisitionError.
func IsAcquisitionError(err error) bool {
	var ae *AcquisitionError
	return errors.As(err, &ae)
}
