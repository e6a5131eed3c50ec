package ingest

import (
	"errors"
	"fmt"
)

// ErrUnclassified signals a record whose job-type field carried neither the
// Hourly nor the Fixed-price marker. Such records are dropped, not persisted.
var ErrUnclassified = errors.New("job type matched neither Hourly nor Fixed-price")

// MergeError reports a length mismatch between a raw batch and its resolved
// identities. It is fatal for the whole batch.
type MergeError struct {
	RawLen      int
	IdentityLen int
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("batch length mismatch: %d raw records vs %d identities", e.RawLen, e.IdentityLen)
}

// RecordError wraps a failure while processing a single record. The pipeline
// logs it and continues with the rest of the batch.
type RecordError struct {
	Title string
	Cause error
}

func (e *RecordError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("record %q: %v", e.Title, e.Cause)
	}
	return fmt.Sprintf("record: %v", e.Cause)
}

func (e *RecordError) Unwrap() error {
	return e.Cause
}
