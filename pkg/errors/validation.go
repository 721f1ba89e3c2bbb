package errors

import (
	"strings"

	"github.com/google/uuid"
)

// MaxNetworkSize bounds the number of processors a single run may simulate.
// Every round of OddEven spawns up to n/2 tasks for up to 2n rounds, so the
// bound keeps a single request from monopolising the machine.
const MaxNetworkSize = 1 << 16

// MaxTraceSize bounds the size of a traced run. A trace keeps a copy of the
// network per round, so its memory grows with the square of the size.
const MaxTraceSize = 1 << 10

// ValidateSize validates a requested network size.
//
// The validation rules:
//   - At least one processor
//   - At most MaxNetworkSize processors
func ValidateSize(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidSize, "network size must be at least 1, got %d", n)
	}
	if n > MaxNetworkSize {
		return New(ErrCodeInvalidSize, "network size %d exceeds maximum of %d", n, MaxNetworkSize)
	}
	return nil
}

// ValidateTraceSize validates the size of a run that records a trace.
func ValidateTraceSize(n int) error {
	if n > MaxTraceSize {
		return New(ErrCodeInvalidInput, "cannot trace a network of %d processors, maximum is %d", n, MaxTraceSize)
	}
	return nil
}

// ValidateValues validates an explicit initial sequence against a requested size.
// A size of 0 means "use the sequence length".
func ValidateValues(values []int64, size int) error {
	if len(values) == 0 {
		return New(ErrCodeInvalidInput, "initial sequence cannot be empty")
	}
	if size != 0 && size != len(values) {
		return New(ErrCodeInvalidInput, "initial sequence has %d values but size is %d", len(values), size)
	}
	return ValidateSize(len(values))
}

// ValidateRange validates the bounds used for random value generation.
func ValidateRange(lo, hi int64) error {
	if lo > hi {
		return New(ErrCodeInvalidInput, "value range is empty: min %d > max %d", lo, hi)
	}
	return nil
}

// ValidateRunID validates a run identifier before it is used as a storage key.
// Run IDs are UUIDs; anything else is rejected so it can never reach a file path.
func ValidateRunID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	return nil
}
