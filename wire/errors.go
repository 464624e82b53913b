package wire

import "errors"

// ErrRangeViolation is returned when a caller asks to serialize a value
// outside of the bounds it declared for the field. This is a programmer
// error, not a wire error: callers should treat it as fatal rather than
// retry or discard, per the error taxonomy in SPEC_FULL.md §7.
var ErrRangeViolation = errors.New("wire: value outside declared range")
