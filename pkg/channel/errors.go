package channel

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the mutation set and variant lookups.
var (
	ErrUnknownVariant      = errors.New("unknown variant")
	ErrUnknownMutationType = errors.New("unknown mutation type")
	ErrDuplicatePosition   = errors.New("mutation sequence with that location has already been entered")
	ErrOutOfRange          = errors.New("mutation sequence out of range")
)

// DataIntegrityError reports a segment table that cannot describe the
// topology required by a variant.
type DataIntegrityError struct {
	Variant Variant
	Row     int // 1-based record index within the variant column, 0 if not row specific
	Reason  string
}

func (e *DataIntegrityError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("segment table for %s: record %d: %s", e.Variant, e.Row, e.Reason)
	}
	return fmt.Sprintf("segment table for %s: %s", e.Variant, e.Reason)
}

// InvalidRangeError reports a residue range whose end precedes its start.
type InvalidRangeError struct {
	Start, End int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid residue range %d-%d: end before start", e.Start, e.End)
}

// PositionParseError reports a mutation label without any digits.
type PositionParseError struct {
	Label string
}

func (e *PositionParseError) Error() string {
	return fmt.Sprintf("cannot parse residue position from %q", e.Label)
}
