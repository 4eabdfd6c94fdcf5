package heif

import "github.com/heifcore/heif/bmff"

// Kind classifies a reader error (spec.md §7). It is an alias of bmff.Kind
// so callers never need to import the bmff package just to compare error
// kinds.
type Kind = bmff.Kind

const (
	KindUnknown          = bmff.KindUnknown
	EndOfStream          = bmff.EndOfStream
	MalformedBox         = bmff.MalformedBox
	DuplicateTopLevelBox = bmff.DuplicateTopLevelBox
	MissingMandatoryBox  = bmff.MissingMandatoryBox
	UnknownDataEntry     = bmff.UnknownDataEntry
	InvalidItemID        = bmff.InvalidItemID
	InvalidSequenceID    = bmff.InvalidSequenceID
	ProtectedItem        = bmff.ProtectedItem
	UnsupportedCodeType  = bmff.UnsupportedCodeType
	CircularReference    = bmff.CircularReference
	Uninitialized        = bmff.Uninitialized
	InvalidFormat        = bmff.InvalidFormat
	Unsupported          = bmff.Unsupported
	Io                   = bmff.Io
)

// Error is the concrete error type returned by every Reader method.
type Error = bmff.Error

// Sentinel errors for errors.Is(err, heif.ErrProtectedItem) style checks.
var (
	ErrEndOfStream          = bmff.ErrEndOfStream
	ErrMalformedBox         = bmff.ErrMalformedBox
	ErrDuplicateTopLevelBox = bmff.ErrDuplicateTopLevelBox
	ErrMissingMandatoryBox  = bmff.ErrMissingMandatoryBox
	ErrUnknownDataEntry     = bmff.ErrUnknownDataEntry
	ErrInvalidItemID        = bmff.ErrInvalidItemID
	ErrInvalidSequenceID    = bmff.ErrInvalidSequenceID
	ErrProtectedItem        = bmff.ErrProtectedItem
	ErrUnsupportedCodeType  = bmff.ErrUnsupportedCodeType
	ErrCircularReference    = bmff.ErrCircularReference
	ErrUninitialized        = bmff.ErrUninitialized
	ErrInvalidFormat        = bmff.ErrInvalidFormat
	ErrUnsupported          = bmff.ErrUnsupported
	ErrIo                   = bmff.ErrIo
)

func newError(k Kind, op string, err error) *Error {
	return bmff.NewError(k, op, err)
}
