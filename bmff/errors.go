package bmff

import "errors"

// Kind is the error taxonomy from spec.md §7. A single Kind type spans both
// the box-parsing layer (bmff) and the reader facade (heif), which re-exports
// these constants so callers only ever import one error type — grounded on
// the teacher's package-level Err* sentinels (ErrUnknownBox, ErrNoEXIF,
// ErrUnknownItem), generalized into a {Kind, Op, Err} struct because the
// spec's taxonomy needs twelve distinguishable kinds instead of three.
type Kind int

const (
	KindUnknown Kind = iota
	EndOfStream
	MalformedBox
	DuplicateTopLevelBox
	MissingMandatoryBox
	UnknownDataEntry
	InvalidItemID
	InvalidSequenceID
	ProtectedItem
	UnsupportedCodeType
	CircularReference
	Uninitialized
	InvalidFormat
	Unsupported
	Io
)

func (k Kind) String() string {
	switch k {
	case EndOfStream:
		return "EndOfStream"
	case MalformedBox:
		return "MalformedBox"
	case DuplicateTopLevelBox:
		return "DuplicateTopLevelBox"
	case MissingMandatoryBox:
		return "MissingMandatoryBox"
	case UnknownDataEntry:
		return "UnknownDataEntry"
	case InvalidItemID:
		return "InvalidItemID"
	case InvalidSequenceID:
		return "InvalidSequenceID"
	case ProtectedItem:
		return "ProtectedItem"
	case UnsupportedCodeType:
		return "UnsupportedCodeType"
	case CircularReference:
		return "CircularReference"
	case Uninitialized:
		return "Uninitialized"
	case InvalidFormat:
		return "InvalidFormat"
	case Unsupported:
		return "Unsupported"
	case Io:
		return "Io"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every parse and query site.
type Error struct {
	Kind Kind
	Op   string // the operation or box type that failed, e.g. "iloc", "GetItemData"
	Err  error  // wrapped cause, or nil for a bare sentinel
}

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Op == "" {
			return "heif: " + e.Kind.String()
		}
		return "heif: " + e.Op + ": " + e.Kind.String()
	}
	if e.Op == "" {
		return "heif: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "heif: " + e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, bmff.ErrProtectedItem) style sentinel checks:
// a bare Kind sentinel (Err == nil) matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Err != nil {
		return false
	}
	return e.Kind == t.Kind
}

// NewError constructs a wrapped error for kind k at operation op.
func NewError(k Kind, op string, err error) *Error {
	return &Error{Kind: k, Op: op, Err: err}
}

// Sentinel errors, one per Kind, for errors.Is comparisons.
var (
	ErrEndOfStream          = &Error{Kind: EndOfStream}
	ErrMalformedBox         = &Error{Kind: MalformedBox}
	ErrDuplicateTopLevelBox = &Error{Kind: DuplicateTopLevelBox}
	ErrMissingMandatoryBox  = &Error{Kind: MissingMandatoryBox}
	ErrUnknownDataEntry     = &Error{Kind: UnknownDataEntry}
	ErrInvalidItemID        = &Error{Kind: InvalidItemID}
	ErrInvalidSequenceID    = &Error{Kind: InvalidSequenceID}
	ErrProtectedItem        = &Error{Kind: ProtectedItem}
	ErrUnsupportedCodeType  = &Error{Kind: UnsupportedCodeType}
	ErrCircularReference    = &Error{Kind: CircularReference}
	ErrUninitialized        = &Error{Kind: Uninitialized}
	ErrInvalidFormat        = &Error{Kind: InvalidFormat}
	ErrUnsupported          = &Error{Kind: Unsupported}
	ErrIo                   = &Error{Kind: Io}
)

// Is reports whether err has kind k anywhere in its chain.
func Is(err error, sentinel *Error) bool {
	return errors.Is(err, sentinel)
}
