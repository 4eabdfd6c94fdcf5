package bmff

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestErrorIsSentinelMatching(t *testing.T) {
	c := qt.New(t)
	err := NewError(ProtectedItem, "GetItemData", nil)
	c.Assert(errors.Is(err, ErrProtectedItem), qt.IsTrue)
	c.Assert(errors.Is(err, ErrInvalidItemID), qt.Equals, false)
}

func TestErrorWrapsCauseAndUnwraps(t *testing.T) {
	c := qt.New(t)
	cause := errors.New("underlying")
	err := NewError(MalformedBox, "iloc", cause)
	c.Assert(errors.Unwrap(err), qt.Equals, cause)
	c.Assert(errors.Is(err, cause), qt.IsTrue)
}

func TestErrorStringIncludesOpAndKind(t *testing.T) {
	c := qt.New(t)
	err := NewError(CircularReference, "GetItemLength", nil)
	c.Assert(err.Error(), qt.Equals, "heif: GetItemLength: CircularReference")
}

func TestKindString(t *testing.T) {
	c := qt.New(t)
	c.Assert(Uninitialized.String(), qt.Equals, "Uninitialized")
	c.Assert(Kind(999).String(), qt.Equals, "Unknown")
}
