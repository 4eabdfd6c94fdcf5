package bmff

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestStreamByteReads(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A})

	b, err := s.ReadU8()
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.Equals, uint8(0x01))

	u16, err := s.ReadU16BE()
	c.Assert(err, qt.IsNil)
	c.Assert(u16, qt.Equals, uint16(0x0203))

	u32, err := s.ReadU32BE()
	c.Assert(err, qt.IsNil)
	c.Assert(u32, qt.Equals, uint32(0x04050607))

	c.Assert(s.Remaining(), qt.Equals, 3)

	_, err = s.ReadU32BE()
	c.Assert(errors.Is(err, ErrEndOfStream), qt.IsTrue)
}

func TestStreamReadU64(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0, 0, 0, 0, 0, 0, 0, 42})
	v, err := s.ReadU64BE()
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(42))
}

// S2 — bit reads on 0F 10 11.
func TestStreamReadBitsScenario(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0x0F, 0x10, 0x11})

	v, err := s.ReadBits(5)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(1))

	v, err = s.ReadBits(3)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(7))

	v, err = s.ReadBits(3)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(0))

	v, err = s.ReadBits(10)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(514))

	c.Assert(s.Pos(), qt.Equals, 2)
	c.Assert(s.bitPos, qt.Equals, uint8(5))
}

func TestStreamReadBitsZero(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0xFF})
	v, err := s.ReadBits(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(0))
	c.Assert(s.Pos(), qt.Equals, 0)
	c.Assert(s.bitPos, qt.Equals, uint8(0))
}

func TestStreamReadUintNWidthZero(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0xAA, 0xBB})
	v, err := s.ReadUintN(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint64(0))
	c.Assert(s.Pos(), qt.Equals, 0) // consumed nothing
}

func TestStreamReadUintNWidths(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0x01, 0x00, 0x02, 0, 0, 0, 0x03, 0, 0, 0, 0, 0, 0, 0, 0x04})
	v1, err := s.ReadUintN(1)
	c.Assert(err, qt.IsNil)
	c.Assert(v1, qt.Equals, uint64(1))

	v2, err := s.ReadUintN(2)
	c.Assert(err, qt.IsNil)
	c.Assert(v2, qt.Equals, uint64(2))

	v4, err := s.ReadUintN(4)
	c.Assert(err, qt.IsNil)
	c.Assert(v4, qt.Equals, uint64(3))

	v8, err := s.ReadUintN(8)
	c.Assert(err, qt.IsNil)
	c.Assert(v8, qt.Equals, uint64(4))
}

// S3 — zero-terminated string.
func TestStreamReadCStringScenario(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0x73, 0x74, 0x72, 0x69, 0x6E, 0x67, 0x00})
	str, err := s.ReadCString()
	c.Assert(err, qt.IsNil)
	c.Assert(str, qt.Equals, "string")
	c.Assert(s.Eof(), qt.IsTrue)
}

func TestStreamReadCStringNoTerminator(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0x61, 0x62, 0x63})
	str, err := s.ReadCString()
	c.Assert(err, qt.IsNil)
	c.Assert(str, qt.Equals, "abc")
}

func TestStreamSkipAndEOF(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{1, 2, 3, 4})
	c.Assert(s.Skip(2), qt.IsNil)
	c.Assert(s.Remaining(), qt.Equals, 2)
	err := s.Skip(10)
	c.Assert(errors.Is(err, ErrEndOfStream), qt.IsTrue)
}

func TestStreamExtractAndExtractBody(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{1, 2, 3, 4, 5, 6})
	sub, err := s.Extract(4)
	c.Assert(err, qt.IsNil)
	c.Assert(sub.Remaining(), qt.Equals, 4)
	c.Assert(s.Remaining(), qt.Equals, 2) // outer cursor advanced

	h := BoxHeader{Size: 10}
	s2 := NewStream(make([]byte, 20))
	body, err := s2.ExtractBody(h)
	c.Assert(err, qt.IsNil)
	c.Assert(body.Remaining(), qt.Equals, 2) // 10 - 8 header bytes
}

func TestStreamRequiresByteAlignment(t *testing.T) {
	c := qt.New(t)
	s := NewStream([]byte{0xFF, 0xFF})
	_, err := s.ReadBits(3)
	c.Assert(err, qt.IsNil)
	_, err = s.ReadU8()
	c.Assert(err, qt.Not(qt.IsNil))
}
