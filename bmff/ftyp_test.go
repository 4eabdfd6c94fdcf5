package bmff

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// S1 — minimal ftyp scenario from spec.md §8.
func TestParseFileTypeBoxScenario(t *testing.T) {
	c := qt.New(t)
	buf := []byte{
		0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70,
		0x6D, 0x69, 0x66, 0x31, 0x00, 0x00, 0x00, 0x00,
		0x6D, 0x69, 0x66, 0x31, 0x68, 0x65, 0x69, 0x63,
	}
	s := NewStream(buf)
	h, err := ReadBoxHeader(s)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Size, qt.Equals, uint64(24))
	c.Assert(h.Type.String(), qt.Equals, "ftyp")
	c.Assert(h.IsLarge, qt.Equals, false)
	c.Assert(h.HasUUID, qt.Equals, false)

	body, err := s.ExtractBody(h)
	c.Assert(err, qt.IsNil)

	ft, err := ParseFileTypeBox(body)
	c.Assert(err, qt.IsNil)
	c.Assert(ft.MajorBrand.String(), qt.Equals, "mif1")
	c.Assert(ft.MinorVersion, qt.Equals, uint32(0))
	c.Assert(len(ft.CompatibleBrands), qt.Equals, 2)
	c.Assert(ft.CompatibleBrands[0].String(), qt.Equals, "mif1")
	c.Assert(ft.CompatibleBrands[1].String(), qt.Equals, "heic")
}

func TestFileTypeBoxHasCompatibleBrand(t *testing.T) {
	c := qt.New(t)
	ft := &FileTypeBox{
		MajorBrand:       NewFourCC("mif1"),
		CompatibleBrands: []FourCC{NewFourCC("heic"), NewFourCC("msf1")},
	}
	c.Assert(ft.HasCompatibleBrand(NewFourCC("mif1")), qt.IsTrue)
	c.Assert(ft.HasCompatibleBrand(NewFourCC("msf1")), qt.IsTrue)
	c.Assert(ft.HasCompatibleBrand(NewFourCC("avif")), qt.Equals, false)
}
