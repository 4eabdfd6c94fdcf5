package bmff

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseItemReferenceBoxVersion0(t *testing.T) {
	c := qt.New(t)
	thmb := box("thmb", concat(be16(5), be16(1), be16(20))) // from=5 -> to=[20]
	raw := fullBox("iref", 0, 0, thmb)
	s := NewStream(raw)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	fb, err := ReadFullBoxHeader(h, body)
	c.Assert(err, qt.IsNil)
	irb, err := ParseItemReferenceBox(fb, body)
	c.Assert(err, qt.IsNil)

	c.Assert(len(irb.References), qt.Equals, 1)
	ref := irb.References[0]
	c.Assert(ref.Type.String(), qt.Equals, "thmb")
	c.Assert(ref.FromItemID, qt.Equals, uint32(5))
	c.Assert(ref.ToItemIDs, qt.DeepEquals, []uint32{20})
}

func TestParseItemReferenceBoxVersion1Wide(t *testing.T) {
	c := qt.New(t)
	dimg := box("dimg", concat(be32(100000), be16(2), be32(1), be32(2)))
	raw := fullBox("iref", 1, 0, dimg)
	s := NewStream(raw)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	fb, err := ReadFullBoxHeader(h, body)
	c.Assert(err, qt.IsNil)
	irb, err := ParseItemReferenceBox(fb, body)
	c.Assert(err, qt.IsNil)

	ref := irb.References[0]
	c.Assert(ref.FromItemID, qt.Equals, uint32(100000))
	c.Assert(ref.ToItemIDs, qt.DeepEquals, []uint32{1, 2})
}

func TestItemReferenceBoxLookups(t *testing.T) {
	c := qt.New(t)
	thmb := box("thmb", concat(be16(5), be16(1), be16(20)))
	auxl := box("auxl", concat(be16(5), be16(1), be16(21)))
	raw := fullBox("iref", 0, 0, concat(thmb, auxl))
	s := NewStream(raw)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	fb, err := ReadFullBoxHeader(h, body)
	c.Assert(err, qt.IsNil)
	irb, err := ParseItemReferenceBox(fb, body)
	c.Assert(err, qt.IsNil)

	c.Assert(len(irb.ByFromID(5)), qt.Equals, 2)
	thmbRef := irb.ByFromIDAndType(5, NewFourCC("thmb"))
	c.Assert(thmbRef, qt.Not(qt.IsNil))
	c.Assert(thmbRef.ToItemIDs, qt.DeepEquals, []uint32{20})
	c.Assert(irb.ByFromIDAndType(99, NewFourCC("thmb")), qt.IsNil)
}
