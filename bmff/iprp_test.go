package bmff

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func parseIpco(c *qt.C, raw []byte) *ItemPropertyContainerBox {
	s := NewStream(raw)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Type.String(), qt.Equals, "ipco")
	cb, err := ParseItemPropertyContainerBox(body)
	c.Assert(err, qt.IsNil)
	return cb
}

func TestParseItemPropertyContainerPreservesOrderAndUnknowns(t *testing.T) {
	c := qt.New(t)
	ispeFull := fullBoxLikeProperty("ispe", concat(be32(640), be32(480)))
	colr := box("colr", []byte("nclx")) // unknown/raw kind
	irot := box("irot", []byte{0x01})

	raw := box("ipco", concat(ispeFull, colr, irot))
	cb := parseIpco(c, raw)

	c.Assert(len(cb.Properties), qt.Equals, 3)
	c.Assert(cb.Properties[0].Type.String(), qt.Equals, "ispe")
	ispeProp, ok := cb.Properties[0].Parsed.(*ImageSpatialExtentsProperty)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ispeProp.Width, qt.Equals, uint32(640))
	c.Assert(ispeProp.Height, qt.Equals, uint32(480))

	c.Assert(cb.Properties[1].Type.String(), qt.Equals, "colr")
	raw2, ok := cb.Properties[1].Parsed.(*RawProperty)
	c.Assert(ok, qt.IsTrue)
	c.Assert(string(raw2.Body), qt.Equals, "nclx")

	rot, ok := cb.Properties[2].Parsed.(*ImageRotationProperty)
	c.Assert(ok, qt.IsTrue)
	c.Assert(rot.QuarterTurns, qt.Equals, uint8(1))
}

// fullBoxLikeProperty wraps a property body with a generic (non-full) box
// header, since ispe/irot/hvcC/avcC are plain boxes, not full boxes.
func fullBoxLikeProperty(typ string, body []byte) []byte {
	return box(typ, body)
}

func TestParseItemPropertyAssociationNarrowIndex(t *testing.T) {
	c := qt.New(t)
	// flags bit 0 == 0 -> 7-bit index width.
	body := concat(
		be32(1), // entry_count
		be16(10), []byte{2}, // item_id=10, association_count=2
		[]byte{0x81}, // essential=1, index=1
		[]byte{0x02}, // essential=0, index=2
	)
	raw := fullBox("ipma", 0, 0, body)
	s := NewStream(raw)
	h, bodyStream, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	fb, err := ReadFullBoxHeader(h, bodyStream)
	c.Assert(err, qt.IsNil)
	pab, err := ParseItemPropertyAssociationBox(fb, bodyStream)
	c.Assert(err, qt.IsNil)

	entry := pab.ByItemID(10)
	c.Assert(entry, qt.Not(qt.IsNil))
	c.Assert(len(entry.Associations), qt.Equals, 2)
	c.Assert(entry.Associations[0].Index, qt.Equals, uint16(1))
	c.Assert(entry.Associations[0].Essential, qt.IsTrue)
	c.Assert(entry.Associations[1].Index, qt.Equals, uint16(2))
	c.Assert(entry.Associations[1].Essential, qt.Equals, false)
}

func TestParseItemPropertyAssociationWideIndex(t *testing.T) {
	c := qt.New(t)
	// flags bit 0 == 1 -> 15-bit index width, version >= 1 -> u32 item_id.
	body := concat(
		be32(1),
		be32(20), []byte{1},
		be16(0x8005), // essential=1, index=5
	)
	raw := fullBox("ipma", 1, 1, body)
	s := NewStream(raw)
	h, bodyStream, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	fb, err := ReadFullBoxHeader(h, bodyStream)
	c.Assert(err, qt.IsNil)
	pab, err := ParseItemPropertyAssociationBox(fb, bodyStream)
	c.Assert(err, qt.IsNil)

	entry := pab.ByItemID(20)
	c.Assert(entry, qt.Not(qt.IsNil))
	c.Assert(entry.Associations[0].Index, qt.Equals, uint16(5))
	c.Assert(entry.Associations[0].Essential, qt.IsTrue)
}

func TestPropertiesForItemResolvesByIndex(t *testing.T) {
	c := qt.New(t)
	ispeFull := fullBoxLikeProperty("ispe", concat(be32(100), be32(200)))
	colr := box("colr", []byte("test"))
	ipco := box("ipco", concat(ispeFull, colr))

	ipmaBody := concat(be32(1), be16(5), []byte{1}, []byte{0x02}) // item 5 -> property index 2 (colr)
	ipma := fullBox("ipma", 0, 0, ipmaBody)

	raw := box("iprp", concat(ipco, ipma))
	s := NewStream(raw)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Type.String(), qt.Equals, "iprp")
	ib, err := ParseItemPropertiesBox(body)
	c.Assert(err, qt.IsNil)

	props := ib.PropertiesForItem(5)
	c.Assert(len(props), qt.Equals, 1)
	c.Assert(props[0].Type.String(), qt.Equals, "colr")
}

func TestParseItemPropertiesBoxMergesMultipleIpma(t *testing.T) {
	c := qt.New(t)
	ispeFull := fullBoxLikeProperty("ispe", concat(be32(100), be32(200)))
	colr := box("colr", []byte("test"))
	ipco := box("ipco", concat(ispeFull, colr))

	ipma1 := fullBox("ipma", 0, 0, concat(be32(1), be16(5), []byte{1}, []byte{0x01}))
	ipma2 := fullBox("ipma", 0, 0, concat(be32(1), be16(6), []byte{1}, []byte{0x02}))

	raw := box("iprp", concat(ipco, ipma1, ipma2))
	s := NewStream(raw)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	c.Assert(h.Type.String(), qt.Equals, "iprp")
	ib, err := ParseItemPropertiesBox(body)
	c.Assert(err, qt.IsNil)

	c.Assert(len(ib.Associations.Entries), qt.Equals, 2)
	props5 := ib.PropertiesForItem(5)
	c.Assert(len(props5), qt.Equals, 1)
	c.Assert(props5[0].Type.String(), qt.Equals, "ispe")

	props6 := ib.PropertiesForItem(6)
	c.Assert(len(props6), qt.Equals, 1)
	c.Assert(props6[0].Type.String(), qt.Equals, "colr")
}
