package bmff

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseDataInformationBoxWithURL(t *testing.T) {
	c := qt.New(t)
	url := fullBox("url ", 0, 1, nil) // self-contained flag
	dref := fullBox("dref", 0, 0, concat(be32(1), url))
	dinf := box("dinf", dref)

	s := NewStream(dinf)
	_, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	db, err := ParseDataInformationBox(body)
	c.Assert(err, qt.IsNil)
	c.Assert(db.DataReference, qt.Not(qt.IsNil))
	c.Assert(len(db.DataReference.Entries), qt.Equals, 1)
	c.Assert(db.DataReference.Entries[0].Type.String(), qt.Equals, "url ")
	c.Assert(db.DataReference.Entries[0].Flags, qt.Equals, uint32(1))
}

func TestParseDataReferenceBoxUnknownEntryFails(t *testing.T) {
	c := qt.New(t)
	bogus := fullBox("bogu", 0, 0, nil)
	dref := fullBox("dref", 0, 0, concat(be32(1), bogus))

	s := NewStream(dref)
	h, body, err := ReadBoxBody(s)
	c.Assert(err, qt.IsNil)
	fb, err := ReadFullBoxHeader(h, body)
	c.Assert(err, qt.IsNil)
	_, err = ParseDataReferenceBox(fb, body)
	c.Assert(err, qt.Not(qt.IsNil))
	be, ok := err.(*Error)
	c.Assert(ok, qt.IsTrue)
	c.Assert(be.Kind, qt.Equals, UnknownDataEntry)
}
