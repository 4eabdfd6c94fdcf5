package heif

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTrackQueriesAlwaysFail(t *testing.T) {
	c := qt.New(t)
	buf, _ := buildHEIF(t)
	r, err := Load(buf)
	c.Assert(err, qt.IsNil)

	_, err = r.DisplayWidth(1)
	c.Assert(errKind(err), qt.Equals, InvalidSequenceID)
	_, err = r.DisplayHeight(1)
	c.Assert(errKind(err), qt.Equals, InvalidSequenceID)
	_, err = r.WidthAt(1, 1)
	c.Assert(errKind(err), qt.Equals, InvalidSequenceID)
	_, err = r.HeightAt(1, 1)
	c.Assert(errKind(err), qt.Equals, InvalidSequenceID)

	uninit := &Reader{}
	_, err = uninit.DisplayWidth(1)
	c.Assert(errKind(err), qt.Equals, Uninitialized)
}

func TestAuxiliaryIDsAndType(t *testing.T) {
	c := qt.New(t)
	iinf := fullBox("iinf", 0, 0, concat(
		be16(2),
		infe(1, "hvc1", false),
		infe(2, "hvc1", true),
	))
	auxl := box("auxl", concat(be16(2), be16(1), be16(1)))
	iref := fullBox("iref", 0, 0, auxl)
	auxC := fullBox("auxC", 0, 0, cstr("urn:mpeg:hevc:2015:auxid:1"))
	ipco := box("ipco", auxC)
	ipma := fullBox("ipma", 0, 0, concat(be32(1), be16(2), []byte{1}, []byte{0x01}))
	iprp := box("iprp", concat(ipco, ipma))

	buf := buildMinimalMeta(t, concat(iinf, iref, iprp))
	r, err := Load(buf)
	c.Assert(err, qt.IsNil)

	aux, err := r.AuxiliaryIDs(1)
	c.Assert(err, qt.IsNil)
	c.Assert(aux, qt.DeepEquals, []uint32{2})

	typ, err := r.AuxiliaryType(2)
	c.Assert(err, qt.IsNil)
	c.Assert(typ, qt.Equals, "urn:mpeg:hevc:2015:auxid:1")
}

func TestFileInformationBrandsAndCompatibleList(t *testing.T) {
	c := qt.New(t)
	buf, _ := buildHEIF(t)
	r, err := Load(buf)
	c.Assert(err, qt.IsNil)

	mb, err := r.MajorBrand()
	c.Assert(err, qt.IsNil)
	c.Assert(mb.String(), qt.Equals, "mif1")

	brands, err := r.CompatibleBrands()
	c.Assert(err, qt.IsNil)
	c.Assert(len(brands) >= 1, qt.IsTrue)
}
