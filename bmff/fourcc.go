// Package bmff reads ISO Base Media File Format boxes, as used by HEIF.
//
// This is not a generic BMFF reader; it implements the box types needed to
// parse HEIF still-image containers, as required by the github.com/heifcore/heif
// package. It makes no API compatibility promises.
package bmff

// FourCC is a 4-byte ASCII box/brand/handler/reference/grouping/item type tag.
type FourCC [4]byte

// NewFourCC builds a FourCC from a 4-character ASCII string. It panics if s
// is not exactly 4 bytes long, mirroring the teacher's boxType helper: this
// is only ever called with compile-time literals.
func NewFourCC(s string) FourCC {
	if len(s) != 4 {
		panic("bmff: FourCC must be exactly 4 bytes: " + s)
	}
	return FourCC{s[0], s[1], s[2], s[3]}
}

func (f FourCC) String() string { return string(f[:]) }

// Equal reports whether f equals the ASCII string s.
func (f FourCC) Equal(s string) bool {
	return len(s) == 4 && s[0] == f[0] && s[1] == f[1] && s[2] == f[2] && s[3] == f[3]
}

// Well-known top-level and meta-box child box types.
var (
	TypeFtyp = NewFourCC("ftyp")
	TypeMeta = NewFourCC("meta")
	TypeMoov = NewFourCC("moov")
	TypeMdat = NewFourCC("mdat")
	TypeFree = NewFourCC("free")
	TypeSkip = NewFourCC("skip")
	TypeUUID = NewFourCC("uuid")

	TypeHdlr = NewFourCC("hdlr")
	TypePitm = NewFourCC("pitm")
	TypeIloc = NewFourCC("iloc")
	TypeIinf = NewFourCC("iinf")
	TypeInfe = NewFourCC("infe")
	TypeIref = NewFourCC("iref")
	TypeIprp = NewFourCC("iprp")
	TypeIpco = NewFourCC("ipco")
	TypeIpma = NewFourCC("ipma")
	TypeGrpl = NewFourCC("grpl")
	TypeDinf = NewFourCC("dinf")
	TypeDref = NewFourCC("dref")
	TypeIdat = NewFourCC("idat")
	TypeIpro = NewFourCC("ipro")
	TypeSinf = NewFourCC("sinf")

	TypeIspe = NewFourCC("ispe")
	TypeHvcC = NewFourCC("hvcC")
	TypeAvcC = NewFourCC("avcC")
	TypeColr = NewFourCC("colr")
	TypePasp = NewFourCC("pasp")
	TypePixi = NewFourCC("pixi")
	TypeRloc = NewFourCC("rloc")
	TypeAuxC = NewFourCC("auxC")
	TypeClap = NewFourCC("clap")
	TypeIrot = NewFourCC("irot")
	TypeImir = NewFourCC("imir")
	TypeJpgC = NewFourCC("jpgC")

	// Item types recognized as coded images by feature derivation (spec.md §4.5).
	ItemTypeAVC1 = NewFourCC("avc1")
	ItemTypeHVC1 = NewFourCC("hvc1")
	ItemTypeGrid = NewFourCC("grid")
	ItemTypeIovl = NewFourCC("iovl")
	ItemTypeIden = NewFourCC("iden")
	ItemTypeJpeg = NewFourCC("jpeg")

	ItemTypeExif = NewFourCC("Exif")
	ItemTypeMime = NewFourCC("mime")
	ItemTypeURI  = NewFourCC("uri ")
	ItemTypeHvt1 = NewFourCC("hvt1")

	URLEntryType = NewFourCC("url ")
	URNEntryType = NewFourCC("urn ")
)

// IsImageItemType reports whether t is one of the image-type items
// recognized by feature derivation (spec.md §4.5).
func IsImageItemType(t FourCC) bool {
	switch t {
	case ItemTypeAVC1, ItemTypeHVC1, ItemTypeGrid, ItemTypeIovl, ItemTypeIden, ItemTypeJpeg:
		return true
	default:
		return false
	}
}
