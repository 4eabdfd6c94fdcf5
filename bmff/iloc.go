package bmff

// ConstructionMethod selects how an item's bytes are located (spec.md §3).
type ConstructionMethod uint8

const (
	ConstructionFileOffset ConstructionMethod = 0
	ConstructionIdatOffset ConstructionMethod = 1
	ConstructionItemOffset ConstructionMethod = 2
)

// Extent is one (offset, length) run within an item's location, optionally
// indexed when the construction method is item_offset (spec.md §3).
type Extent struct {
	Index  uint64
	Offset uint64
	Length uint64
}

// ItemLocation is one entry of an "iloc" box (spec.md §3).
type ItemLocation struct {
	ItemID             uint32
	ConstructionMethod ConstructionMethod
	DataReferenceIndex uint16
	BaseOffset         uint64
	Extents            []Extent
}

// ItemLocationBox is the "iloc" box. Field widths (offset_size, length_size,
// base_offset_size, index_size) are carried per-box and apply to every
// entry (spec.md §3).
type ItemLocationBox struct {
	FullBoxHeader
	OffsetSize     uint8
	LengthSize     uint8
	BaseOffsetSize uint8
	IndexSize      uint8
	Items          []ItemLocation
}

// ParseItemLocationBox parses an "iloc" box body per spec.md §4.3. This
// completes the teacher's parseItemLocationBox, which only handled
// base_offset_size of 0/4/8 via two raw readUint32 calls (effectively never
// reading a proper big-endian 64-bit value) and never read
// construction_method or extent_index at all.
func ParseItemLocationBox(fb FullBoxHeader, body *Stream) (*ItemLocationBox, error) {
	ilb := &ItemLocationBox{FullBoxHeader: fb}

	sizes, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "iloc", err)
	}
	ilb.OffsetSize = sizes >> 4
	ilb.LengthSize = sizes & 0x0F

	sizes2, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "iloc", err)
	}
	ilb.BaseOffsetSize = sizes2 >> 4
	if fb.Version == 1 || fb.Version == 2 {
		ilb.IndexSize = sizes2 & 0x0F
	} else {
		// reserved 4 bits, present but unused for version 0
	}

	var itemCount uint32
	if fb.Version < 2 {
		c, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iloc", err)
		}
		itemCount = uint32(c)
	} else {
		c, err := body.ReadU32BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iloc", err)
		}
		itemCount = c
	}

	for i := uint32(0); i < itemCount; i++ {
		var loc ItemLocation

		if fb.Version < 2 {
			id, err := body.ReadU16BE()
			if err != nil {
				return nil, NewError(MalformedBox, "iloc", err)
			}
			loc.ItemID = uint32(id)
		} else {
			id, err := body.ReadU32BE()
			if err != nil {
				return nil, NewError(MalformedBox, "iloc", err)
			}
			loc.ItemID = id
		}

		if fb.Version == 1 || fb.Version == 2 {
			cm, err := body.ReadBits(16)
			if err != nil {
				return nil, NewError(MalformedBox, "iloc", err)
			}
			// 12-bit reserved, 4-bit construction method
			loc.ConstructionMethod = ConstructionMethod(cm & 0x0F)
		}

		dataRefIdx, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iloc", err)
		}
		loc.DataReferenceIndex = dataRefIdx

		baseOffset, err := body.ReadUintN(ilb.BaseOffsetSize)
		if err != nil {
			return nil, NewError(MalformedBox, "iloc", err)
		}
		loc.BaseOffset = baseOffset

		extentCount, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iloc", err)
		}
		if extentCount == 0 {
			return nil, NewError(InvalidFormat, "iloc", nil)
		}

		for j := uint16(0); j < extentCount; j++ {
			var ext Extent
			if (fb.Version == 1 || fb.Version == 2) && ilb.IndexSize > 0 {
				idx, err := body.ReadUintN(ilb.IndexSize)
				if err != nil {
					return nil, NewError(MalformedBox, "iloc", err)
				}
				ext.Index = idx
			}
			off, err := body.ReadUintN(ilb.OffsetSize)
			if err != nil {
				return nil, NewError(MalformedBox, "iloc", err)
			}
			ext.Offset = off

			length, err := body.ReadUintN(ilb.LengthSize)
			if err != nil {
				return nil, NewError(MalformedBox, "iloc", err)
			}
			ext.Length = length

			loc.Extents = append(loc.Extents, ext)
		}

		ilb.Items = append(ilb.Items, loc)
	}
	return ilb, nil
}

// ByID returns the location entry for item_id, or nil.
func (ilb *ItemLocationBox) ByID(id uint32) *ItemLocation {
	for i := range ilb.Items {
		if ilb.Items[i].ItemID == id {
			return &ilb.Items[i]
		}
	}
	return nil
}
