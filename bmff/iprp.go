package bmff

// ItemProperty is a single entry of an ItemPropertyContainerBox ("ipco").
// Structural properties ("ispe", "hvcC", "avcC", "irot", "imir") are parsed
// into their own Go types; every other type is retained as a Raw property so
// insertion order and byte content survive even for property kinds this
// reader does not interpret (spec.md §4.3, §4.4).
type ItemProperty struct {
	Type FourCC
	// Parsed holds one of *ImageSpatialExtentsProperty, *HEVCConfigurationBox,
	// *AVCConfigurationBox, *RawProperty, depending on Type.
	Parsed interface{}
}

// RawProperty is the fallback representation for any property type this
// reader does not parse structurally (e.g. "colr", "pasp", "pixi", "rloc",
// "auxC", "clap", "jpgC", "free").
type RawProperty struct {
	Type FourCC
	Body []byte
}

// ImageSpatialExtentsProperty is the "ispe" property: an item's display
// width/height, independent of any coded image's internal dimensions
// (spec.md §4.4).
type ImageSpatialExtentsProperty struct {
	Width, Height uint32
}

func parseISPE(body *Stream) (*ImageSpatialExtentsProperty, error) {
	w, err := body.ReadU32BE()
	if err != nil {
		return nil, NewError(MalformedBox, "ispe", err)
	}
	h, err := body.ReadU32BE()
	if err != nil {
		return nil, NewError(MalformedBox, "ispe", err)
	}
	return &ImageSpatialExtentsProperty{Width: w, Height: h}, nil
}

// ImageRotationProperty is the "irot" property: a clockwise rotation
// expressed in quarter turns (0..3), applied when rendering the item.
type ImageRotationProperty struct {
	QuarterTurns uint8
}

func parseIROT(body *Stream) (*ImageRotationProperty, error) {
	b, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "irot", err)
	}
	return &ImageRotationProperty{QuarterTurns: b & 0x03}, nil
}

// ItemPropertyContainerBox is the "ipco" box: an ordered, 1-indexed (per
// spec.md §4.4) list of properties referenced by ItemPropertyAssociation
// entries.
type ItemPropertyContainerBox struct {
	Properties []ItemProperty
}

// ParseItemPropertyContainerBox parses an "ipco" box body.
func ParseItemPropertyContainerBox(body *Stream) (*ItemPropertyContainerBox, error) {
	cb := &ItemPropertyContainerBox{}
	for !body.Eof() {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "ipco", err)
		}
		prop := ItemProperty{Type: h.Type}
		switch h.Type {
		case TypeIspe:
			p, err := parseISPE(childBody)
			if err != nil {
				return nil, err
			}
			prop.Parsed = p
		case TypeIrot:
			p, err := parseIROT(childBody)
			if err != nil {
				return nil, err
			}
			prop.Parsed = p
		case TypeHvcC:
			p, err := ParseHEVCConfigurationBox(childBody)
			if err != nil {
				return nil, err
			}
			prop.Parsed = p
		case TypeAvcC:
			p, err := ParseAVCConfigurationBox(childBody)
			if err != nil {
				return nil, err
			}
			prop.Parsed = p
		default:
			raw, err := childBody.ReadBytes(childBody.Remaining())
			if err != nil {
				return nil, NewError(MalformedBox, "ipco", err)
			}
			prop.Parsed = &RawProperty{Type: h.Type, Body: raw}
		}
		cb.Properties = append(cb.Properties, prop)
	}
	return cb, nil
}

// PropertyAssociation pairs a 1-based index into ItemPropertyContainerBox
// with whether the property is marked "essential" for that item (spec.md
// §4.4: a reader that does not recognize an essential property must treat
// the item as unusable; this package surfaces the bit, and neither it nor
// the heif facade enforces it).
type PropertyAssociation struct {
	Index     uint16 // 1-based
	Essential bool
}

// ItemPropertyAssociation is one "ipma" entry: the properties bound to a
// single item_id, in application order (spec.md §4.4).
type ItemPropertyAssociation struct {
	ItemID       uint32
	Associations []PropertyAssociation
}

// ItemPropertyAssociationBox is the "ipma" box.
type ItemPropertyAssociationBox struct {
	FullBoxHeader
	Entries []ItemPropertyAssociation
}

// ParseItemPropertyAssociationBox parses an "ipma" box body. Index width is
// 7 bits normally, 15 bits when flags bit 0 is set; item_id width is u16 for
// version 0, u32 otherwise (spec.md §4.4).
func ParseItemPropertyAssociationBox(fb FullBoxHeader, body *Stream) (*ItemPropertyAssociationBox, error) {
	pab := &ItemPropertyAssociationBox{FullBoxHeader: fb}
	largeIndex := fb.Flags&1 != 0

	count, err := body.ReadU32BE()
	if err != nil {
		return nil, NewError(MalformedBox, "ipma", err)
	}

	for i := uint32(0); i < count; i++ {
		var itemID uint32
		if fb.Version == 0 {
			id, err := body.ReadU16BE()
			if err != nil {
				return nil, NewError(MalformedBox, "ipma", err)
			}
			itemID = uint32(id)
		} else {
			id, err := body.ReadU32BE()
			if err != nil {
				return nil, NewError(MalformedBox, "ipma", err)
			}
			itemID = id
		}

		assocCount, err := body.ReadU8()
		if err != nil {
			return nil, NewError(MalformedBox, "ipma", err)
		}

		entry := ItemPropertyAssociation{ItemID: itemID}
		for j := uint8(0); j < assocCount; j++ {
			if largeIndex {
				v, err := body.ReadBits(16)
				if err != nil {
					return nil, NewError(MalformedBox, "ipma", err)
				}
				entry.Associations = append(entry.Associations, PropertyAssociation{
					Essential: v&0x8000 != 0,
					Index:     uint16(v & 0x7FFF),
				})
			} else {
				v, err := body.ReadBits(8)
				if err != nil {
					return nil, NewError(MalformedBox, "ipma", err)
				}
				entry.Associations = append(entry.Associations, PropertyAssociation{
					Essential: v&0x80 != 0,
					Index:     uint16(v & 0x7F),
				})
			}
		}
		pab.Entries = append(pab.Entries, entry)
	}
	return pab, nil
}

// ByItemID returns the association entry for item_id, or nil.
func (pab *ItemPropertyAssociationBox) ByItemID(id uint32) *ItemPropertyAssociation {
	for i := range pab.Entries {
		if pab.Entries[i].ItemID == id {
			return &pab.Entries[i]
		}
	}
	return nil
}

// ItemPropertiesBox is the "iprp" box: one container plus one association
// list (spec.md §4.4).
type ItemPropertiesBox struct {
	Container    *ItemPropertyContainerBox
	Associations *ItemPropertyAssociationBox
}

// ParseItemPropertiesBox parses an "iprp" box body.
func ParseItemPropertiesBox(body *Stream) (*ItemPropertiesBox, error) {
	ib := &ItemPropertiesBox{}
	for !body.Eof() {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "iprp", err)
		}
		switch h.Type {
		case TypeIpco:
			cb, err := ParseItemPropertyContainerBox(childBody)
			if err != nil {
				return nil, err
			}
			ib.Container = cb
		case TypeIpma:
			fb, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "iprp", err)
			}
			pab, err := ParseItemPropertyAssociationBox(fb, childBody)
			if err != nil {
				return nil, err
			}
			if ib.Associations == nil {
				ib.Associations = pab
			} else {
				ib.Associations.Entries = append(ib.Associations.Entries, pab.Entries...)
			}
		}
		// unknown children skipped (spec.md §4.2)
	}
	return ib, nil
}

// PropertiesForItem resolves the ordered properties bound to item_id,
// looking up each association index into the container (spec.md §4.4). An
// out-of-range index is skipped rather than treated as fatal, since a
// malformed index affects only that one association.
func (ib *ItemPropertiesBox) PropertiesForItem(id uint32) []ItemProperty {
	if ib.Container == nil || ib.Associations == nil {
		return nil
	}
	assoc := ib.Associations.ByItemID(id)
	if assoc == nil {
		return nil
	}
	var out []ItemProperty
	for _, a := range assoc.Associations {
		idx := int(a.Index) - 1
		if idx < 0 || idx >= len(ib.Container.Properties) {
			continue
		}
		out = append(out, ib.Container.Properties[idx])
	}
	return out
}
