package bmff

// ItemReference is one SingleItemTypeReferenceBox entry: from_item_id refers
// to each of to_item_ids under the semantics named by Type (e.g. "thmb",
// "auxl", "cdsc", "dimg") (spec.md §3, §4.3).
type ItemReference struct {
	Type       FourCC
	FromItemID uint32
	ToItemIDs  []uint32
}

// ItemReferenceBox is the "iref" box: an ordered list of item references.
type ItemReferenceBox struct {
	FullBoxHeader
	References []ItemReference
}

// ParseItemReferenceBox parses an "iref" box body. Each child is itself a
// box whose type names the reference semantic and whose body is a
// SingleItemTypeReferenceBox: from_item_id (u16/u32 by version) followed by
// reference_count (u16) to_item_ids (spec.md §4.3).
func ParseItemReferenceBox(fb FullBoxHeader, body *Stream) (*ItemReferenceBox, error) {
	irb := &ItemReferenceBox{FullBoxHeader: fb}
	for !body.Eof() {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "iref", err)
		}

		var fromID uint32
		if fb.Version == 0 {
			id, err := childBody.ReadU16BE()
			if err != nil {
				return nil, NewError(MalformedBox, "iref", err)
			}
			fromID = uint32(id)
		} else {
			id, err := childBody.ReadU32BE()
			if err != nil {
				return nil, NewError(MalformedBox, "iref", err)
			}
			fromID = id
		}

		count, err := childBody.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iref", err)
		}

		ref := ItemReference{Type: h.Type, FromItemID: fromID}
		for i := uint16(0); i < count; i++ {
			var toID uint32
			if fb.Version == 0 {
				id, err := childBody.ReadU16BE()
				if err != nil {
					return nil, NewError(MalformedBox, "iref", err)
				}
				toID = uint32(id)
			} else {
				id, err := childBody.ReadU32BE()
				if err != nil {
					return nil, NewError(MalformedBox, "iref", err)
				}
				toID = id
			}
			ref.ToItemIDs = append(ref.ToItemIDs, toID)
		}
		irb.References = append(irb.References, ref)
	}
	return irb, nil
}

// ByFromID returns all references whose from_item_id matches id, in file
// order.
func (irb *ItemReferenceBox) ByFromID(id uint32) []ItemReference {
	var out []ItemReference
	for _, r := range irb.References {
		if r.FromItemID == id {
			out = append(out, r)
		}
	}
	return out
}

// ByFromIDAndType returns the single reference matching both id and typ, or
// nil. Per spec.md §3, at most one reference of a given type is expected per
// from_item_id for the semantics this reader interprets (e.g. "dimg", "thmb").
func (irb *ItemReferenceBox) ByFromIDAndType(id uint32, typ FourCC) *ItemReference {
	for i := range irb.References {
		if irb.References[i].FromItemID == id && irb.References[i].Type == typ {
			return &irb.References[i]
		}
	}
	return nil
}
