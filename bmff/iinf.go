package bmff

// ItemInfoEntry is the "infe" box: one item's static metadata (spec.md §3).
type ItemInfoEntry struct {
	FullBoxHeader
	ItemID          uint32
	ProtectionIndex uint16
	ItemType        FourCC
	Name            string
	ContentType     string // when ItemType == "mime"
	ContentEncoding string // when ItemType == "mime", optional
	URIType         string // when ItemType == "uri "
}

// ParseItemInfoEntry parses an "infe" box body. Versions 0/1 use a 16-bit
// item_id and a fixed item_type-less layout with an optional extension;
// versions >= 2 carry an explicit item_type and name, per spec.md §4.3 —
// the teacher's parser only implemented version 2 ("TODO: currently only
// parses Version 2 boxes" in bmff.go); this completes 0 and 1 too.
func ParseItemInfoEntry(fb FullBoxHeader, body *Stream) (*ItemInfoEntry, error) {
	ie := &ItemInfoEntry{FullBoxHeader: fb}

	switch {
	case fb.Version == 0 || fb.Version == 1:
		id, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "infe", err)
		}
		ie.ItemID = uint32(id)
		prot, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "infe", err)
		}
		ie.ProtectionIndex = prot
		if fb.Version == 1 && body.Remaining() >= 4 {
			extType, err := body.ReadFourCC()
			if err != nil {
				return nil, NewError(MalformedBox, "infe", err)
			}
			_ = extType // extension payload, format-specific and unused by this reader
		}
	default: // version >= 2
		var id uint32
		var err error
		if fb.Version == 2 {
			id16, e := body.ReadU16BE()
			err = e
			id = uint32(id16)
		} else {
			id, err = body.ReadU32BE()
		}
		if err != nil {
			return nil, NewError(MalformedBox, "infe", err)
		}
		ie.ItemID = id

		prot, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "infe", err)
		}
		ie.ProtectionIndex = prot

		itemType, err := body.ReadFourCC()
		if err != nil {
			return nil, NewError(MalformedBox, "infe", err)
		}
		ie.ItemType = itemType

		name, err := body.ReadCString()
		if err != nil {
			return nil, NewError(MalformedBox, "infe", err)
		}
		ie.Name = name

		switch itemType {
		case ItemTypeMime:
			ct, err := body.ReadCString()
			if err != nil {
				return nil, NewError(MalformedBox, "infe", err)
			}
			ie.ContentType = ct
			if !body.Eof() {
				enc, err := body.ReadCString()
				if err != nil {
					return nil, NewError(MalformedBox, "infe", err)
				}
				ie.ContentEncoding = enc
			}
		case ItemTypeURI:
			uri, err := body.ReadCString()
			if err != nil {
				return nil, NewError(MalformedBox, "infe", err)
			}
			ie.URIType = uri
		}
	}
	return ie, nil
}

// IsHidden reports whether the item_hidden flag bit is set (spec.md §4.5).
func (ie *ItemInfoEntry) IsHidden() bool { return ie.Flags&1 != 0 }

// ItemInfoBox is the "iinf" box: a list of ItemInfoEntry.
type ItemInfoBox struct {
	FullBoxHeader
	Entries []*ItemInfoEntry
}

// ParseItemInfoBox parses an "iinf" box body. entry_count is u16 for
// version 0, u32 otherwise (spec.md §4.3). Each entry is itself a full box
// ("infe"); unknown child types are skipped (spec.md §4.2).
func ParseItemInfoBox(fb FullBoxHeader, body *Stream) (*ItemInfoBox, error) {
	ib := &ItemInfoBox{FullBoxHeader: fb}
	var count uint32
	if fb.Version == 0 {
		c, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iinf", err)
		}
		count = uint32(c)
	} else {
		c, err := body.ReadU32BE()
		if err != nil {
			return nil, NewError(MalformedBox, "iinf", err)
		}
		count = c
	}

	for i := uint32(0); i < count && !body.Eof(); i++ {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "iinf", err)
		}
		if h.Type != TypeInfe {
			continue // unknown child, skip (spec.md §4.2)
		}
		childFB, err := ReadFullBoxHeader(h, childBody)
		if err != nil {
			return nil, NewError(MalformedBox, "iinf", err)
		}
		entry, err := ParseItemInfoEntry(childFB, childBody)
		if err != nil {
			return nil, err
		}
		ib.Entries = append(ib.Entries, entry)
	}
	return ib, nil
}

// ByID returns the entry with the given item_id, or nil.
func (ib *ItemInfoBox) ByID(id uint32) *ItemInfoEntry {
	for _, e := range ib.Entries {
		if e.ItemID == id {
			return e
		}
	}
	return nil
}
