package bmff

// ItemDataBox is the "idat" box: the full body is retained as opaque bytes,
// addressed by item locations whose construction_method is idat_offset
// (spec.md §3, §4.3).
type ItemDataBox struct {
	Data []byte
}

// ParseItemDataBox parses an "idat" box body.
func ParseItemDataBox(body *Stream) (*ItemDataBox, error) {
	data, err := body.ReadBytes(body.Remaining())
	if err != nil {
		return nil, NewError(MalformedBox, "idat", err)
	}
	return &ItemDataBox{Data: data}, nil
}

// ItemProtectionBox is the "ipro" box. Its children are retained as opaque
// bytes (spec.md §4.3): this parser does not enforce or interpret any
// protection scheme, it only lets the reader facade know protection_index
// values are in play so it can refuse payload extraction (spec.md §1 DRM
// non-goal).
type ItemProtectionBox struct {
	FullBoxHeader
	ProtectionCount uint16
	Entries         [][]byte // opaque ProtectionSchemeInfoBox ("sinf") bodies
}

// ParseItemProtectionBox parses an "ipro" box body.
func ParseItemProtectionBox(fb FullBoxHeader, body *Stream) (*ItemProtectionBox, error) {
	ib := &ItemProtectionBox{FullBoxHeader: fb}
	count, err := body.ReadU16BE()
	if err != nil {
		return nil, NewError(MalformedBox, "ipro", err)
	}
	ib.ProtectionCount = count
	for i := 0; i < int(count); i++ {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "ipro", err)
		}
		raw, err := childBody.ReadBytes(childBody.Remaining())
		if err != nil {
			return nil, NewError(MalformedBox, "ipro", err)
		}
		_ = h
		ib.Entries = append(ib.Entries, raw)
	}
	return ib, nil
}
