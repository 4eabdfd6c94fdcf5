package bmff

// DataEntry is one child of a "dref" box: either a "url " or "urn "
// location entry. Only the flags (self-contained bit) and raw body are
// retained; the reader never needs to resolve external data references
// since it only supports file_offset/idat_offset/item_offset construction
// methods (spec.md §4.3, §4.7).
type DataEntry struct {
	Type  FourCC
	Flags uint32
	Body  []byte
}

// DataReferenceBox is the "dref" box.
type DataReferenceBox struct {
	FullBoxHeader
	Entries []DataEntry
}

// ParseDataReferenceBox parses a "dref" box body. Any child type other than
// "url " or "urn " fails with UnknownDataEntry (spec.md §4.3).
func ParseDataReferenceBox(fb FullBoxHeader, body *Stream) (*DataReferenceBox, error) {
	db := &DataReferenceBox{FullBoxHeader: fb}
	count, err := body.ReadU32BE()
	if err != nil {
		return nil, NewError(MalformedBox, "dref", err)
	}
	for i := uint32(0); i < count; i++ {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "dref", err)
		}
		if h.Type != URLEntryType && h.Type != URNEntryType {
			return nil, NewError(UnknownDataEntry, "dref", nil)
		}
		childFB, err := ReadFullBoxHeader(h, childBody)
		if err != nil {
			return nil, NewError(MalformedBox, "dref", err)
		}
		raw, err := childBody.ReadBytes(childBody.Remaining())
		if err != nil {
			return nil, NewError(MalformedBox, "dref", err)
		}
		db.Entries = append(db.Entries, DataEntry{Type: h.Type, Flags: childFB.Flags, Body: raw})
	}
	return db, nil
}

// DataInformationBox is the "dinf" box: contains a single "dref" child.
type DataInformationBox struct {
	DataReference *DataReferenceBox
}

// ParseDataInformationBox parses a "dinf" box body.
func ParseDataInformationBox(body *Stream) (*DataInformationBox, error) {
	db := &DataInformationBox{}
	for !body.Eof() {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "dinf", err)
		}
		if h.Type == TypeDref {
			fb, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "dinf", err)
			}
			dref, err := ParseDataReferenceBox(fb, childBody)
			if err != nil {
				return nil, err
			}
			db.DataReference = dref
		}
		// unknown children inside dinf are skipped (spec.md §4.2)
	}
	return db, nil
}
