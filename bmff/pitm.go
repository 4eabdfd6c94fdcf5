package bmff

// PrimaryItemBox is the "pitm" box. Version 0 stores a 16-bit item ID;
// version >= 1 stores a 32-bit one (spec.md §8).
type PrimaryItemBox struct {
	FullBoxHeader
	ItemID uint32
}

// ParsePrimaryItemBox parses a "pitm" box body.
func ParsePrimaryItemBox(fb FullBoxHeader, body *Stream) (*PrimaryItemBox, error) {
	pb := &PrimaryItemBox{FullBoxHeader: fb}
	if fb.Version == 0 {
		id, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "pitm", err)
		}
		pb.ItemID = uint32(id)
	} else {
		id, err := body.ReadU32BE()
		if err != nil {
			return nil, NewError(MalformedBox, "pitm", err)
		}
		pb.ItemID = id
	}
	return pb, nil
}
