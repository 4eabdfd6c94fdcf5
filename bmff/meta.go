package bmff

// MetaBox is the parsed "meta" box: the root of the item model a HEIF file
// exposes (spec.md §4.2, §4.3). Unknown children (including "iloc"-adjacent
// boxes this reader does not recognize, and any "moov"-track-only boxes
// nested here by a non-conformant writer) are skipped rather than treated as
// fatal, per spec.md §4.2's "forward compatibility" rule.
type MetaBox struct {
	FullBoxHeader
	Handler          *HandlerBox
	PrimaryItem      *PrimaryItemBox
	ItemLocation     *ItemLocationBox
	ItemInfo         *ItemInfoBox
	ItemReference    *ItemReferenceBox
	ItemProperties   *ItemPropertiesBox
	DataInformation  *DataInformationBox
	ItemData         *ItemDataBox
	ItemProtection   *ItemProtectionBox
	GroupList        *GroupListBox
}

// ParseMetaBox parses a "meta" box body, dispatching each child box to its
// specific parser and skipping anything this reader does not recognize
// (spec.md §4.2, §4.3).
func ParseMetaBox(fb FullBoxHeader, body *Stream) (*MetaBox, error) {
	mb := &MetaBox{FullBoxHeader: fb}
	for !body.Eof() {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "meta", err)
		}
		switch h.Type {
		case TypeHdlr:
			childFB, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "meta", err)
			}
			v, err := ParseHandlerBox(childFB, childBody)
			if err != nil {
				return nil, err
			}
			mb.Handler = v
		case TypePitm:
			childFB, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "meta", err)
			}
			v, err := ParsePrimaryItemBox(childFB, childBody)
			if err != nil {
				return nil, err
			}
			mb.PrimaryItem = v
		case TypeIloc:
			childFB, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "meta", err)
			}
			v, err := ParseItemLocationBox(childFB, childBody)
			if err != nil {
				return nil, err
			}
			mb.ItemLocation = v
		case TypeIinf:
			childFB, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "meta", err)
			}
			v, err := ParseItemInfoBox(childFB, childBody)
			if err != nil {
				return nil, err
			}
			mb.ItemInfo = v
		case TypeIref:
			childFB, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "meta", err)
			}
			v, err := ParseItemReferenceBox(childFB, childBody)
			if err != nil {
				return nil, err
			}
			mb.ItemReference = v
		case TypeIprp:
			v, err := ParseItemPropertiesBox(childBody)
			if err != nil {
				return nil, err
			}
			mb.ItemProperties = v
		case TypeDinf:
			v, err := ParseDataInformationBox(childBody)
			if err != nil {
				return nil, err
			}
			mb.DataInformation = v
		case TypeIdat:
			v, err := ParseItemDataBox(childBody)
			if err != nil {
				return nil, err
			}
			mb.ItemData = v
		case TypeIpro:
			childFB, err := ReadFullBoxHeader(h, childBody)
			if err != nil {
				return nil, NewError(MalformedBox, "meta", err)
			}
			v, err := ParseItemProtectionBox(childFB, childBody)
			if err != nil {
				return nil, err
			}
			mb.ItemProtection = v
		case TypeGrpl:
			v, err := ParseGroupListBox(childBody)
			if err != nil {
				return nil, err
			}
			mb.GroupList = v
		default:
			// unrecognized child (e.g. "iloc"-unrelated extensions): skip.
		}
	}
	return mb, nil
}
