package heif

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/heifcore/heif/bmff"
)

// DecodeEXIF decodes itemID's payload as EXIF metadata. itemID must name an
// item of item_type "Exif" (spec.md §4.5's is-exif-item classification).
// The leading 4 bytes are exif_tiff_header_offset (ISO/IEC 23008-12 Annex
// A, invariably 0 in practice since the TIFF header follows immediately),
// grounded on the teacher's File.EXIF/ExtractExif which skip the same 4
// bytes before handing the rest to goexif.
func (r *Reader) DecodeEXIF(itemID uint32) (*exif.Exif, error) {
	r.mu.Lock()
	entry, err := r.itemByIDLocked(itemID)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if entry.Type != bmff.ItemTypeExif {
		return nil, newError(InvalidItemID, "DecodeEXIF", nil)
	}

	raw, err := r.GetItemData(itemID, false)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, newError(MalformedBox, "DecodeEXIF", nil)
	}
	return exif.Decode(bytes.NewReader(raw[4:]))
}
