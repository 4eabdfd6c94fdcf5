package heif

import (
	"encoding/binary"
	"errors"

	"github.com/heifcore/heif/bmff"
)

var errItemTooLarge = errors.New("heif: item payload exceeds configured max item size")

// Item is a queryable summary of one iinf entry plus its derived features.
type Item struct {
	ID              uint32
	Type            bmff.FourCC
	Name            string
	ProtectionIndex uint16
	Features        ItemFeature
}

// ItemByID returns the item identified by id.
func (r *Reader) ItemByID(id uint32) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("ItemByID"); err != nil {
		return nil, err
	}
	return r.itemByIDLocked(id)
}

func (r *Reader) itemByIDLocked(id uint32) (*Item, error) {
	if r.meta == nil || r.meta.ItemInfo == nil {
		return nil, newError(InvalidItemID, "ItemByID", nil)
	}
	entry := r.meta.ItemInfo.ByID(id)
	if entry == nil {
		return nil, newError(InvalidItemID, "ItemByID", nil)
	}
	return &Item{
		ID:              entry.ItemID,
		Type:            entry.ItemType,
		Name:            entry.Name,
		ProtectionIndex: entry.ProtectionIndex,
		Features:        r.itemFeatures[entry.ItemID],
	}, nil
}

var refTypeForItemOffset = bmff.NewFourCC("iloc")

// subItemIDs returns the item ids an item_offset-constructed item composes
// from, via the "iloc"-typed iref from this item (spec.md §4.7).
func (r *Reader) subItemIDs(itemID uint32) []uint32 {
	if r.meta.ItemReference == nil {
		return nil
	}
	ref := r.meta.ItemReference.ByFromIDAndType(itemID, refTypeForItemOffset)
	if ref == nil {
		return nil
	}
	return ref.ToItemIDs
}

// GetItemLength computes the logical byte length of itemID, per spec.md
// §4.7: file_offset/idat_offset sum extent lengths directly; item_offset
// recurses into composed sub-items, using a visited set to fail fast on
// cycles.
func (r *Reader) GetItemLength(itemID uint32) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("GetItemLength"); err != nil {
		return 0, err
	}
	return r.itemLength(itemID, make(map[uint32]bool))
}

func (r *Reader) itemLength(itemID uint32, visited map[uint32]bool) (uint64, error) {
	if visited[itemID] {
		return 0, newError(CircularReference, "GetItemLength", nil)
	}
	visited[itemID] = true
	defer delete(visited, itemID)

	if r.meta == nil || r.meta.ItemLocation == nil {
		return 0, newError(InvalidItemID, "GetItemLength", nil)
	}
	loc := r.meta.ItemLocation.ByID(itemID)
	if loc == nil {
		return 0, newError(InvalidItemID, "GetItemLength", nil)
	}

	if loc.ConstructionMethod != bmff.ConstructionItemOffset {
		var total uint64
		for _, ext := range loc.Extents {
			total += ext.Length
		}
		return total, nil
	}

	subIDs := r.subItemIDs(itemID)
	indexed := r.meta.ItemLocation.IndexSize != 0
	var total uint64
	for _, ext := range loc.Extents {
		var subIdx int
		if indexed {
			subIdx = int(ext.Index) - 1
		} else {
			subIdx = 1
		}
		if subIdx < 0 || subIdx >= len(subIDs) {
			return 0, newError(InvalidItemID, "GetItemLength", nil)
		}
		subLen, err := r.itemLength(subIDs[subIdx], visited)
		if err != nil {
			return 0, err
		}
		length := ext.Length
		if length == 0 {
			length = subLen
		}
		total += length
	}
	return total, nil
}

// GetItemData materializes itemID's payload. If headers is true and the
// item is an unprotected hvc1 image, the length-prefixed NAL units are
// rewritten in place to Annex-B start codes (spec.md §4.7). Protected items
// are always refused (spec.md §1 non-goals: DRM is out of scope).
func (r *Reader) GetItemData(itemID uint32, headers bool) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("GetItemData"); err != nil {
		return nil, err
	}
	return r.getItemData(itemID, headers)
}

func (r *Reader) getItemData(itemID uint32, headers bool) ([]byte, error) {
	entry := r.meta.ItemInfo.ByID(itemID)
	if entry == nil {
		return nil, newError(InvalidItemID, "GetItemData", nil)
	}
	if entry.ProtectionIndex > 0 {
		return nil, newError(ProtectedItem, "GetItemData", nil)
	}

	loc := r.meta.ItemLocation.ByID(itemID)
	if loc == nil {
		return nil, newError(InvalidItemID, "GetItemData", nil)
	}

	length, err := r.itemLength(itemID, make(map[uint32]bool))
	if err != nil {
		return nil, err
	}
	if int64(length) > r.maxItemSize {
		return nil, newError(Io, "GetItemData", errItemTooLarge)
	}

	var data []byte
	switch loc.ConstructionMethod {
	case bmff.ConstructionItemOffset:
		return nil, newError(Unsupported, "GetItemData", nil)
	case bmff.ConstructionIdatOffset:
		if r.meta.ItemData == nil {
			return nil, newError(MalformedBox, "GetItemData", nil)
		}
		data = make([]byte, 0, length)
		for _, ext := range loc.Extents {
			start := loc.BaseOffset + ext.Offset
			end := start + ext.Length
			if end > uint64(len(r.meta.ItemData.Data)) {
				return nil, newError(MalformedBox, "GetItemData", nil)
			}
			data = append(data, r.meta.ItemData.Data[start:end]...)
		}
	default: // file_offset, or version 0
		data = make([]byte, 0, length)
		for _, ext := range loc.Extents {
			start := loc.BaseOffset + ext.Offset
			end := start + ext.Length
			if end > uint64(len(r.buf)) {
				return nil, newError(MalformedBox, "GetItemData", nil)
			}
			data = append(data, r.buf[start:end]...)
		}
	}

	if !headers {
		return data, nil
	}

	codeType := r.decoderCodeType[itemID]
	if !codeType.Equal("hvc1") {
		return nil, newError(UnsupportedCodeType, "GetItemData", nil)
	}
	if err := rewriteLengthPrefixToStartCode(data); err != nil {
		return nil, err
	}
	return data, nil
}

// rewriteLengthPrefixToStartCode overwrites each 4-byte big-endian NAL
// length field in buf with the Annex-B start code 00 00 00 01, in place
// (spec.md §4.7, S5). The payload is a concatenation of
// {length:u32be, nal_bytes} records.
func rewriteLengthPrefixToStartCode(buf []byte) error {
	pos := 0
	for pos < len(buf) {
		if pos+4 > len(buf) {
			return newError(MalformedBox, "rewriteLengthPrefixToStartCode", nil)
		}
		naluLen := binary.BigEndian.Uint32(buf[pos : pos+4])
		buf[pos], buf[pos+1], buf[pos+2], buf[pos+3] = 0x00, 0x00, 0x00, 0x01
		pos += 4
		if uint64(pos)+uint64(naluLen) > uint64(len(buf)) {
			return newError(MalformedBox, "rewriteLengthPrefixToStartCode", nil)
		}
		pos += int(naluLen)
	}
	return nil
}

var startCode = []byte{0x00, 0x00, 0x00, 0x01}

// GetItemDataWithDecoderParameters returns the HEVC Annex-B byte stream for
// itemID: each of its VPS/SPS/PPS parameter sets (in that order, each
// start-code prefixed) followed by the rewritten item payload (spec.md
// §4.7, §6). Only hvc1 items are supported; avc1 fails with
// UnsupportedCodeType since avcC byte-stream rewriting is not implemented
// (spec.md §9).
func (r *Reader) GetItemDataWithDecoderParameters(itemID uint32) ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("GetItemDataWithDecoderParameters"); err != nil {
		return nil, err
	}

	entry := r.meta.ItemInfo.ByID(itemID)
	if entry == nil {
		return nil, newError(InvalidItemID, "GetItemDataWithDecoderParameters", nil)
	}
	if entry.ProtectionIndex > 0 {
		return nil, newError(ProtectedItem, "GetItemDataWithDecoderParameters", nil)
	}

	codeType, ok := r.decoderCodeType[itemID]
	if !ok || !codeType.Equal("hvc1") {
		return nil, newError(UnsupportedCodeType, "GetItemDataWithDecoderParameters", nil)
	}

	paramSets := r.paramSetMap[r.imageToParamSet[itemID]]
	var out [][]byte
	for _, pt := range []ParamType{HevcVPS, HevcSPS, HevcPPS} {
		b, ok := paramSets[pt]
		if !ok {
			continue
		}
		prefixed := make([]byte, 0, len(startCode)+len(b))
		prefixed = append(prefixed, startCode...)
		prefixed = append(prefixed, b...)
		out = append(out, prefixed)
	}

	payload, err := r.getItemData(itemID, true)
	if err != nil {
		return nil, err
	}
	out = append(out, payload)
	return out, nil
}
