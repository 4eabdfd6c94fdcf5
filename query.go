package heif

import "github.com/heifcore/heif/bmff"

// FileInformation summarizes a loaded file's top-level brand and item
// catalogue (spec.md §4.9).
type FileInformation struct {
	MajorBrand       bmff.FourCC
	MinorVersion     uint32
	CompatibleBrands []bmff.FourCC
	PrimaryItemID    uint32
	HasPrimaryItem   bool
	MasterImageIDs   []uint32
	MetaFeatures     MetaBoxFeature
}

// FileInformation returns a summary of the loaded file.
func (r *Reader) FileInformation() (FileInformation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("FileInformation"); err != nil {
		return FileInformation{}, err
	}
	info := FileInformation{
		MasterImageIDs: append([]uint32(nil), r.masterImageIDs...),
		MetaFeatures:   r.metaFeature,
	}
	if r.ftyp != nil {
		info.MajorBrand = r.ftyp.MajorBrand
		info.MinorVersion = r.ftyp.MinorVersion
		info.CompatibleBrands = append([]bmff.FourCC(nil), r.ftyp.CompatibleBrands...)
	}
	if r.meta != nil && r.meta.PrimaryItem != nil {
		info.PrimaryItemID = r.meta.PrimaryItem.ItemID
		info.HasPrimaryItem = true
	}
	return info, nil
}

// MajorBrand returns the file's major brand.
func (r *Reader) MajorBrand() (bmff.FourCC, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("MajorBrand"); err != nil {
		return bmff.FourCC{}, err
	}
	return r.ftyp.MajorBrand, nil
}

// MinorVersion returns the file's minor version.
func (r *Reader) MinorVersion() (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("MinorVersion"); err != nil {
		return 0, err
	}
	return r.ftyp.MinorVersion, nil
}

// CompatibleBrands returns the file's compatible brand list.
func (r *Reader) CompatibleBrands() ([]bmff.FourCC, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("CompatibleBrands"); err != nil {
		return nil, err
	}
	return append([]bmff.FourCC(nil), r.ftyp.CompatibleBrands...), nil
}

func (r *Reader) findISPE(itemID uint32) *bmff.ImageSpatialExtentsProperty {
	if r.meta == nil || r.meta.ItemProperties == nil {
		return nil
	}
	for _, prop := range r.meta.ItemProperties.PropertiesForItem(itemID) {
		if v, ok := prop.Parsed.(*bmff.ImageSpatialExtentsProperty); ok {
			return v
		}
	}
	return nil
}

// Width returns itemID's display width, from its bound "ispe" property.
func (r *Reader) Width(itemID uint32) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("Width"); err != nil {
		return 0, err
	}
	ispe := r.findISPE(itemID)
	if ispe == nil {
		return 0, newError(InvalidItemID, "Width", nil)
	}
	return ispe.Width, nil
}

// Height returns itemID's display height, from its bound "ispe" property.
func (r *Reader) Height(itemID uint32) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("Height"); err != nil {
		return 0, err
	}
	ispe := r.findISPE(itemID)
	if ispe == nil {
		return 0, newError(InvalidItemID, "Height", nil)
	}
	return ispe.Height, nil
}

// ItemListByType returns every item whose item_type equals itemType, in
// iinf order.
func (r *Reader) ItemListByType(itemType bmff.FourCC) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("ItemListByType"); err != nil {
		return nil, err
	}
	if r.meta == nil || r.meta.ItemInfo == nil {
		return nil, nil
	}
	var out []*Item
	for _, entry := range r.meta.ItemInfo.Entries {
		if entry.ItemType != itemType {
			continue
		}
		out = append(out, &Item{
			ID:              entry.ItemID,
			Type:            entry.ItemType,
			Name:            entry.Name,
			ProtectionIndex: entry.ProtectionIndex,
			Features:        r.itemFeatures[entry.ItemID],
		})
	}
	return out, nil
}

// ThumbnailIDs returns the item ids that are thumbnails of masterItemID
// (spec.md §4.14).
func (r *Reader) ThumbnailIDs(masterItemID uint32) ([]uint32, error) {
	return r.referencingItemIDs(masterItemID, refTypeThmb)
}

// AuxiliaryIDs returns the item ids that are auxiliary images (depth,
// alpha, etc.) of masterItemID (spec.md §4.14).
func (r *Reader) AuxiliaryIDs(masterItemID uint32) ([]uint32, error) {
	return r.referencingItemIDs(masterItemID, refTypeAuxl)
}

func (r *Reader) referencingItemIDs(targetID uint32, refType bmff.FourCC) ([]uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("referencingItemIDs"); err != nil {
		return nil, err
	}
	if r.meta == nil || r.meta.ItemReference == nil {
		return nil, nil
	}
	var out []uint32
	for _, ref := range r.meta.ItemReference.References {
		if ref.Type != refType {
			continue
		}
		for _, to := range ref.ToItemIDs {
			if to == targetID {
				out = append(out, ref.FromItemID)
				break
			}
		}
	}
	return out, nil
}

// AuxiliaryType returns the bound "auxC" aux_type string for an auxiliary
// item (depth/alpha/etc.), or "" if the item has no auxC property.
func (r *Reader) AuxiliaryType(itemID uint32) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("AuxiliaryType"); err != nil {
		return "", err
	}
	if r.meta == nil || r.meta.ItemProperties == nil {
		return "", nil
	}
	for _, prop := range r.meta.ItemProperties.PropertiesForItem(itemID) {
		if prop.Type != bmff.TypeAuxC {
			continue
		}
		if raw, ok := prop.Parsed.(*bmff.RawProperty); ok {
			return auxTypeFromRaw(raw.Body), nil
		}
	}
	return "", nil
}

// auxTypeFromRaw extracts the NUL-terminated aux_type URI from an "auxC"
// property's raw body. "auxC" is itself a FullBox, and ParseItemPropertyContainerBox
// retains unrecognized property types verbatim from after the box header, so
// the first 4 bytes here are the version/flags that precede the aux_type
// cstring.
func auxTypeFromRaw(body []byte) string {
	if len(body) < 4 {
		return ""
	}
	body = body[4:]
	for i, b := range body {
		if b == 0x00 {
			return string(body[:i])
		}
	}
	return string(body)
}

// DisplayWidth, DisplayHeight, WidthAt, and HeightAt are track-sequence
// queries. The moov subtree is out of core scope (spec.md §1, §9): these
// always report Uninitialized (no track model exists) or InvalidSequenceID
// (no such track), never fabricated data.

// DisplayWidth returns the display width of a moov track sample. Always
// fails: no track model is implemented (spec.md §9).
func (r *Reader) DisplayWidth(sequenceID uint32) (uint32, error) {
	return 0, r.trackQueryError()
}

// DisplayHeight returns the display height of a moov track sample. Always
// fails: no track model is implemented (spec.md §9).
func (r *Reader) DisplayHeight(sequenceID uint32) (uint32, error) {
	return 0, r.trackQueryError()
}

// WidthAt returns the width of a track sample. Always fails: no track
// model is implemented (spec.md §9).
func (r *Reader) WidthAt(sequenceID uint32, itemID uint32) (uint32, error) {
	return 0, r.trackQueryError()
}

// HeightAt returns the height of a track sample. Always fails: no track
// model is implemented (spec.md §9).
func (r *Reader) HeightAt(sequenceID uint32, itemID uint32) (uint32, error) {
	return 0, r.trackQueryError()
}

func (r *Reader) trackQueryError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("track query"); err != nil {
		return err
	}
	return newError(InvalidSequenceID, "track query", nil)
}
