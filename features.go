package heif

import "github.com/heifcore/heif/bmff"

// ItemFeature is a bitmask of per-item characteristics derived after parsing
// the meta-box subtree (spec.md §3, §4.5).
type ItemFeature uint32

const (
	FeatureIsMaster ItemFeature = 1 << iota
	FeatureIsThumbnail
	FeatureIsAuxiliary
	FeatureIsPrimary
	FeatureIsDerived
	FeatureIsPreComputedDerived
	FeatureIsHidden
	FeatureIsCover
	FeatureIsProtected
	FeatureHasLinkedThumbnails
	FeatureHasLinkedAuxiliary
	FeatureHasLinkedMetadata
	FeatureHasLinkedDerived
	FeatureHasLinkedPreComputedDerived
	FeatureHasLinkedTiles
	FeatureIsTileImageItem
	FeatureIsMetadataItem
	FeatureIsExifItem
	FeatureIsXMPItem
	FeatureIsMpeg7Item
)

// Has reports whether all bits of want are set.
func (f ItemFeature) Has(want ItemFeature) bool { return f&want == want }

// MetaBoxFeature is a bitmask of meta-box-wide characteristics (spec.md §4.5).
type MetaBoxFeature uint32

const (
	MetaFeatureIsSingleImage MetaBoxFeature = 1 << iota
	MetaFeatureIsImageCollection
	MetaFeatureHasMaster
	MetaFeatureHasThumbnails
	MetaFeatureHasAux
	MetaFeatureHasDerived
	MetaFeatureHasPreComputedDerived
	MetaFeatureHasHidden
	MetaFeatureHasGroupLists
)

func (f MetaBoxFeature) Has(want MetaBoxFeature) bool { return f&want == want }

var (
	refTypeThmb = bmff.NewFourCC("thmb")
	refTypeAuxl = bmff.NewFourCC("auxl")
	refTypeCdsc = bmff.NewFourCC("cdsc")
	refTypeBase = bmff.NewFourCC("base")
	refTypeTbas = bmff.NewFourCC("tbas")
	refTypeDimg = bmff.NewFourCC("dimg")
)

// deriveIndices builds every cross-cutting index on top of the parsed meta
// box: item features, the meta-box feature summary, the master-image id
// list, and (via deriveDecoderConfig) the decoder-config maps.
func (r *Reader) deriveIndices() error {
	r.itemFeatures = make(map[uint32]ItemFeature)
	r.masterImageIDs = nil

	if r.meta == nil || r.meta.ItemInfo == nil {
		return r.deriveDecoderConfig()
	}

	for _, entry := range r.meta.ItemInfo.Entries {
		feat := r.deriveItemFeature(entry)
		r.itemFeatures[entry.ItemID] = feat
		if feat.Has(FeatureIsMaster) {
			r.masterImageIDs = append(r.masterImageIDs, entry.ItemID)
		}
	}

	r.metaFeature = r.deriveMetaFeature()

	return r.deriveDecoderConfig()
}

func (r *Reader) hasOutgoingRef(itemID uint32, refType bmff.FourCC) bool {
	if r.meta == nil || r.meta.ItemReference == nil {
		return false
	}
	return r.meta.ItemReference.ByFromIDAndType(itemID, refType) != nil
}

func (r *Reader) deriveItemFeature(entry *bmff.ItemInfoEntry) ItemFeature {
	var feat ItemFeature
	id := entry.ItemID

	if bmff.IsImageItemType(entry.ItemType) {
		if entry.ProtectionIndex > 0 {
			feat |= FeatureIsProtected
		}
		if r.hasOutgoingRef(id, refTypeThmb) {
			feat |= FeatureIsThumbnail
		}
		if r.hasOutgoingRef(id, refTypeAuxl) {
			feat |= FeatureIsAuxiliary
		}
		if r.hasOutgoingRef(id, refTypeBase) {
			feat |= FeatureIsPreComputedDerived
		}
		if r.hasOutgoingRef(id, refTypeDimg) {
			feat |= FeatureIsDerived
		}
		if !feat.Has(FeatureIsThumbnail) && !feat.Has(FeatureIsAuxiliary) {
			feat |= FeatureIsMaster
		}

		for _, rt := range []struct {
			typ  bmff.FourCC
			bit  ItemFeature
		}{
			{refTypeThmb, FeatureHasLinkedThumbnails},
			{refTypeAuxl, FeatureHasLinkedAuxiliary},
			{refTypeCdsc, FeatureHasLinkedMetadata},
			{refTypeDimg, FeatureHasLinkedDerived},
			{refTypeBase, FeatureHasLinkedPreComputedDerived},
			{refTypeTbas, FeatureHasLinkedTiles},
		} {
			if r.hasOutgoingRef(id, rt.typ) {
				feat |= rt.bit
			}
		}

		if r.meta.PrimaryItem != nil && r.meta.PrimaryItem.ItemID == id {
			feat |= FeatureIsPrimary | FeatureIsCover
		}
		if entry.IsHidden() {
			feat |= FeatureIsHidden
		}
		return feat
	}

	if entry.ProtectionIndex > 0 {
		feat |= FeatureIsProtected
	}
	if r.hasOutgoingRef(id, refTypeCdsc) {
		feat |= FeatureIsMetadataItem
	}
	switch entry.ItemType {
	case bmff.ItemTypeExif:
		feat |= FeatureIsExifItem
	case bmff.ItemTypeMime:
		if entry.ContentType == "application/rdf+xml" {
			feat |= FeatureIsXMPItem
		} else {
			feat |= FeatureIsMpeg7Item
		}
	case bmff.ItemTypeHvt1:
		feat |= FeatureIsTileImageItem
	}
	return feat
}

func (r *Reader) deriveMetaFeature() MetaBoxFeature {
	var feat MetaBoxFeature
	if r.meta.GroupList != nil && len(r.meta.GroupList.Groups) > 0 {
		feat |= MetaFeatureHasGroupLists
	}

	imageCount := 0
	for _, entry := range r.meta.ItemInfo.Entries {
		if !bmff.IsImageItemType(entry.ItemType) {
			continue
		}
		imageCount++
		f := r.itemFeatures[entry.ItemID]
		if f.Has(FeatureIsMaster) {
			feat |= MetaFeatureHasMaster
		}
		if f.Has(FeatureIsThumbnail) {
			feat |= MetaFeatureHasThumbnails
		}
		if f.Has(FeatureIsAuxiliary) {
			feat |= MetaFeatureHasAux
		}
		if f.Has(FeatureIsDerived) {
			feat |= MetaFeatureHasDerived
		}
		if f.Has(FeatureIsPreComputedDerived) {
			feat |= MetaFeatureHasPreComputedDerived
		}
		if f.Has(FeatureIsHidden) {
			feat |= MetaFeatureHasHidden
		}
	}
	switch {
	case imageCount == 1:
		feat |= MetaFeatureIsSingleImage
	case imageCount > 1:
		feat |= MetaFeatureIsImageCollection
	}
	return feat
}

// ItemFeatures returns the derived feature bitmask for itemID, or
// ErrInvalidItemID if no such item exists.
func (r *Reader) ItemFeatures(itemID uint32) (ItemFeature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("ItemFeatures"); err != nil {
		return 0, err
	}
	f, ok := r.itemFeatures[itemID]
	if !ok {
		return 0, newError(InvalidItemID, "ItemFeatures", nil)
	}
	return f, nil
}

// MetaFeatures returns the derived meta-box-wide feature bitmask.
func (r *Reader) MetaFeatures() (MetaBoxFeature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("MetaFeatures"); err != nil {
		return 0, err
	}
	return r.metaFeature, nil
}

// MasterImageIDs returns the item ids classified as master images, in
// iinf order.
func (r *Reader) MasterImageIDs() ([]uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("MasterImageIDs"); err != nil {
		return nil, err
	}
	out := make([]uint32, len(r.masterImageIDs))
	copy(out, r.masterImageIDs)
	return out, nil
}
