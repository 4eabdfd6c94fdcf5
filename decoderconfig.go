package heif

import "github.com/heifcore/heif/bmff"

// ParamType names a decoder parameter-set kind (spec.md §3). AudioSpecificConfig
// is named for taxonomy completeness (the record shape mirrors MPEG-4 Audio
// AAC configuration as used elsewhere in ISOBMFF) but this reader only ever
// populates the Hevc*/Avc* kinds, since HEIF still images carry no audio.
type ParamType int

const (
	HevcVPS ParamType = iota
	HevcSPS
	HevcPPS
	AvcSPS
	AvcPPS
	AudioSpecificConfig
)

// deriveDecoderConfig binds each image item to its hvcC/avcC property and
// builds the parameter-set map, memoized per property index so items
// sharing one hvcC/avcC compute it once (spec.md §4.6).
func (r *Reader) deriveDecoderConfig() error {
	r.decoderCodeType = make(map[uint32]bmff.FourCC)
	r.paramSetMap = make(map[uint16]map[ParamType][]byte)
	r.imageToParamSet = make(map[uint32]uint16)

	if r.meta == nil || r.meta.ItemInfo == nil || r.meta.ItemProperties == nil {
		return nil
	}

	for _, entry := range r.meta.ItemInfo.Entries {
		switch entry.ItemType {
		case bmff.ItemTypeHVC1:
			r.decoderCodeType[entry.ItemID] = entry.ItemType
		case bmff.ItemTypeAVC1:
			r.decoderCodeType[entry.ItemID] = entry.ItemType
		default:
			continue
		}

		idx, hvcC, avcC := r.findConfigProperty(entry.ItemID)
		if idx == 0 {
			continue
		}
		r.imageToParamSet[entry.ItemID] = idx

		if _, done := r.paramSetMap[idx]; done {
			continue
		}
		switch {
		case hvcC != nil:
			r.paramSetMap[idx] = buildHEVCParamSetMap(hvcC)
		case avcC != nil:
			r.paramSetMap[idx] = buildAVCParamSetMap(avcC)
		}
	}
	return nil
}

// findConfigProperty returns the 1-based ipco index of itemID's hvcC or
// avcC property, along with whichever of the two was found.
func (r *Reader) findConfigProperty(itemID uint32) (index uint16, hvcC *bmff.HEVCConfigurationBox, avcC *bmff.AVCConfigurationBox) {
	if r.meta.ItemProperties.Associations == nil || r.meta.ItemProperties.Container == nil {
		return 0, nil, nil
	}
	assoc := r.meta.ItemProperties.Associations.ByItemID(itemID)
	if assoc == nil {
		return 0, nil, nil
	}
	for _, a := range assoc.Associations {
		propIdx := int(a.Index) - 1
		if propIdx < 0 || propIdx >= len(r.meta.ItemProperties.Container.Properties) {
			continue
		}
		prop := r.meta.ItemProperties.Container.Properties[propIdx]
		switch v := prop.Parsed.(type) {
		case *bmff.HEVCConfigurationBox:
			return a.Index, v, nil
		case *bmff.AVCConfigurationBox:
			return a.Index, nil, v
		}
	}
	return 0, nil, nil
}

func buildHEVCParamSetMap(hvcC *bmff.HEVCConfigurationBox) map[ParamType][]byte {
	out := make(map[ParamType][]byte)
	if sets := hvcC.ParameterSets(bmff.NALTypeVPS); len(sets) > 0 {
		out[HevcVPS] = sets[0]
	}
	if sets := hvcC.ParameterSets(bmff.NALTypeSPS); len(sets) > 0 {
		out[HevcSPS] = sets[0]
	}
	if sets := hvcC.ParameterSets(bmff.NALTypePPS); len(sets) > 0 {
		out[HevcPPS] = sets[0]
	}
	return out
}

func buildAVCParamSetMap(avcC *bmff.AVCConfigurationBox) map[ParamType][]byte {
	out := make(map[ParamType][]byte)
	if len(avcC.SPS) > 0 {
		out[AvcSPS] = avcC.SPS[0]
	}
	if len(avcC.PPS) > 0 {
		out[AvcPPS] = avcC.PPS[0]
	}
	return out
}

// DecoderCodeType returns the code type ("hvc1" or "avc1") bound to itemID.
func (r *Reader) DecoderCodeType(itemID uint32) (bmff.FourCC, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("DecoderCodeType"); err != nil {
		return bmff.FourCC{}, err
	}
	t, ok := r.decoderCodeType[itemID]
	if !ok {
		return bmff.FourCC{}, newError(InvalidItemID, "DecoderCodeType", nil)
	}
	return t, nil
}

// ParameterSets returns the (param_type -> bytes) map bound to itemID's
// hvcC/avcC property, keyed by property index so callers sharing a
// property see the same underlying map.
func (r *Reader) ParameterSets(itemID uint32) (map[ParamType][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.requireReady("ParameterSets"); err != nil {
		return nil, err
	}
	idx, ok := r.imageToParamSet[itemID]
	if !ok {
		return nil, newError(InvalidItemID, "ParameterSets", nil)
	}
	return r.paramSetMap[idx], nil
}
