package bmff

// NALUnitType is the HEVC NAL unit type value (nal_unit_type, 6 bits) used
// to key a HEVCDecoderConfigurationRecord's NAL arrays (ISO/IEC 14496-15
// §8.3.3.1).
type NALUnitType uint8

const (
	NALTypeVPS NALUnitType = 32
	NALTypeSPS NALUnitType = 33
	NALTypePPS NALUnitType = 34
)

// NALArray is one HEVCDecoderConfigurationRecord nalArray entry: all NAL
// units of a single nal_unit_type, plus its array_completeness flag.
type NALArray struct {
	ArrayCompleteness bool
	NALUnitType       NALUnitType
	NALUnits          [][]byte
}

// HEVCConfigurationBox is the "hvcC" property: an HEVCDecoderConfigurationRecord
// (ISO/IEC 14496-15 §8.3.3.1). Parameter sets needed to start a decoder
// (VPS/SPS/PPS) travel here rather than in the coded bitstream itself, which
// is why a reader that hands bitstream bytes to a decoder must first
// assemble these NAL units into Annex-B form (spec.md §4.6).
type HEVCConfigurationBox struct {
	ConfigurationVersion        uint8
	GeneralProfileSpace         uint8
	GeneralTierFlag             bool
	GeneralProfileIDC           uint8
	GeneralProfileCompatibility uint32
	GeneralConstraintIndicator  uint64 // 48 bits
	GeneralLevelIDC             uint8
	MinSpatialSegmentationIDC   uint16
	ParallelismType             uint8
	ChromaFormat                uint8
	BitDepthLumaMinus8          uint8
	BitDepthChromaMinus8        uint8
	AvgFrameRate                uint16
	ConstantFrameRate           uint8
	NumTemporalLayers           uint8
	TemporalIDNested            bool
	LengthSizeMinusOne          uint8 // NAL length-prefix size minus 1 (0..3)
	Arrays                      []NALArray
}

// ParseHEVCConfigurationBox parses an "hvcC" property body per ISO/IEC
// 14496-15 §8.3.3.1.1.
func ParseHEVCConfigurationBox(body *Stream) (*HEVCConfigurationBox, error) {
	hc := &HEVCConfigurationBox{}

	b, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.ConfigurationVersion = b

	b, err = body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.GeneralProfileSpace = b >> 6
	hc.GeneralTierFlag = b&0x20 != 0
	hc.GeneralProfileIDC = b & 0x1F

	compat, err := body.ReadU32BE()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.GeneralProfileCompatibility = compat

	constraint, err := body.ReadBits(48)
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.GeneralConstraintIndicator = constraint

	levelIDC, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.GeneralLevelIDC = levelIDC

	minSpatial, err := body.ReadBits(16) // 4 bits reserved=1111, 12 bits value
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.MinSpatialSegmentationIDC = uint16(minSpatial & 0x0FFF)

	parallelism, err := body.ReadU8() // 6 reserved + 2 bits
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.ParallelismType = parallelism & 0x03

	chroma, err := body.ReadU8() // 6 reserved + 2 bits
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.ChromaFormat = chroma & 0x03

	bdLuma, err := body.ReadU8() // 5 reserved + 3 bits
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.BitDepthLumaMinus8 = bdLuma & 0x07

	bdChroma, err := body.ReadU8() // 5 reserved + 3 bits
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.BitDepthChromaMinus8 = bdChroma & 0x07

	avgRate, err := body.ReadU16BE()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.AvgFrameRate = avgRate

	last, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}
	hc.ConstantFrameRate = last >> 6
	hc.NumTemporalLayers = (last >> 3) & 0x07
	hc.TemporalIDNested = last&0x04 != 0
	hc.LengthSizeMinusOne = last & 0x03

	numArrays, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "hvcC", err)
	}

	for i := uint8(0); i < numArrays; i++ {
		hdr, err := body.ReadU8()
		if err != nil {
			return nil, NewError(MalformedBox, "hvcC", err)
		}
		arr := NALArray{
			ArrayCompleteness: hdr&0x80 != 0,
			NALUnitType:       NALUnitType(hdr & 0x3F),
		}
		numNALUs, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "hvcC", err)
		}
		for j := uint16(0); j < numNALUs; j++ {
			length, err := body.ReadU16BE()
			if err != nil {
				return nil, NewError(MalformedBox, "hvcC", err)
			}
			nalu, err := body.ReadBytes(int(length))
			if err != nil {
				return nil, NewError(MalformedBox, "hvcC", err)
			}
			arr.NALUnits = append(arr.NALUnits, stripStartCode(nalu))
		}
		hc.Arrays = append(hc.Arrays, arr)
	}
	return hc, nil
}

// stripStartCode removes a leading Annex-B start code (a zero-run of length
// >= 2 followed by 0x01) from b, if present. hvcC stores length-prefixed NAL
// units that normally carry no start code, but spec.md §4.4 requires
// defensively normalizing any that do so stored parameter sets are always
// raw payload.
func stripStartCode(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0x00 {
		i++
	}
	if i >= 2 && i < len(b) && b[i] == 0x01 {
		return b[i+1:]
	}
	return b
}

// ParameterSets returns the NAL units of typ across all arrays, in array
// order, used to assemble an Annex-B byte stream's leading parameter sets
// (spec.md §4.6).
func (hc *HEVCConfigurationBox) ParameterSets(typ NALUnitType) [][]byte {
	var out [][]byte
	for _, a := range hc.Arrays {
		if a.NALUnitType == typ {
			out = append(out, a.NALUnits...)
		}
	}
	return out
}

// AVCConfigurationBox is the "avcC" property: an AVCDecoderConfigurationRecord
// (ISO/IEC 14496-15 §5.3.3.1). This reader parses only enough structure to
// extract SPS/PPS parameter sets and the NAL length size; it does not
// support rewriting AVC items to Annex-B (spec.md open question: avc1 items
// surface as UnsupportedCodeType instead).
type AVCConfigurationBox struct {
	ConfigurationVersion uint8
	ProfileIndication    uint8
	ProfileCompatibility uint8
	LevelIndication      uint8
	LengthSizeMinusOne   uint8
	SPS                  [][]byte
	PPS                  [][]byte
}

// ParseAVCConfigurationBox parses an "avcC" property body.
func ParseAVCConfigurationBox(body *Stream) (*AVCConfigurationBox, error) {
	ac := &AVCConfigurationBox{}
	var err error
	if ac.ConfigurationVersion, err = body.ReadU8(); err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	if ac.ProfileIndication, err = body.ReadU8(); err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	if ac.ProfileCompatibility, err = body.ReadU8(); err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	if ac.LevelIndication, err = body.ReadU8(); err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	lengthByte, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	ac.LengthSizeMinusOne = lengthByte & 0x03

	numSPSByte, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	numSPS := numSPSByte & 0x1F
	for i := uint8(0); i < numSPS; i++ {
		length, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "avcC", err)
		}
		b, err := body.ReadBytes(int(length))
		if err != nil {
			return nil, NewError(MalformedBox, "avcC", err)
		}
		ac.SPS = append(ac.SPS, b)
	}

	numPPS, err := body.ReadU8()
	if err != nil {
		return nil, NewError(MalformedBox, "avcC", err)
	}
	for i := uint8(0); i < numPPS; i++ {
		length, err := body.ReadU16BE()
		if err != nil {
			return nil, NewError(MalformedBox, "avcC", err)
		}
		b, err := body.ReadBytes(int(length))
		if err != nil {
			return nil, NewError(MalformedBox, "avcC", err)
		}
		ac.PPS = append(ac.PPS, b)
	}
	return ac, nil
}
