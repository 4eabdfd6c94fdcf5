package heif

import "encoding/binary"

func box(typ string, body []byte) []byte {
	out := make([]byte, 0, 8+len(body))
	out = append(out, be32(uint32(8+len(body)))...)
	out = append(out, []byte(typ)...)
	out = append(out, body...)
	return out
}

func fullBox(typ string, version uint8, flags uint32, body []byte) []byte {
	prefix := []byte{version, byte(flags >> 16), byte(flags >> 8), byte(flags)}
	return box(typ, append(prefix, body...))
}

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func cstr(s string) []byte { return append([]byte(s), 0x00) }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// infe builds a version-2 "infe" entry.
func infe(itemID uint16, itemType string, hidden bool) []byte {
	var flags uint32
	if hidden {
		flags = 1
	}
	return fullBox("infe", 2, flags, concat(be16(itemID), be16(0), []byte(itemType), cstr("")))
}

// nalArray builds one hvcC NALArray entry.
func nalArray(typ byte, completeness bool, nalus ...[]byte) []byte {
	hdr := typ & 0x3F
	if completeness {
		hdr |= 0x80
	}
	out := []byte{hdr}
	out = append(out, be16(uint16(len(nalus)))...)
	for _, n := range nalus {
		out = append(out, be16(uint16(len(n)))...)
		out = append(out, n...)
	}
	return out
}

// hvcCBody builds a minimal "hvcC" property body with one VPS/SPS/PPS each.
func hvcCBody(vps, sps, pps []byte) []byte {
	return concat(
		[]byte{0x01},             // configurationVersion
		[]byte{0x01},             // profile_space/tier/profile_idc
		be32(0x60000000),         // profile_compatibility
		[]byte{0, 0, 0, 0, 0, 0}, // constraint indicator (48 bits)
		[]byte{120},              // general_level_idc
		be16(0xF000),             // reserved + min_spatial_segmentation
		[]byte{0}, []byte{0}, []byte{0}, []byte{0}, // parallelism/chroma/bitdepths
		be16(0),    // avg_frame_rate
		[]byte{3},  // const_frame_rate/num_temporal_layers/nested/length_size_minus_one=3
		[]byte{3},  // numOfArrays
		nalArray(32, true, vps),
		nalArray(33, true, sps),
		nalArray(34, true, pps),
	)
}

// ispeBody builds an "ispe" property body.
func ispeBody(w, h uint32) []byte { return concat(be32(w), be32(h)) }

// lenPrefixedNALPayload builds a length-prefixed NAL payload (the wire
// format GetItemData's hvc1 rewrite expects): {u32be length, bytes}*.
func lenPrefixedNALPayload(nalus ...[]byte) []byte {
	var out []byte
	for _, n := range nalus {
		out = append(out, be32(uint32(len(n)))...)
		out = append(out, n...)
	}
	return out
}

// minimalFtyp builds an "ftyp" box declaring mif1/heic brands.
func minimalFtyp() []byte {
	return box("ftyp", concat([]byte("mif1"), be32(0), []byte("mif1"), []byte("heic")))
}

// ilocEntryFileOffset builds one version-1 iloc item entry (4-byte offset/length
// fields, file_offset construction method, no index field).
func ilocEntryFileOffset(itemID uint16, offset, length uint32) []byte {
	return concat(
		be16(itemID),
		be16(0), // reserved(12)+construction_method(4)=file_offset(0)
		be16(1), // data_reference_index
		be32(0), // base_offset
		be16(1), // extent_count
		be32(offset), be32(length),
	)
}

func ilocEntryIdatOffset(itemID uint16, offset, length uint32) []byte {
	return concat(
		be16(itemID),
		be16(1), // construction_method = idat_offset(1)
		be16(1),
		be32(0),
		be16(1),
		be32(offset), be32(length),
	)
}

// ilocBoxVersion1 wraps entries (built with ilocEntry*) in a version-1 iloc
// box body: offset_size=4, length_size=4, base_offset_size=4, index_size=0.
func ilocBoxVersion1(itemCount uint16, entries []byte) []byte {
	body := concat([]byte{0x44, 0x40}, be16(itemCount), entries)
	return fullBox("iloc", 1, 0, body)
}
