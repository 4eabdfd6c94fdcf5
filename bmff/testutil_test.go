package bmff

import "encoding/binary"

// box wraps body in a generic box header of the given 4-byte type.
func box(typ string, body []byte) []byte {
	out := make([]byte, 0, 8+len(body))
	var sizeBuf [4]byte
	binary.BigEndian.PutUint32(sizeBuf[:], uint32(8+len(body)))
	out = append(out, sizeBuf[:]...)
	out = append(out, []byte(typ)...)
	out = append(out, body...)
	return out
}

// fullBox wraps body in a full-box header (version + 24-bit flags) inside a
// generic box header of the given type.
func fullBox(typ string, version uint8, flags uint32, body []byte) []byte {
	prefix := make([]byte, 4)
	prefix[0] = version
	prefix[1] = byte(flags >> 16)
	prefix[2] = byte(flags >> 8)
	prefix[3] = byte(flags)
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

func be64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func cstr(s string) []byte {
	return append([]byte(s), 0x00)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
