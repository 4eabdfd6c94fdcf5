package bmff

// BoxHeader is the generic ISOBMFF box header (spec.md §3): a 32-bit size
// (or 64-bit large-size, signaled by an encoded size of 1), a 4-byte type,
// and an optional 16-byte user_type when Type is "uuid".
type BoxHeader struct {
	Size     uint64
	Type     FourCC
	UserType [16]byte
	HasUUID  bool
	IsLarge  bool
}

// HeaderSize returns the number of bytes this header itself occupies: 8,
// +8 if IsLarge, +16 if HasUUID.
func (h BoxHeader) HeaderSize() uint64 {
	n := uint64(8)
	if h.IsLarge {
		n += 8
	}
	if h.HasUUID {
		n += 16
	}
	return n
}

// ReadBoxHeader reads a generic box header from s. If the declared 32-bit
// size field is 0, the box is taken to extend to the end of the containing
// stream; the caller resolves that to a concrete Size using
// ResolveZeroSizeBox, since Stream has no notion of an enclosing file end.
func ReadBoxHeader(s *Stream) (BoxHeader, error) {
	var h BoxHeader
	size32, err := s.ReadU32BE()
	if err != nil {
		return h, NewError(EndOfStream, "box-header", err)
	}
	typ, err := s.ReadFourCC()
	if err != nil {
		return h, NewError(EndOfStream, "box-header", err)
	}
	h.Type = typ

	switch size32 {
	case 1:
		h.IsLarge = true
		large, err := s.ReadU64BE()
		if err != nil {
			return h, NewError(EndOfStream, "box-header", err)
		}
		h.Size = large
	case 0:
		h.Size = 0 // resolved by caller against remaining stream length
	default:
		h.Size = uint64(size32)
	}

	if typ == TypeUUID {
		h.HasUUID = true
		ut, err := s.ReadBytes(16)
		if err != nil {
			return h, NewError(EndOfStream, "box-header", err)
		}
		copy(h.UserType[:], ut)
	}

	if h.Size != 0 && h.Size < h.HeaderSize() {
		return h, NewError(MalformedBox, typ.String(), nil)
	}
	return h, nil
}

// ResolveZeroSizeBox fills in Size for a box whose encoded size was 0,
// meaning "extends to the end of the enclosing stream" (spec.md §4.2). Since
// the parser always works over a fully-buffered stream, this is just
// "body is whatever remains".
func ResolveZeroSizeBox(h BoxHeader, remaining int) BoxHeader {
	if h.Size == 0 {
		h.Size = h.HeaderSize() + uint64(remaining)
	}
	return h
}

// FullBoxHeader is BoxHeader plus the version/flags prefix common to "full
// boxes" (spec.md §3).
type FullBoxHeader struct {
	BoxHeader
	Version uint8
	Flags   uint32 // 24 bits, top byte always zero
}

// HeaderSize is BoxHeader's header size plus 4 (version + 24-bit flags).
func (h FullBoxHeader) HeaderSize() uint64 { return h.BoxHeader.HeaderSize() + 4 }

// ReadFullBoxHeader reads a FullBoxHeader's version+flags prefix on top of
// an already-read generic header.
func ReadFullBoxHeader(outer BoxHeader, s *Stream) (FullBoxHeader, error) {
	var fb FullBoxHeader
	fb.BoxHeader = outer
	version, err := s.ReadU8()
	if err != nil {
		return fb, NewError(EndOfStream, outer.Type.String(), err)
	}
	flags, err := s.ReadBits(24)
	if err != nil {
		return fb, NewError(EndOfStream, outer.Type.String(), err)
	}
	fb.Version = version
	fb.Flags = uint32(flags)
	return fb, nil
}

// ReadBoxBody reads a box header from s and returns a sub-stream scoped to
// its declared body, handling the size==0 ("rest of stream") case against
// s's own remaining length. This is the single entry point box dispatchers
// use, per spec.md §4.2.
func ReadBoxBody(s *Stream) (BoxHeader, *Stream, error) {
	h, err := ReadBoxHeader(s)
	if err != nil {
		return h, nil, err
	}
	if h.Size == 0 {
		h = ResolveZeroSizeBox(h, s.Remaining())
	}
	body, err := s.ExtractBody(h)
	if err != nil {
		return h, nil, NewError(MalformedBox, h.Type.String(), err)
	}
	return h, body, nil
}
