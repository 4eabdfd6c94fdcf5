package bmff

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"
)

// Stream is a positioned, random-access view over a byte slice with
// byte-level and bit-level reads, per spec.md §4.1. Unlike the teacher's
// bufReader (which wraps a *bufio.Reader over an io.Reader), Stream is
// slice-backed so that read_bytes/extract can be zero-copy and so a
// sub-stream can be derived without re-reading from an underlying source —
// the reader owns one buffer for the whole file (spec.md §1, §5).
type Stream struct {
	buf     []byte
	bytePos int
	bitPos  uint8 // 0..7: bits already consumed from buf[bytePos]
}

// NewStream wraps buf for reading. It does not copy buf.
func NewStream(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Pos returns the current byte offset, for diagnostics.
func (s *Stream) Pos() int { return s.bytePos }

// Remaining returns the number of bytes from bytePos to the end, counting
// the byte at bytePos even when some of its bits are already consumed.
func (s *Stream) Remaining() int {
	n := len(s.buf) - s.bytePos
	if n < 0 {
		return 0
	}
	return n
}

// Eof reports whether the stream is exhausted.
func (s *Stream) Eof() bool { return s.bitPos == 0 && s.bytePos >= len(s.buf) }

func (s *Stream) requireAligned() error {
	if s.bitPos != 0 {
		return NewError(MalformedBox, "stream", errNotByteAligned)
	}
	return nil
}

var errNotByteAligned = &alignError{}

type alignError struct{}

func (*alignError) Error() string { return "read attempted on a non-byte-aligned stream" }

// ReadU8 reads one byte. The stream must be byte-aligned on entry.
func (s *Stream) ReadU8() (uint8, error) {
	if err := s.requireAligned(); err != nil {
		return 0, err
	}
	if s.bytePos+1 > len(s.buf) {
		return 0, ErrEndOfStream
	}
	v := s.buf[s.bytePos]
	s.bytePos++
	return v, nil
}

// ReadU16BE reads a big-endian uint16.
func (s *Stream) ReadU16BE() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadU32BE reads a big-endian uint32.
func (s *Stream) ReadU32BE() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadU64BE reads a big-endian uint64.
func (s *Stream) ReadU64BE() (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadUintN reads an n-byte (0, 1, 2, 4, or 8) big-endian unsigned integer.
// A width of 0 yields 0 without consuming any bytes, per spec.md §3's
// "width of 0 means field absent, treat as 0" rule for iloc fields.
func (s *Stream) ReadUintN(width uint8) (uint64, error) {
	switch width {
	case 0:
		return 0, nil
	case 1:
		v, err := s.ReadU8()
		return uint64(v), err
	case 2:
		v, err := s.ReadU16BE()
		return uint64(v), err
	case 4:
		v, err := s.ReadU32BE()
		return uint64(v), err
	case 8:
		return s.ReadU64BE()
	default:
		return 0, NewError(MalformedBox, "stream", nil)
	}
}

// ReadBytes returns a zero-copy slice of the next n bytes. The stream must
// be byte-aligned on entry.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	if err := s.requireAligned(); err != nil {
		return nil, err
	}
	if n < 0 || s.bytePos+n > len(s.buf) {
		return nil, ErrEndOfStream
	}
	b := s.buf[s.bytePos : s.bytePos+n]
	s.bytePos += n
	return b, nil
}

// ReadFourCC reads a 4-byte tag.
func (s *Stream) ReadFourCC() (FourCC, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return FourCC{}, err
	}
	return FourCC{b[0], b[1], b[2], b[3]}, nil
}

// Skip advances the byte cursor by n bytes without returning them.
func (s *Stream) Skip(n int) error {
	if err := s.requireAligned(); err != nil {
		return err
	}
	if n < 0 || s.bytePos+n > len(s.buf) {
		return ErrEndOfStream
	}
	s.bytePos += n
	return nil
}

// ReadBits consumes n (0..64) bits, most-significant-bit first, across byte
// boundaries, per spec.md §4.1. n == 0 returns 0 without consuming anything.
func (s *Stream) ReadBits(n uint8) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 64 {
		return 0, NewError(MalformedBox, "stream", nil)
	}
	var result uint64
	remaining := n
	for remaining > 0 {
		if s.bytePos >= len(s.buf) {
			return 0, ErrEndOfStream
		}
		avail := 8 - s.bitPos
		take := remaining
		if take > avail {
			take = avail
		}
		cur := s.buf[s.bytePos]
		// Shift so the `take` bits we want are at the bottom, mask them off.
		shift := avail - take
		bits := (cur >> shift) & ((1 << take) - 1)
		result = (result << take) | uint64(bits)

		s.bitPos += take
		remaining -= take
		if s.bitPos == 8 {
			s.bitPos = 0
			s.bytePos++
		}
	}
	return result, nil
}

// ReadCString reads bytes until a 0x00 terminator or end of stream. The
// terminator, if present, is consumed. Ill-formed UTF-8 bytes are replaced
// rather than treated as a hard error, per spec.md §4.1 (the format mandates
// ASCII, so this only matters for malformed input).
func (s *Stream) ReadCString() (string, error) {
	if err := s.requireAligned(); err != nil {
		return "", err
	}
	start := s.bytePos
	for s.bytePos < len(s.buf) {
		if s.buf[s.bytePos] == 0x00 {
			str := toUTF8(s.buf[start:s.bytePos])
			s.bytePos++ // consume terminator
			return str, nil
		}
		s.bytePos++
	}
	return toUTF8(s.buf[start:s.bytePos]), nil
}

func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// Extract returns a new Stream over the next n bytes and advances this
// stream's byte cursor past them. The sub-stream's cursors start at zero.
func (s *Stream) Extract(n int) (*Stream, error) {
	b, err := s.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return NewStream(b), nil
}

// ExtractBody extracts the body of a box whose header is h: size minus
// header size. A declared size of 0 (and header size 0 or larger than
// s.Remaining()) is handled by the caller, which passes the already-resolved
// remainder length (spec.md §4.2: "size == 0 means extends to end of file").
func (s *Stream) ExtractBody(h BoxHeader) (*Stream, error) {
	bodySize := int64(h.Size) - int64(h.HeaderSize())
	if bodySize < 0 {
		return nil, NewError(MalformedBox, h.Type.String(), nil)
	}
	return s.Extract(int(bodySize))
}
