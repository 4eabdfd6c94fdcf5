// Package heif reads ISO Base Media File Format containers carrying HEIF
// still-image payloads: box tree, item catalogue, and byte-exact payload
// extraction for downstream HEVC/AVC decoding. It performs no image
// decoding and no write path.
package heif

import (
	"log"
	"sync"

	"github.com/heifcore/heif/bmff"
)

// State is the reader's lifecycle state (spec.md §9).
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

const defaultMaxItemSize = 256 << 20 // 256 MiB, mirrors the teacher's maxSize guard in GetItemData

// Reader parses one ISOBMFF/HEIF source and exposes its box tree, item
// catalogue, and derived indices. A Reader is constructed empty; Load (or
// LoadFile) populates it atomically — on failure the reader is left
// Uninitialized with no partial state, per spec.md §3's lifecycle contract.
//
// A Reader is safe to query from multiple goroutines once Ready; Load must
// not be called concurrently with any query or with another Load on the
// same Reader.
type Reader struct {
	mu    sync.Mutex
	state State

	logger      *log.Logger
	maxItemSize int64
	strict      bool

	buf     []byte
	closer  func() error // releases an mmap backing buf, if any

	ftyp *bmff.FileTypeBox
	meta *bmff.MetaBox
	hasMoov bool

	itemFeatures    map[uint32]ItemFeature
	metaFeature     MetaBoxFeature
	decoderCodeType map[uint32]bmff.FourCC
	paramSetMap     map[uint16]map[ParamType][]byte
	imageToParamSet map[uint32]uint16
	masterImageIDs  []uint32
}

// Option configures a Reader at construction time, grounded on the
// teacher's dav1d.WithSafeEncoding / libde265.WithSafeEncoding functional
// options.
type Option func(*Reader)

// WithLogger overrides the logger used for recoverable-anomaly diagnostics.
// The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// WithMaxItemSize caps the size of a single GetItemData allocation. The
// default is 256 MiB, mirroring the teacher's maxSize constant.
func WithMaxItemSize(n int64) Option {
	return func(r *Reader) { r.maxItemSize = n }
}

// WithStrict records a strict flag on the Reader. No parse or query path
// reads the flag, so it does not change behaviour: an ipma association
// naming an unresolvable property, essential or not, is skipped silently
// either way.
func WithStrict(strict bool) Option {
	return func(r *Reader) { r.strict = strict }
}

// Load parses buf in place. buf is retained for the Reader's lifetime;
// queries and item-location extents borrow from it until the next Load.
func Load(buf []byte, opts ...Option) (*Reader, error) {
	r := &Reader{
		logger:      log.Default(),
		maxItemSize: defaultMaxItemSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.load(buf); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadFile memory-maps path and loads it, avoiding a full heap copy of the
// source (grounded on saferwall-pe's mmap.MMap-backed File.data). The
// mapping is released when the returned Reader is Close'd.
func LoadFile(path string, opts ...Option) (*Reader, error) {
	data, closer, err := mmapFile(path)
	if err != nil {
		return nil, newError(Io, "LoadFile", err)
	}
	r, err := Load(data, opts...)
	if err != nil {
		closer()
		return nil, err
	}
	r.closer = closer
	return r, nil
}

// Close releases any resources (an mmap, typically) backing the Reader's
// buffer. A Reader constructed via Load (not LoadFile) need not be closed.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closer == nil {
		return nil
	}
	err := r.closer()
	r.closer = nil
	return err
}

// requireReady returns ErrUninitialized if the reader has not completed a
// successful Load (spec.md §4.9: "any query on an uninitialized reader
// fails with Uninitialized").
func (r *Reader) requireReady(op string) error {
	if r.state != StateReady {
		return newError(Uninitialized, op, nil)
	}
	return nil
}

// load runs the top-level box scan and derives every cross-cutting index.
// It is the sole mutation entry point; on any failure it resets the reader
// to Uninitialized before returning, per spec.md §7's all-or-nothing policy.
func (r *Reader) load(buf []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateLoading
	if err := r.scanTopLevel(buf); err != nil {
		r.reset()
		return err
	}
	if r.ftyp == nil || (r.meta == nil && !r.hasMoov) {
		r.reset()
		return newError(MissingMandatoryBox, "load", nil)
	}

	r.buf = buf
	if err := r.deriveIndices(); err != nil {
		r.reset()
		return err
	}
	r.state = StateReady
	return nil
}

func (r *Reader) reset() {
	r.state = StateUninitialized
	r.buf = nil
	r.ftyp = nil
	r.meta = nil
	r.hasMoov = false
	r.itemFeatures = nil
	r.metaFeature = MetaBoxFeature(0)
	r.decoderCodeType = nil
	r.paramSetMap = nil
	r.imageToParamSet = nil
	r.masterImageIDs = nil
}

// scanTopLevel reads every top-level box in buf, dispatching known types
// and skipping the rest (spec.md §4.2, §6). At most one ftyp/meta/moov is
// permitted; a second occurrence of any of them is DuplicateTopLevelBox.
func (r *Reader) scanTopLevel(buf []byte) error {
	s := bmff.NewStream(buf)
	for !s.Eof() {
		h, body, err := bmff.ReadBoxBody(s)
		if err != nil {
			return err
		}
		switch h.Type {
		case bmff.TypeFtyp:
			if r.ftyp != nil {
				return newError(DuplicateTopLevelBox, "ftyp", nil)
			}
			ft, err := bmff.ParseFileTypeBox(body)
			if err != nil {
				return err
			}
			r.ftyp = ft
		case bmff.TypeMeta:
			if r.meta != nil {
				return newError(DuplicateTopLevelBox, "meta", nil)
			}
			fb, err := bmff.ReadFullBoxHeader(h, body)
			if err != nil {
				return err
			}
			mb, err := bmff.ParseMetaBox(fb, body)
			if err != nil {
				return err
			}
			r.meta = mb
		case bmff.TypeMoov:
			if r.hasMoov {
				return newError(DuplicateTopLevelBox, "moov", nil)
			}
			// The moov (track) subtree is out of core scope (spec.md §1, §9):
			// its presence is recorded to satisfy the ftyp-AND-(meta-OR-moov)
			// acceptance rule, but it is never parsed.
			r.hasMoov = true
		case bmff.TypeMdat, bmff.TypeFree, bmff.TypeSkip:
			// consumed by ReadBoxBody already; nothing to do.
		default:
			r.logger.Printf("heif: skipping unknown top-level box %q", h.Type.String())
		}
	}
	return nil
}
