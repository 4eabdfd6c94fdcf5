package bmff

// HandlerBox is the "hdlr" box: declares the meta-box's content type
// (usually "pict" for HEIF still images).
type HandlerBox struct {
	FullBoxHeader
	HandlerType FourCC
	Name        string
}

// ParseHandlerBox parses a "hdlr" box body, given its already-read full-box
// header.
func ParseHandlerBox(fb FullBoxHeader, body *Stream) (*HandlerBox, error) {
	hb := &HandlerBox{FullBoxHeader: fb}
	if err := body.Skip(4); err != nil { // pre_defined
		return nil, NewError(MalformedBox, "hdlr", err)
	}
	ht, err := body.ReadFourCC()
	if err != nil {
		return nil, NewError(MalformedBox, "hdlr", err)
	}
	hb.HandlerType = ht
	if err := body.Skip(12); err != nil { // reserved[3]
		return nil, NewError(MalformedBox, "hdlr", err)
	}
	name, err := body.ReadCString()
	if err != nil {
		return nil, NewError(MalformedBox, "hdlr", err)
	}
	hb.Name = name
	return hb, nil
}
