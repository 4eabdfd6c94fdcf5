package bmff

// FileTypeBox is the "ftyp" box (spec.md §3).
type FileTypeBox struct {
	MajorBrand       FourCC
	MinorVersion     uint32
	CompatibleBrands []FourCC
}

// ParseFileTypeBox parses an "ftyp" box body.
func ParseFileTypeBox(body *Stream) (*FileTypeBox, error) {
	ft := &FileTypeBox{}
	major, err := body.ReadFourCC()
	if err != nil {
		return nil, NewError(MalformedBox, "ftyp", err)
	}
	ft.MajorBrand = major

	minor, err := body.ReadU32BE()
	if err != nil {
		return nil, NewError(MalformedBox, "ftyp", err)
	}
	ft.MinorVersion = minor

	for body.Remaining() >= 4 {
		brand, err := body.ReadFourCC()
		if err != nil {
			return nil, NewError(MalformedBox, "ftyp", err)
		}
		ft.CompatibleBrands = append(ft.CompatibleBrands, brand)
	}
	return ft, nil
}

// HasCompatibleBrand reports whether ft lists brand among its major or
// compatible brands.
func (ft *FileTypeBox) HasCompatibleBrand(brand FourCC) bool {
	if ft.MajorBrand == brand {
		return true
	}
	for _, c := range ft.CompatibleBrands {
		if c == brand {
			return true
		}
	}
	return false
}
