package bmff

// EntityToGroupBox is one child of a "grpl" box: a named grouping type (e.g.
// "altr" for alternatives) binding a group_id to a set of entity_ids that
// may be items or tracks (spec.md §4.3).
type EntityToGroupBox struct {
	Type        FourCC
	GroupID     uint32
	EntityIDs   []uint32
	Version     uint8
	Flags       uint32
}

// GroupListBox is the "grpl" box.
type GroupListBox struct {
	Groups []EntityToGroupBox
}

// ParseGroupListBox parses a "grpl" box body. Every child is a full box
// whose type names the grouping semantic, followed by group_id and a u32
// count of u32 entity_id values (spec.md §4.3).
func ParseGroupListBox(body *Stream) (*GroupListBox, error) {
	gl := &GroupListBox{}
	for !body.Eof() {
		h, childBody, err := ReadBoxBody(body)
		if err != nil {
			return nil, NewError(MalformedBox, "grpl", err)
		}
		fb, err := ReadFullBoxHeader(h, childBody)
		if err != nil {
			return nil, NewError(MalformedBox, "grpl", err)
		}
		groupID, err := childBody.ReadU32BE()
		if err != nil {
			return nil, NewError(MalformedBox, "grpl", err)
		}
		count, err := childBody.ReadU32BE()
		if err != nil {
			return nil, NewError(MalformedBox, "grpl", err)
		}
		g := EntityToGroupBox{Type: h.Type, GroupID: groupID, Version: fb.Version, Flags: fb.Flags}
		for i := uint32(0); i < count; i++ {
			id, err := childBody.ReadU32BE()
			if err != nil {
				return nil, NewError(MalformedBox, "grpl", err)
			}
			g.EntityIDs = append(g.EntityIDs, id)
		}
		gl.Groups = append(gl.Groups, g)
	}
	return gl, nil
}

// ByGroupID returns the group with the given group_id, or nil.
func (gl *GroupListBox) ByGroupID(id uint32) *EntityToGroupBox {
	for i := range gl.Groups {
		if gl.Groups[i].GroupID == id {
			return &gl.Groups[i]
		}
	}
	return nil
}
