package types

// Tag labels cards and decks. Names are unique among tags and compared
// case-sensitively.
type Tag struct {
	TagID TagID  `json:"uuid"`
	Name  string `json:"name"`
}

// NewTag returns a tag with a freshly generated identifier.
func NewTag(name string) *Tag {
	return &Tag{TagID: NewTagID(), Name: name}
}

// Clone returns a copy of the tag.
func (t *Tag) Clone() Tag {
	return *t
}
