package domain

// MediaRef is an opaque reference to a stored media object. The backend never
// interprets it beyond passing the public ID back to the media adapter on delete.
type MediaRef struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

// IsZero reports whether the reference points at nothing.
func (m MediaRef) IsZero() bool {
	return m.URL == "" && m.PublicID == ""
}
