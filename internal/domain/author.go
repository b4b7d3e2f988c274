package domain

// Author is the author of a liked post. Identity is AuthorID.
type Author struct {
	AuthorID     string
	DisplayName  string
	Username     string
	AvatarURL    string
	RegisteredAt string
}

func (a Author) Key() string {
	return a.AuthorID
}

func (a Author) Validate() error {
	return requireFields("author", map[string]string{
		"author_id":     a.AuthorID,
		"username":      a.Username,
		"registered_at": a.RegisteredAt,
	})
}
