package domain

// Like is one liked post. Identity is PostID.
type Like struct {
	PostID       string
	AuthorID     string
	URL          string
	Text         string
	CreatedAt    string
	RegisteredAt string
}

func (l Like) Key() string {
	return l.PostID
}

func (l Like) Validate() error {
	return requireFields("like", map[string]string{
		"post_id":       l.PostID,
		"author_id":     l.AuthorID,
		"url":           l.URL,
		"created_at":    l.CreatedAt,
		"registered_at": l.RegisteredAt,
	})
}
