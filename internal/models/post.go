package models

import "time"

// Post is one markdown document published into a board. Its content may
// embed a poll specification; the parsed schema is always derived from
// Content at read time and never stored on its own.
type Post struct {
	ID        uint32
	BoardID   uint32 `db:"board_id"`
	Title     string
	Content   string
	AuthorID  uint32 `db:"author_id"`
	Published time.Time
}

// PostPreview is the home-page projection of a post.
type PostPreview struct {
	ID        uint32
	BoardID   uint32 `db:"board_id"`
	Title     string
	Author    string
	Published time.Time
}
