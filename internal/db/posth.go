package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"

	"gitlab.com/agorahq/agora/internal/models"
	"gitlab.com/agorahq/agora/internal/poll"
)

// PostH is a handle to one published post.
type PostH struct {
	id       uint32
	boardID  uint32
	sharedDB *SharedDB
}

func (h *PostH) ID() uint32      { return h.id }
func (h *PostH) BoardID() uint32 { return h.boardID }

// CreatePost publishes a post. A malformed embedded poll specification
// blocks saving; the ParseError flows back to the author.
func (sdb *SharedDB) CreatePost(ctx context.Context, post *models.Post) (*PostH, error) {
	if post.Title == "" || len(post.Title) > LimitMaxTitleLen {
		return nil, ErrBadTitleLen
	}
	if _, err := poll.ParseEmbedded(post.Content); err != nil {
		return nil, err
	}

	sql, args, _ := psql.
		Insert("posts").
		Columns("board_id", "title", "content", "author_id").
		Values(post.BoardID, post.Title, post.Content, post.AuthorID).
		Suffix("RETURNING id").
		ToSql()

	row := sdb.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&post.ID); err != nil {
		return nil, err
	}
	return &PostH{id: post.ID, boardID: post.BoardID, sharedDB: sdb}, nil
}

func (sdb *SharedDB) GetPostH(ctx context.Context, boardID, postID uint32) (*PostH, error) {
	sql, args, _ := psql.
		Select("1").
		From("posts").
		Where(sq.Eq{"id": postID, "board_id": boardID}).
		ToSql()

	exists := 0
	row := sdb.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&exists); err != nil {
		return nil, err
	}
	return &PostH{id: postID, boardID: boardID, sharedDB: sdb}, nil
}

func (h *PostH) Read(ctx context.Context) (*models.Post, error) {
	sql, args, _ := psql.
		Select("id", "board_id", "title", "content", "author_id", "published").
		From("posts").
		Where(sq.Eq{"id": h.id}).
		ToSql()

	var post models.Post
	err := pgxscan.Get(ctx, h.sharedDB.db, &post, sql, args...)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update rewrites a post's title and content. The embedded poll
// specification is frozen once the first vote is stored: an edit that
// changes the fenced block is refused with ErrPollFrozen, so stored option
// indices never drift against the schema they were validated by.
func (h *PostH) Update(ctx context.Context, title, content string) error {
	if title == "" || len(title) > LimitMaxTitleLen {
		return ErrBadTitleLen
	}
	if _, err := poll.ParseEmbedded(content); err != nil {
		return err
	}

	old, err := h.Read(ctx)
	if err != nil {
		return err
	}
	oldBlock, _ := poll.EmbeddedBlock(old.Content)
	newBlock, _ := poll.EmbeddedBlock(content)
	if oldBlock != newBlock {
		votes := poll.NewStore(h.sharedDB.PollVotes())
		frozen, err := votes.HasVotes(ctx, h.id)
		if err != nil {
			return err
		}
		if frozen {
			return ErrPollFrozen
		}
	}

	sql, args, _ := psql.
		Update("posts").
		Set("title", title).
		Set("content", content).
		Where(sq.Eq{"id": h.id}).
		ToSql()
	_, err = h.sharedDB.db.Exec(ctx, sql, args...)
	return err
}

func (sdb *SharedDB) ListRecentPosts(ctx context.Context, limit uint64) ([]models.PostPreview, error) {
	previews := []models.PostPreview{}
	sql, args, _ := psql.
		Select("posts.id", "posts.board_id", "posts.title", "users.name AS author", "posts.published").
		From("posts").
		Join("users ON users.id = posts.author_id").
		OrderBy("posts.published DESC").
		Limit(limit).
		ToSql()

	err := pgxscan.Select(ctx, sdb.db, &previews, sql, args...)
	if err != nil {
		return nil, err
	}
	return previews, nil
}
