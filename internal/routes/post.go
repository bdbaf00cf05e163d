package routes

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"gitlab.com/agorahq/agora/internal/db"
	"gitlab.com/agorahq/agora/internal/models"
	"gitlab.com/agorahq/agora/internal/poll"
	"gitlab.com/agorahq/agora/internal/render"
)

func (routes *Routes) GetNewPost(w http.ResponseWriter, r *http.Request) {
	routes.tmpls.RenderHTML(w, "newPost", nil)
}

func (routes *Routes) PostPost(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	if userH == nil {
		return &ErrMustLogin{}
	}

	boardID, err := strconv.ParseUint(r.FormValue("boardID"), 10, 32)
	if err != nil {
		return &ErrBadRequest{Cause: err, Motivation: "Malformed board id"}
	}

	post := &models.Post{
		BoardID:  uint32(boardID),
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		AuthorID: userH.ID(),
	}

	_, err = routes.db.CreatePost(r.Context(), post)
	var parseErr *poll.ParseError
	switch {
	case errors.As(err, &parseErr):
		return &ErrBadRequest{Cause: err, Motivation: parseErr.Error()}
	case errors.Is(err, db.ErrBadTitleLen):
		return &ErrBadRequest{Cause: err, Motivation: "The title is empty or too long"}
	case err != nil:
		return &ErrInternal{Cause: err}
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d/%d", post.BoardID, post.ID), http.StatusSeeOther)
	return nil
}

func (routes *Routes) GetPost(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	postH := GetPostH(r)

	post, err := postH.Read(r.Context())
	if err != nil {
		return &ErrNotFound{Cause: err, Thing: "post"}
	}

	schema, err := poll.ParseEmbedded(post.Content)
	if err != nil {
		return &ErrBadRequest{Cause: err, Motivation: "This post embeds an invalid poll"}
	}

	content := string(render.Markdown(post.Content))
	if schema != nil {
		var prior poll.Record
		if userH != nil {
			votes := poll.NewStore(routes.db.PollVotes())
			prior, err = votes.Voted(r.Context(), postH.ID(), userH.ID())
			if err != nil {
				return &ErrInternal{Cause: err}
			}
		}
		form := render.PollForm(schema, postH.BoardID(), postH.ID(), prior)
		content = render.ReplacePlaceholder(content, form)
	}

	routes.tmpls.RenderHTML(w, "post", struct {
		Post     *models.Post
		Content  template.HTML
		HasPoll  bool
		IsAuthor bool
		LoggedIn bool
	}{
		Post:     post,
		Content:  template.HTML(content),
		HasPoll:  schema != nil,
		IsAuthor: userH != nil && userH.ID() == post.AuthorID,
		LoggedIn: userH != nil,
	})
	return nil
}

func (routes *Routes) GetEditPost(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	postH := GetPostH(r)
	if userH == nil {
		return &ErrMustLogin{}
	}

	post, err := postH.Read(r.Context())
	if err != nil {
		return &ErrNotFound{Cause: err, Thing: "post"}
	}
	if post.AuthorID != userH.ID() {
		return &ErrBadRequest{Motivation: "Only the author can edit a post"}
	}

	routes.tmpls.RenderHTML(w, "editPost", struct{ Post *models.Post }{post})
	return nil
}

func (routes *Routes) PostEditPost(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	postH := GetPostH(r)
	if userH == nil {
		return &ErrMustLogin{}
	}

	post, err := postH.Read(r.Context())
	if err != nil {
		return &ErrNotFound{Cause: err, Thing: "post"}
	}
	if post.AuthorID != userH.ID() {
		return &ErrBadRequest{Motivation: "Only the author can edit a post"}
	}

	err = postH.Update(r.Context(), r.FormValue("title"), r.FormValue("content"))
	var parseErr *poll.ParseError
	switch {
	case errors.As(err, &parseErr):
		return &ErrBadRequest{Cause: err, Motivation: parseErr.Error()}
	case errors.Is(err, db.ErrPollFrozen):
		return &ErrBadRequest{Cause: err, Motivation: "The poll can't change after the first vote"}
	case errors.Is(err, db.ErrBadTitleLen):
		return &ErrBadRequest{Cause: err, Motivation: "The title is empty or too long"}
	case err != nil:
		return &ErrInternal{Cause: err}
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d/%d", postH.BoardID(), postH.ID()), http.StatusSeeOther)
	return nil
}
