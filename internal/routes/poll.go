package routes

import (
	"fmt"
	"io"
	"net/http"

	"gitlab.com/agorahq/agora/internal/poll"
)

// PostPollVote records one voter's submission against the poll embedded in
// the post. The schema is re-parsed from the current post text; the record
// is stored under (post id, voter id), overwriting any earlier vote.
func (routes *Routes) PostPollVote(w http.ResponseWriter, r *http.Request) AppError {
	userH := GetUserH(r)
	postH := GetPostH(r)
	if userH == nil {
		return &ErrMustLogin{}
	}

	post, err := postH.Read(r.Context())
	if err != nil {
		return &ErrNotFound{Cause: err, Thing: "post"}
	}

	schema, err := poll.ParseEmbedded(post.Content)
	if err != nil {
		return &ErrBadRequest{Cause: err, Motivation: "This post embeds an invalid poll"}
	}
	if schema == nil {
		return &ErrBadRequest{Motivation: "This post is not a poll"}
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return &ErrInternal{Cause: err}
	}
	record, err := poll.DecodeSubmission(schema, raw)
	if err != nil {
		return &ErrBadRequest{Cause: err, Motivation: "Invalid poll response"}
	}

	votes := poll.NewStore(routes.db.PollVotes())
	if err := votes.RecordVote(r.Context(), postH.ID(), userH.ID(), record); err != nil {
		return &ErrInternal{Cause: err, Message: "Error saving your response"}
	}

	http.Redirect(w, r, fmt.Sprintf("/poll/%d/%d", postH.BoardID(), postH.ID()), http.StatusSeeOther)
	return nil
}

// GetPollResults replays every stored record into a tally. A record that
// fails to decode surfaces as a page-level error; a partial tally is worse
// than a visible failure.
func (routes *Routes) GetPollResults(w http.ResponseWriter, r *http.Request) AppError {
	postH := GetPostH(r)

	post, err := postH.Read(r.Context())
	if err != nil {
		return &ErrNotFound{Cause: err, Thing: "post"}
	}

	schema, err := poll.ParseEmbedded(post.Content)
	if err != nil {
		return &ErrBadRequest{Cause: err, Motivation: "This post embeds an invalid poll"}
	}
	if schema == nil {
		return &ErrNotFound{Thing: "poll"}
	}

	votes := poll.NewStore(routes.db.PollVotes())
	records, err := votes.Votes(r.Context(), postH.ID())
	if err != nil {
		return &ErrInternal{Cause: err, Message: "Error reading poll responses"}
	}

	routes.tmpls.RenderHTML(w, "pollResults", struct {
		Tally   *poll.Tally
		Dump    string
		BoardID uint32
		PostID  uint32
	}{
		Tally:   poll.Aggregate(schema, records),
		Dump:    poll.DumpRecords(records),
		BoardID: postH.BoardID(),
		PostID:  postH.ID(),
	})
	return nil
}
