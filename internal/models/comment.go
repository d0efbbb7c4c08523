package models

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Comment statuses.
const (
	CommentPending  = "Pending"
	CommentApproved = "Approved"
	CommentSpam     = "Spam"
)

// commentPolicy strips everything but basic formatting from visitor-supplied
// comment text before it is stored.
var commentPolicy = bluemonday.UGCPolicy()

// Comment is a visitor comment on a post. InReplyToID, when set, references
// another comment on the same post.
type Comment struct {
	ID          CommentID  `json:"id"`
	PostID      PostID     `json:"postId"`
	InReplyToID *CommentID `json:"inReplyToId,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	URL         *string    `json:"url,omitempty"`
	Status      string     `json:"status"`
	PostedOn    time.Time  `json:"postedOn"`
	Text        string     `json:"text"`
}

// Sanitize scrubs the comment's text of markup outside the UGC policy.
// Call it before persisting any visitor-supplied comment.
func (c *Comment) Sanitize() {
	c.Text = commentPolicy.Sanitize(c.Text)
}
