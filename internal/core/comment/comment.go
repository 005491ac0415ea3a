// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"time"

	"github.com/taibuivan/quillpost/internal/core/post"
)

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AccountID string    `json:"accountId"`
	Content   string    `json:"content"`
	IsBanned  bool      `json:"isBanned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter holds the parameters for a paginated comment search.
type Filter struct {
	PostID string
}

// ChainResolver loads the ownership chain of the post being commented on.
type ChainResolver interface {
	Chain(context context.Context, postID string) (*post.Chain, error)
}

// Notifier delivers a notification to the post owner.
type Notifier interface {
	Notify(context context.Context, accountID, message string) error
}

// Global field names for validation
const (
	FieldPostID  = "postId"
	FieldContent = "content"

	ContentMaxLength = 5000
)

const (
	MsgNotFound      = "Comment with id: %s not found!"
	MsgInvalidID     = "Invalid comment id!"
	MsgInvalidFilter = "Invalid post id filter!"
	MsgCommentBanned = "The comment is banned! You can not update it."
	MsgCreated       = "Comment created!"
	MsgUpdated       = "Comment updated!"
	MsgDeleted       = "Comment deleted!"
	MsgBanned        = "Comment banned!"
	MsgUnbanned      = "Comment unbanned!"

	// NotificationMessage is sent to the post owner; the argument is the post title.
	NotificationMessage = "Your post: %s has a new comment."
)

// MetricsResource labels comment moderation in metrics and ownership messages.
const MetricsResource = "comment"
