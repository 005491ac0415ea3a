// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/quillpost/internal/core/post"
)

type Like struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChainResolver loads the ownership chain of the post being liked.
type ChainResolver interface {
	Chain(context context.Context, postID string) (*post.Chain, error)
}

// Notifier delivers a notification to the post owner.
type Notifier interface {
	Notify(context context.Context, accountID, message string) error
}

// ErrAlreadyLiked is reported by [Repository.CreateLike] when the account already likes the post.
var ErrAlreadyLiked = errors.New("post already liked")

const FieldPostID = "postId"

const (
	MsgNotFound         = "Like with id: %s not found!"
	MsgInvalidID        = "Invalid like id!"
	MsgInvalidFilter    = "Invalid post id filter!"
	MsgAlreadyLiked     = "You already liked this post!"
	MsgCreated          = "Post liked!"
	MsgDeleted          = "Like removed!"
	NotificationMessage = "Your post: %s got a new like."
)

const resourceName = "like"
